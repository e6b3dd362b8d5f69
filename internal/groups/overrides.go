package groups

// OverrideAction is a manual reviewer decision about an entity pair.
type OverrideAction string

const (
	// ForceMatch places the pair in the same group regardless of score.
	ForceMatch OverrideAction = "force_match"
	// ForceExclude keeps the pair apart regardless of score.
	ForceExclude OverrideAction = "force_exclude"
)

// OverrideSet holds manual force-match / force-exclude rules keyed by
// entity-pair reference keys. Rules are consulted before automatic scoring
// and take precedence over it.
type OverrideSet struct {
	rules map[[2]string]OverrideAction
}

// NewOverrideSet creates an empty override set.
func NewOverrideSet() *OverrideSet {
	return &OverrideSet{rules: make(map[[2]string]OverrideAction)}
}

// Add records a rule for an entity-key pair. Key order does not matter.
func (o *OverrideSet) Add(keyA, keyB string, action OverrideAction) {
	o.rules[pairOf(keyA, keyB)] = action
}

// Lookup returns the rule for a pair, if any.
func (o *OverrideSet) Lookup(keyA, keyB string) (OverrideAction, bool) {
	action, ok := o.rules[pairOf(keyA, keyB)]
	return action, ok
}

// Len returns the number of rules.
func (o *OverrideSet) Len() int {
	return len(o.rules)
}

func pairOf(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
