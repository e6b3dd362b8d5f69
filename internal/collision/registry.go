// Package collision resolves entities that share a location key: the same
// owner appearing on multiple source records is merged, distinct owners at
// one location get suffixed keys.
package collision

import (
	"strconv"

	"github.com/townreach/ownermatch/internal/entity"
)

// Slip is one registered owner at a base location key.
type Slip struct {
	// Entity is the registered owner. Its LocationKey carries the full
	// (possibly suffixed) key.
	Entity entity.Entity
	// Suffix is "" for the first registrant at a key, then "A", "B", ...
	Suffix string
}

// Registry is the transient per-run collision state: base location key to
// the ordered owners registered there. Create one per processing run with
// NewRegistry and discard it afterwards; registries are never shared or
// reused across runs.
type Registry struct {
	slips map[string][]*Slip
	// nextSuffix counts suffixes ever allocated per base key. Allocation
	// is monotonic: a suffix is never reused even if an entity is removed.
	nextSuffix map[string]int
	// order lists base keys by first registration, for deterministic
	// iteration.
	order []string
}

// NewRegistry creates an empty registry for one processing run.
func NewRegistry() *Registry {
	return &Registry{
		slips:      make(map[string][]*Slip),
		nextSuffix: make(map[string]int),
	}
}

// At returns the slips registered at a base key, in registration order.
func (r *Registry) At(baseKey string) []*Slip {
	return r.slips[baseKey]
}

// add registers an entity at a base key, allocating the next suffix. The
// first registrant keeps the bare key.
func (r *Registry) add(baseKey string, e entity.Entity) *Slip {
	n := r.nextSuffix[baseKey]
	r.nextSuffix[baseKey] = n + 1

	slip := &Slip{Entity: e, Suffix: suffixFor(n)}
	if len(r.slips[baseKey]) == 0 {
		r.order = append(r.order, baseKey)
	}
	r.slips[baseKey] = append(r.slips[baseKey], slip)

	e.Base().LocationKey = baseKey + slip.Suffix
	return slip
}

// suffixFor maps allocation index to a suffix: the first registrant gets
// none, collisions get A through Z, and past 26 the index itself is used.
func suffixFor(n int) string {
	switch {
	case n == 0:
		return ""
	case n <= 26:
		return string(rune('A' + n - 1))
	default:
		return strconv.Itoa(n)
	}
}

// Entities returns every registered entity in deterministic order: base
// keys by first registration, slips by registration within a key.
func (r *Registry) Entities() []entity.Entity {
	var out []entity.Entity
	for _, key := range r.order {
		for _, slip := range r.slips[key] {
			out = append(out, slip.Entity)
		}
	}
	return out
}

// RecordCount returns the total number of source records folded into the
// owners at a base key, reconstructed from the subdivision ledgers.
func (r *Registry) RecordCount(baseKey string) int {
	total := 0
	for _, slip := range r.slips[baseKey] {
		total += len(slip.Entity.Base().Ledger)
	}
	return total
}

// OwnerCount returns the number of distinct owners at a base key.
func (r *Registry) OwnerCount(baseKey string) int {
	return len(r.slips[baseKey])
}
