package similarity

// Empirically tuned threshold constants. These encode the municipality's
// calibration; change them only against a labeled sample.
const (
	// SameOwnerOverall, SameOwnerName and SameOwnerContact form an
	// any-axis rule: two entities are the same real-world owner when any
	// single one of the three scores clears its threshold.
	SameOwnerOverall = 0.92
	SameOwnerName    = 0.95
	SameOwnerContact = 0.95

	// NearMissThreshold is the floor of the review band: scores at or
	// above it that do not clear SameOwner are retained for human review.
	NearMissThreshold = 0.875

	// ConnectivityThreshold is the contact-score edge cutoff for the
	// group collapse reachability test.
	ConnectivityThreshold = 0.87

	// POBoxRawThreshold is the stricter floor applied when both sides are
	// PO Boxes with unparsed box numbers and only the raw strings can be
	// compared.
	POBoxRawThreshold = 0.95
)

// Score is the comparison result: an overall weighted similarity plus the
// per-component scores it was built from, all in [0,1].
type Score struct {
	Overall float64 `json:"overall"`
	Name    float64 `json:"name"`
	Contact float64 `json:"contact"`
	Other   float64 `json:"other"`
	Legacy  float64 `json:"legacy"`
}

// SameOwner applies the any-axis threshold rule.
func (s Score) SameOwner() bool {
	return s.Overall >= SameOwnerOverall ||
		s.Name >= SameOwnerName ||
		s.Contact >= SameOwnerContact
}

// NearMiss reports whether the score falls in the review band: close to,
// but below, the same-owner rule on at least one axis.
func (s Score) NearMiss() bool {
	if s.SameOwner() {
		return false
	}
	return s.Overall >= NearMissThreshold ||
		s.Name >= NearMissThreshold ||
		s.Contact >= NearMissThreshold
}
