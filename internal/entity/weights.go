package entity

// ComparisonWeights declares how much each field group contributes to an
// entity's overall similarity score. Weights sum to 1.0 per variant.
type ComparisonWeights struct {
	Name    float64 `json:"name"`
	Contact float64 `json:"contact"`
	Other   float64 `json:"other"`
	Legacy  float64 `json:"legacy"`
}

// DefaultWeights returns the declared weight table for a variant.
// Individuals weight name most heavily; households weight the shared
// mailing address more, since synthesized household names are weaker
// identifiers.
func DefaultWeights(k Kind) ComparisonWeights {
	switch k {
	case KindIndividual:
		return ComparisonWeights{Name: 0.50, Contact: 0.30, Other: 0.15, Legacy: 0.05}
	case KindHousehold:
		return ComparisonWeights{Name: 0.30, Contact: 0.40, Other: 0.20, Legacy: 0.10}
	case KindBusiness:
		return ComparisonWeights{Name: 0.45, Contact: 0.35, Other: 0.15, Legacy: 0.05}
	case KindLegalConstruct:
		return ComparisonWeights{Name: 0.45, Contact: 0.35, Other: 0.15, Legacy: 0.05}
	default:
		return ComparisonWeights{Name: 0.25, Contact: 0.25, Other: 0.25, Legacy: 0.25}
	}
}
