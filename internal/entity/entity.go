// Package entity defines the typed owner-entity model produced by name
// classification and consumed by similarity scoring and grouping.
package entity

import "strings"

// Kind identifies the concrete entity variant. The set is closed; code
// switching on Kind should handle every constant.
type Kind string

const (
	KindIndividual     Kind = "individual"
	KindHousehold      Kind = "household"
	KindBusiness       Kind = "business"
	KindLegalConstruct Kind = "legal_construct"
)

// Core holds the fields shared by every entity variant.
type Core struct {
	// LocationKey is the location-derived identifier: fire number when
	// present, else parcel id, else street address. Collision resolution
	// may append a suffix letter.
	LocationKey string `json:"location_key"`
	// SourceTag and RecordID identify the founding source record.
	SourceTag string `json:"source_tag"`
	RecordID  string `json:"record_id"`
	// Contact holds the entity's addresses and contact channels.
	Contact ContactInfo `json:"contact"`
	// OtherInfo holds free-form source-specific attributes such as the
	// assessed value, with provenance.
	OtherInfo map[string]AttributedTerm `json:"other_info,omitempty"`
	// Ledger lists the source record ids folded into this entity, the
	// founding record first. Collision merges append here, so the total
	// record count at a location key is reconstructable.
	Ledger []string `json:"ledger,omitempty"`
}

// RefKey returns the stable cross-source reference key for this entity,
// used by group membership and manual override rules.
func (c *Core) RefKey() string {
	return c.SourceTag + ":" + c.RecordID
}

// Foreign reports whether the entity came from the secondary source.
func (c *Core) Foreign() bool {
	return c.SourceTag != "assessor"
}

// AppendLedger records a folded-in source record id.
func (c *Core) AppendLedger(recordID string) {
	c.Ledger = append(c.Ledger, recordID)
}

// Entity is the closed set of owner variants. Concrete types are
// *Individual, *AggregateHousehold, *Business and *LegalConstruct.
type Entity interface {
	Kind() Kind
	// DisplayName returns the joined name representation used for report
	// rows and as the comparison fallback.
	DisplayName() string
	// Base exposes the shared location/contact/ledger state.
	Base() *Core
	// Weights returns the per-field comparison weights for this variant.
	Weights() ComparisonWeights
}

// Individual is a single person.
type Individual struct {
	Core
	First  AttributedTerm `json:"first"`
	Middle AttributedTerm `json:"middle,omitzero"`
	Last   AttributedTerm `json:"last"`
	Suffix AttributedTerm `json:"suffix,omitzero"`
	// OtherNames collects leftover tokens such as a trailing initial.
	OtherNames AttributedTerm `json:"other_names,omitzero"`
}

func (e *Individual) Kind() Kind                 { return KindIndividual }
func (e *Individual) Base() *Core                { return &e.Core }
func (e *Individual) Weights() ComparisonWeights { return DefaultWeights(KindIndividual) }

func (e *Individual) DisplayName() string {
	parts := make([]string, 0, 5)
	for _, t := range []AttributedTerm{e.First, e.Middle, e.OtherNames, e.Last, e.Suffix} {
		if !t.IsZero() {
			parts = append(parts, t.Value)
		}
	}
	return strings.Join(parts, " ")
}

// AggregateHousehold is a household name plus an ordered list of member
// individuals, each independently addressable. Members may be empty only
// while the household is still being built, or when the raw name was an
// unresolved complex pattern flagged for manual review.
type AggregateHousehold struct {
	Core
	HouseholdName AttributedTerm `json:"household_name"`
	Members       []*Individual  `json:"members,omitempty"`
	// NeedsReview marks an unresolved complex pattern that a human must
	// untangle before the members list can be trusted.
	NeedsReview bool `json:"needs_review,omitempty"`
}

func (e *AggregateHousehold) Kind() Kind                 { return KindHousehold }
func (e *AggregateHousehold) Base() *Core                { return &e.Core }
func (e *AggregateHousehold) Weights() ComparisonWeights { return DefaultWeights(KindHousehold) }

func (e *AggregateHousehold) DisplayName() string {
	return e.HouseholdName.Value
}

// Business is a commercial owner.
type Business struct {
	Core
	BusinessName AttributedTerm `json:"business_name"`
}

func (e *Business) Kind() Kind                 { return KindBusiness }
func (e *Business) Base() *Core                { return &e.Core }
func (e *Business) Weights() ComparisonWeights { return DefaultWeights(KindBusiness) }

func (e *Business) DisplayName() string {
	return e.BusinessName.Value
}

// LegalConstruct is a trust, estate, LLC or similar construct,
// distinguished from Business by keyword detection.
type LegalConstruct struct {
	Core
	ConstructName AttributedTerm `json:"construct_name"`
	// Designation is the keyword that triggered the classification,
	// e.g. TRUST or ESTATE.
	Designation string `json:"designation,omitempty"`
}

func (e *LegalConstruct) Kind() Kind                 { return KindLegalConstruct }
func (e *LegalConstruct) Base() *Core                { return &e.Core }
func (e *LegalConstruct) Weights() ComparisonWeights { return DefaultWeights(KindLegalConstruct) }

func (e *LegalConstruct) DisplayName() string {
	return e.ConstructName.Value
}
