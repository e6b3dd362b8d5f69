// Package source loads raw owner records from the assessor and donor feeds.
package source

import (
	"strings"

	"github.com/townreach/ownermatch/internal/normalize"
)

// Source tags identify which feed a record came from. The assessor feed is
// the primary source; donor records are the secondary ("foreign") source.
const (
	TagAssessor = "assessor"
	TagDonor    = "donor"
)

// Record is one raw row from a source feed, before classification.
type Record struct {
	// SourceTag is TagAssessor or TagDonor.
	SourceTag string
	// RecordID is the feed's own identifier for this row.
	RecordID string
	// OwnerName is the free-text owner name string.
	OwnerName string
	// LocationRaw is the on-location (primary) address string.
	LocationRaw string
	// SecondaryRaw is the off-location mailing address string, if any.
	SecondaryRaw string
	// FireNumber is the municipality's small-integer parcel identifier,
	// empty when the parcel has none.
	FireNumber string
	// ParcelID is the assessor parcel id, used when no fire number exists.
	ParcelID string
	// Email and Phone come from the donor feed only.
	Email string
	Phone string
	// LegacyID is the donor database's prior-system identifier, carried so
	// records re-keyed across migrations can still be tied together.
	LegacyID string
	// AssessedValue is the assessor's valuation, retained as free-form text.
	AssessedValue string
}

// LocationKey derives the record's location key, preferring fire number,
// then parcel id, then the raw street address. A malformed fire-number
// field falls through to the next preference rather than keying on junk.
func (r Record) LocationKey() string {
	if fn := strings.TrimSpace(r.FireNumber); fn != "" && normalize.IsFireNumber(fn) {
		return fn
	}
	if pid := strings.TrimSpace(r.ParcelID); pid != "" {
		return pid
	}
	return strings.ToUpper(strings.TrimSpace(r.LocationRaw))
}

// IsForeign reports whether the record came from the secondary source.
func (r Record) IsForeign() bool {
	return r.SourceTag == TagDonor
}
