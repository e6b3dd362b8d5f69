// Package similarity scores how alike two owner entities are across name,
// contact and attribute dimensions. All scoring is deterministic and
// threshold-based.
package similarity

import (
	"strings"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/normalize"
)

// Comparator computes normalized [0,1] similarity between entities.
// Compare is symmetric and reflexive on exact duplicates.
type Comparator struct{}

// NewComparator creates a comparator.
func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare scores two entities. The overall score is a weighted sum of the
// component scores; weights come from the entities' declared comparison
// weight tables (averaged across the pair so the result stays symmetric
// when the variants differ). Components missing on both sides are excluded
// from the weighting; components missing on one side contribute 0, so the
// overall degrades gracefully instead of failing.
func (c *Comparator) Compare(a, b entity.Entity) Score {
	s := Score{
		Name:    c.nameSimilarity(a, b),
		Contact: c.contactSimilarity(a.Base().Contact, b.Base().Contact),
	}

	otherScore, otherPresent := c.otherSimilarity(a.Base().OtherInfo, b.Base().OtherInfo)
	legacyScore, legacyPresent := c.legacySimilarity(a.Base().OtherInfo, b.Base().OtherInfo)
	s.Other = otherScore
	s.Legacy = legacyScore

	wa, wb := a.Weights(), b.Weights()
	w := entity.ComparisonWeights{
		Name:    (wa.Name + wb.Name) / 2,
		Contact: (wa.Contact + wb.Contact) / 2,
		Other:   (wa.Other + wb.Other) / 2,
		Legacy:  (wa.Legacy + wb.Legacy) / 2,
	}

	contactPresent := !a.Base().Contact.IsZero() || !b.Base().Contact.IsZero()

	var sum, total float64
	sum += w.Name * s.Name
	total += w.Name
	if contactPresent {
		sum += w.Contact * s.Contact
		total += w.Contact
	}
	if otherPresent {
		sum += w.Other * s.Other
		total += w.Other
	}
	if legacyPresent {
		sum += w.Legacy * s.Legacy
		total += w.Legacy
	}

	if total > 0 {
		s.Overall = sum / total
	}
	return s
}

// nameSimilarity picks the best-aligned representation for each variant
// pair. Individuals compare (first,last) pairs with a swapped-order
// fallback; everything else compares the joined display name. An
// individual against a household also tries each household member.
func (c *Comparator) nameSimilarity(a, b entity.Entity) float64 {
	ia, aIsInd := a.(*entity.Individual)
	ib, bIsInd := b.(*entity.Individual)

	switch {
	case aIsInd && bIsInd:
		return individualNameSimilarity(ia, ib)
	case aIsInd:
		return bestMemberSimilarity(ia, b)
	case bIsInd:
		return bestMemberSimilarity(ib, a)
	default:
		return joinedNameSimilarity(a.DisplayName(), b.DisplayName())
	}
}

// joinedNameSimilarity scores two joined names, tolerating word reordering
// ("HAMMOND FAMILY TRUST" vs "TRUST HAMMOND FAMILY") by blending token
// overlap into the edit score when it helps.
func joinedNameSimilarity(a, b string) float64 {
	edit := EditSimilarity(a, b)
	overlap := normalize.TokenOverlap(strings.Fields(a), strings.Fields(b))
	if blended := (edit + overlap) / 2; blended > edit {
		return blended
	}
	return edit
}

func individualNameSimilarity(a, b *entity.Individual) float64 {
	straight := (EditSimilarity(a.First.Value, b.First.Value) +
		EditSimilarity(a.Last.Value, b.Last.Value)) / 2
	swapped := (EditSimilarity(a.First.Value, b.Last.Value) +
		EditSimilarity(a.Last.Value, b.First.Value)) / 2

	best := straight
	if swapped > best {
		best = swapped
	}
	if full := EditSimilarity(a.DisplayName(), b.DisplayName()); full > best {
		best = full
	}
	return best
}

// bestMemberSimilarity compares an individual against a household or other
// aggregate: its joined name, plus each member when present.
func bestMemberSimilarity(ind *entity.Individual, other entity.Entity) float64 {
	best := EditSimilarity(ind.DisplayName(), other.DisplayName())
	if hh, ok := other.(*entity.AggregateHousehold); ok {
		for _, member := range hh.Members {
			if s := individualNameSimilarity(ind, member); s > best {
				best = s
			}
		}
	}
	return best
}

// contactSimilarity scores two contact blocks: the best pairwise address
// score across primary and secondary addresses, with matching email or
// phone as a secondary signal that can lift a weak address score.
func (c *Comparator) contactSimilarity(a, b entity.ContactInfo) float64 {
	if a.IsZero() || b.IsZero() {
		return 0.0
	}

	addrsA := append([]entity.Address{a.Primary}, a.Secondary...)
	addrsB := append([]entity.Address{b.Primary}, b.Secondary...)

	var best float64
	for _, aa := range addrsA {
		if aa.IsZero() {
			continue
		}
		for _, bb := range addrsB {
			if bb.IsZero() {
				continue
			}
			if s := AddressSimilarity(aa, bb); s > best {
				best = s
			}
		}
	}

	// Identical email or phone is corroborating, not conclusive: it lifts
	// the score but stays below the same-owner contact threshold.
	if a.Email != "" && a.Email == b.Email && best < 0.90 {
		best = 0.90
	}
	if a.Phone != "" && a.Phone == b.Phone && best < 0.85 {
		best = 0.85
	}
	return best
}

// Structured address component weights. Street and zip carry the most
// signal for this municipality's formats.
const (
	weightNumber = 0.25
	weightStreet = 0.35
	weightUnit   = 0.05
	weightCity   = 0.15
	weightState  = 0.05
	weightZip    = 0.15
)

// AddressSimilarity scores two addresses component-wise with partial
// credit, falling back to raw-string similarity when structured fields are
// missing. When both sides are PO Boxes with unparsed box numbers, only the
// raw strings can be compared; such a match counts only above the stricter
// POBoxRawThreshold, otherwise it is capped below every accept threshold.
func AddressSimilarity(a, b entity.Address) float64 {
	if a.POBox && b.POBox {
		if a.Unit != "" && b.Unit != "" {
			if a.Unit == b.Unit {
				return zipAdjusted(1.0, a, b)
			}
			return 0.0
		}
		// Both box numbers unparsed: raw-string fallback with the strict
		// acceptance floor.
		raw := rawSimilarity(a, b)
		if raw >= POBoxRawThreshold {
			return raw
		}
		if raw > 0.85 {
			return 0.85
		}
		return raw
	}

	if !a.HasComponents() || !b.HasComponents() {
		raw := rawSimilarity(a, b)
		// Disagreeing leading house numbers rule out the same parcel even
		// when the street text is near-identical.
		numsA, numsB := normalize.ExtractHouseNumbers(a.Raw), normalize.ExtractHouseNumbers(b.Raw)
		if len(numsA) > 0 && len(numsB) > 0 && numsA[0] != numsB[0] {
			return raw * 0.5
		}
		return raw
	}

	var sum, total float64
	component := func(weight float64, va, vb string, fuzzy bool) {
		if va == "" && vb == "" {
			return
		}
		total += weight
		if va == "" || vb == "" {
			return // one side missing contributes 0
		}
		if fuzzy {
			sum += weight * EditSimilarity(va, vb)
		} else if va == vb {
			sum += weight
		}
	}

	component(weightNumber, a.Number, b.Number, false)
	component(weightStreet, a.Street, b.Street, true)
	component(weightUnit, a.Unit, b.Unit, false)
	component(weightCity, a.City, b.City, true)
	component(weightState, a.State, b.State, false)
	component(weightZip, a.Zip, b.Zip, false)

	if total == 0 {
		return rawSimilarity(a, b)
	}

	structured := sum / total
	if raw := rawSimilarity(a, b); raw > structured {
		// The raw strings agree better than extraction did; trust them
		// partially.
		structured = (structured + raw) / 2
	}
	return structured
}

// zipAdjusted keeps an exact box-number match honest when the zip codes
// disagree (same box number in a different town is a different box).
func zipAdjusted(score float64, a, b entity.Address) float64 {
	if a.Zip != "" && b.Zip != "" && a.Zip != b.Zip {
		return score * 0.5
	}
	return score
}

// rawSimilarity blends edit and Jaro similarity on the raw strings.
func rawSimilarity(a, b entity.Address) float64 {
	ra, rb := normalize.CleanAddress(a.Raw), normalize.CleanAddress(b.Raw)
	edit := EditSimilarity(ra, rb)
	jaro := JaroSimilarity(ra, rb)
	if jaro > edit {
		return (edit + jaro) / 2
	}
	return edit
}

// otherSimilarity averages similarity over the attribute keys both sides
// carry. present is false when the sides share no keys, in which case the
// component is excluded from the overall weighting.
func (c *Comparator) otherSimilarity(a, b map[string]entity.AttributedTerm) (score float64, present bool) {
	countNonLegacy := func(m map[string]entity.AttributedTerm) int {
		n := len(m)
		if _, ok := m["legacy_id"]; ok {
			n--
		}
		return n
	}
	na, nb := countNonLegacy(a), countNonLegacy(b)
	if na == 0 && nb == 0 {
		return 0.0, false
	}
	if na == 0 || nb == 0 {
		return 0.0, true
	}

	var sum float64
	shared := 0
	for key, ta := range a {
		tb, ok := b[key]
		if !ok || key == "legacy_id" {
			continue
		}
		sum += EditSimilarity(ta.Value, tb.Value)
		shared++
	}
	if shared == 0 {
		return 0.0, true
	}
	return sum / float64(shared), true
}

// legacySimilarity compares the prior-system identifier when both sides
// carry one.
func (c *Comparator) legacySimilarity(a, b map[string]entity.AttributedTerm) (score float64, present bool) {
	ta, okA := a["legacy_id"]
	tb, okB := b["legacy_id"]
	if !okA && !okB {
		return 0.0, false
	}
	if !okA || !okB {
		return 0.0, true
	}
	if ta.Value == tb.Value {
		return 1.0, true
	}
	return 0.0, true
}
