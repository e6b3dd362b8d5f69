package similarity

import (
	"testing"

	"github.com/townreach/ownermatch/internal/entity"
)

func namedIndividual(first, last string) *entity.Individual {
	return &entity.Individual{
		First: entity.AttributedTerm{Value: first},
		Last:  entity.AttributedTerm{Value: last},
	}
}

func withContact(e *entity.Individual, addr entity.Address) *entity.Individual {
	e.Contact.Primary = addr
	return e
}

func streetAddress(number, street, city, zip string) entity.Address {
	return entity.Address{
		Number: number,
		Street: street,
		City:   city,
		State:  "NH",
		Zip:    zip,
		Raw:    number + " " + street + " " + city + " NH " + zip,
	}
}

func TestCompareReflexive(t *testing.T) {
	comparator := NewComparator()

	entities := []entity.Entity{
		namedIndividual("JONATHAN", "KASTNER"),
		withContact(namedIndividual("SUSAN", "LICHT"), streetAddress("12", "ELM STREET", "MILLBROOK", "03299")),
		&entity.Business{BusinessName: entity.AttributedTerm{Value: "GRANITE STATE TIMBER INC"}},
		&entity.AggregateHousehold{
			HouseholdName: entity.AttributedTerm{Value: "MARK & ELLEN GRADY"},
			Members: []*entity.Individual{
				namedIndividual("MARK", "GRADY"),
				namedIndividual("ELLEN", "GRADY"),
			},
		},
	}

	for _, e := range entities {
		score := comparator.Compare(e, e)
		if score.Overall != 1.0 {
			t.Errorf("Compare(%q, itself).Overall = %v, want 1.0", e.DisplayName(), score.Overall)
		}
		if !score.SameOwner() {
			t.Errorf("Compare(%q, itself) should satisfy the same-owner rule", e.DisplayName())
		}
	}
}

func TestCompareSymmetric(t *testing.T) {
	comparator := NewComparator()

	a := withContact(namedIndividual("JONATHAN", "KASTNER"), streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"))
	b := &entity.AggregateHousehold{
		HouseholdName: entity.AttributedTerm{Value: "JON & HELEN KASTNER"},
		Members: []*entity.Individual{
			namedIndividual("JON", "KASTNER"),
			namedIndividual("HELEN", "KASTNER"),
		},
	}
	b.Contact.Primary = streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299")

	ab := comparator.Compare(a, b)
	ba := comparator.Compare(b, a)
	if ab.Overall != ba.Overall || ab.Name != ba.Name || ab.Contact != ba.Contact {
		t.Errorf("Compare not symmetric: a,b = %+v  b,a = %+v", ab, ba)
	}
}

func TestCompareDistinctOwnersBelowThreshold(t *testing.T) {
	comparator := NewComparator()

	a := withContact(namedIndividual("JONATHAN", "KASTNER"), streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"))
	b := withContact(namedIndividual("PRISCILLA", "VOGELSANG"), streetAddress("902", "QUARRY LANE", "DERRYFIELD", "03812"))

	score := comparator.Compare(a, b)
	if score.SameOwner() {
		t.Errorf("unrelated owners scored as same owner: %+v", score)
	}
	if score.NearMiss() {
		t.Errorf("unrelated owners scored as near miss: %+v", score)
	}
}

func TestSameOwnerByNameAxis(t *testing.T) {
	comparator := NewComparator()

	// Identical names, no contact on either side: the name axis alone
	// satisfies the same-owner rule.
	a := namedIndividual("SUSAN", "LICHT")
	b := namedIndividual("SUSAN", "LICHT")

	score := comparator.Compare(a, b)
	if score.Name < SameOwnerName {
		t.Fatalf("identical names scored %v, want >= %v", score.Name, SameOwnerName)
	}
	if !score.SameOwner() {
		t.Errorf("identical names should satisfy the same-owner rule: %+v", score)
	}
}

func TestSwappedNameOrder(t *testing.T) {
	// "SMITH JOHN" parsed one way, "JOHN SMITH" the other: the swapped
	// comparison recovers the alignment.
	a := namedIndividual("JOHN", "SMITH")
	b := namedIndividual("SMITH", "JOHN")

	if s := individualNameSimilarity(a, b); s != 1.0 {
		t.Errorf("swapped name similarity = %v, want 1.0", s)
	}
}

func TestIndividualAgainstHouseholdMember(t *testing.T) {
	comparator := NewComparator()

	ind := namedIndividual("MARK", "GRADY")
	hh := &entity.AggregateHousehold{
		HouseholdName: entity.AttributedTerm{Value: "MARK & ELLEN GRADY"},
		Members: []*entity.Individual{
			namedIndividual("MARK", "GRADY"),
			namedIndividual("ELLEN", "GRADY"),
		},
	}

	score := comparator.Compare(ind, hh)
	if score.Name != 1.0 {
		t.Errorf("individual vs matching household member: name = %v, want 1.0", score.Name)
	}
}

func TestAddressSimilarityComponents(t *testing.T) {
	tests := []struct {
		name string
		a, b entity.Address
		min  float64
		max  float64
	}{
		{
			name: "identical structured",
			a:    streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"),
			b:    streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"),
			min:  1.0,
			max:  1.0,
		},
		{
			name: "different house number",
			a:    streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"),
			b:    streetAddress("47", "RIVER ROAD", "MILLBROOK", "03299"),
			min:  0.5,
			max:  0.95,
		},
		{
			name: "entirely different",
			a:    streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"),
			b:    streetAddress("902", "QUARRY LANE", "DERRYFIELD", "03812"),
			min:  0.0,
			max:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddressSimilarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("AddressSimilarity = %v, want within [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestPOBoxMatching(t *testing.T) {
	boxWithUnit := func(unit, zip, raw string) entity.Address {
		return entity.Address{POBox: true, Unit: unit, Zip: zip, Raw: raw}
	}

	t.Run("same box number", func(t *testing.T) {
		a := boxWithUnit("12", "03299", "PO BOX 12")
		b := boxWithUnit("12", "03299", "P O BOX 12")
		if got := AddressSimilarity(a, b); got != 1.0 {
			t.Errorf("same box number = %v, want 1.0", got)
		}
	})

	t.Run("different box number", func(t *testing.T) {
		a := boxWithUnit("12", "03299", "PO BOX 12")
		b := boxWithUnit("47", "03299", "PO BOX 47")
		if got := AddressSimilarity(a, b); got != 0.0 {
			t.Errorf("different box number = %v, want 0.0", got)
		}
	})

	t.Run("same box number different zip", func(t *testing.T) {
		a := boxWithUnit("12", "03299", "PO BOX 12")
		b := boxWithUnit("12", "03812", "PO BOX 12")
		if got := AddressSimilarity(a, b); got >= SameOwnerContact {
			t.Errorf("same box in a different town scored %v, want below %v", got, SameOwnerContact)
		}
	})

	t.Run("unparsed boxes identical raw", func(t *testing.T) {
		a := entity.Address{POBox: true, Raw: "PO BOX TWELVE MILLBROOK"}
		b := entity.Address{POBox: true, Raw: "PO BOX TWELVE MILLBROOK"}
		if got := AddressSimilarity(a, b); got < POBoxRawThreshold {
			t.Errorf("identical unparsed boxes = %v, want >= %v", got, POBoxRawThreshold)
		}
	})

	t.Run("unparsed boxes similar but below floor are capped", func(t *testing.T) {
		a := entity.Address{POBox: true, Raw: "PO BOX HOLDERS MILLBROOK"}
		b := entity.Address{POBox: true, Raw: "PO BOX HOLDENS MELLBROOK"}
		got := AddressSimilarity(a, b)
		if got >= SameOwnerContact {
			t.Errorf("near-identical unparsed boxes scored %v, must stay below %v", got, SameOwnerContact)
		}
	})
}

func TestEmailLiftsWeakContact(t *testing.T) {
	comparator := NewComparator()

	a := entity.ContactInfo{
		Primary: streetAddress("45", "RIVER ROAD", "MILLBROOK", "03299"),
		Email:   "kastner@example.com",
	}
	b := entity.ContactInfo{
		Primary: streetAddress("902", "QUARRY LANE", "DERRYFIELD", "03812"),
		Email:   "kastner@example.com",
	}

	got := comparator.contactSimilarity(a, b)
	if got != 0.90 {
		t.Errorf("matching email lift = %v, want 0.90", got)
	}
	if got >= SameOwnerContact {
		t.Errorf("email match alone must stay below the contact threshold %v", SameOwnerContact)
	}
}

func TestLegacyIDComparison(t *testing.T) {
	comparator := NewComparator()

	withLegacy := func(e *entity.Individual, id string) *entity.Individual {
		e.OtherInfo = map[string]entity.AttributedTerm{
			"legacy_id": entity.NewTerm(id, "donor", -1, "D1"),
		}
		return e
	}

	a := withLegacy(namedIndividual("JONATHAN", "KASTNER"), "L-100")
	b := withLegacy(namedIndividual("JONATHAN", "KASTNER"), "L-100")
	score := comparator.Compare(a, b)
	if score.Legacy != 1.0 {
		t.Errorf("matching legacy ids: Legacy = %v, want 1.0", score.Legacy)
	}
	if score.Overall != 1.0 {
		t.Errorf("matching legacy ids: Overall = %v, want 1.0", score.Overall)
	}

	c := withLegacy(namedIndividual("JONATHAN", "KASTNER"), "L-200")
	score = comparator.Compare(a, c)
	if score.Legacy != 0.0 {
		t.Errorf("mismatched legacy ids: Legacy = %v, want 0.0", score.Legacy)
	}
	if score.Overall >= 1.0 {
		t.Errorf("mismatched legacy ids should drag Overall below 1.0, got %v", score.Overall)
	}

	// One-sided: the absent id counts against the pair, never errors.
	score = comparator.Compare(a, namedIndividual("JONATHAN", "KASTNER"))
	if score.Legacy != 0.0 {
		t.Errorf("one-sided legacy id: Legacy = %v, want 0.0", score.Legacy)
	}
}

func TestScoreRules(t *testing.T) {
	tests := []struct {
		name     string
		score    Score
		same     bool
		nearMiss bool
	}{
		{name: "overall clears", score: Score{Overall: 0.93}, same: true},
		{name: "name axis clears", score: Score{Overall: 0.60, Name: 0.96}, same: true},
		{name: "contact axis clears", score: Score{Overall: 0.60, Contact: 0.97}, same: true},
		{name: "overall near miss", score: Score{Overall: 0.88}, nearMiss: true},
		{name: "name near miss", score: Score{Name: 0.91}, nearMiss: true},
		{name: "well below", score: Score{Overall: 0.50, Name: 0.50, Contact: 0.50}},
		{name: "exactly at overall threshold", score: Score{Overall: SameOwnerOverall}, same: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.score.SameOwner(); got != tt.same {
				t.Errorf("SameOwner() = %v, want %v", got, tt.same)
			}
			if got := tt.score.NearMiss(); got != tt.nearMiss {
				t.Errorf("NearMiss() = %v, want %v", got, tt.nearMiss)
			}
		})
	}
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"KASTNER", "KASTNER", 1.0},
		{"", "", 0.0},
		{"KASTNER", "", 0.0},
		{"ABCD", "ABXD", 0.75},
	}
	for _, tt := range tests {
		if got := EditSimilarity(tt.a, tt.b); got != tt.want {
			t.Errorf("EditSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
