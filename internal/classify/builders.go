package classify

import (
	"fmt"
	"strings"

	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/normalize"
	"github.com/townreach/ownermatch/internal/source"
)

// BuilderFunc constructs a typed entity from the feature set. Builders fill
// name fields only; the classifier attaches location, contact and ledger
// state afterwards. A builder returns an error when the token shape it was
// selected for does not hold; the classifier records that as a per-record
// classification failure.
type BuilderFunc func(f Features, rec source.Record) (entity.Entity, error)

// term builds an AttributedTerm with provenance pointing at the originating
// token index of the source record's owner-name field.
func term(rec source.Record, tokenIndex int, value string) entity.AttributedTerm {
	return entity.NewTerm(value, rec.SourceTag, tokenIndex, rec.RecordID)
}

// individual is shorthand for the positional individual builders. Indexes
// refer to token positions; -1 leaves the field empty.
type individual struct {
	first, middle, last, suffix, other int
}

func (spec individual) build(f Features, rec source.Record) (entity.Entity, error) {
	pick := func(idx int) entity.AttributedTerm {
		if idx < 0 {
			return entity.AttributedTerm{}
		}
		if idx >= f.WordCount {
			return entity.AttributedTerm{}
		}
		return term(rec, idx, f.word(idx))
	}

	e := &entity.Individual{
		First:      pick(spec.first),
		Middle:     pick(spec.middle),
		Last:       pick(spec.last),
		Suffix:     pick(spec.suffix),
		OtherNames: pick(spec.other),
	}
	if e.Last.IsZero() && e.First.IsZero() {
		return nil, fmt.Errorf("individual builder produced no name from %q", f.Raw)
	}
	return e, nil
}

// positionalIndividual returns a builder that assigns name fields by fixed
// token positions, requiring an exact word count.
func positionalIndividual(wordCount int, spec individual) BuilderFunc {
	return func(f Features, rec source.Record) (entity.Entity, error) {
		if f.WordCount != wordCount {
			return nil, fmt.Errorf("expected %d words, got %d in %q", wordCount, f.WordCount, f.Raw)
		}
		return spec.build(f, rec)
	}
}

// buildSharedLastHousehold handles the two-person ampersand patterns. The
// shared last name is lastIdx's token; the two first names sit on either
// side of the ampersand.
func buildSharedLastHousehold(f Features, rec source.Record, lastIdx int) (entity.Entity, error) {
	if f.AmpersandIndex < 0 {
		return nil, fmt.Errorf("household builder requires an ampersand in %q", f.Raw)
	}

	last := f.word(lastIdx)
	if last == "" {
		return nil, fmt.Errorf("household builder found no shared last name in %q", f.Raw)
	}

	var leftFirst, rightFirst, leftMiddle, rightMiddle int
	leftFirst, rightFirst, leftMiddle, rightMiddle = -1, -1, -1, -1

	for i := 0; i < f.AmpersandIndex; i++ {
		if i == lastIdx {
			continue
		}
		if leftFirst < 0 {
			leftFirst = i
		} else if leftMiddle < 0 {
			leftMiddle = i
		}
	}
	for i := f.AmpersandIndex + 1; i < f.WordCount; i++ {
		if i == lastIdx {
			continue
		}
		if rightFirst < 0 {
			rightFirst = i
		} else if rightMiddle < 0 {
			rightMiddle = i
		}
	}

	if leftFirst < 0 || rightFirst < 0 {
		return nil, fmt.Errorf("household builder could not find both first names in %q", f.Raw)
	}

	left := &entity.Individual{
		First: term(rec, leftFirst, f.word(leftFirst)),
		Last:  term(rec, lastIdx, last),
	}
	if leftMiddle >= 0 {
		left.Middle = term(rec, leftMiddle, f.word(leftMiddle))
	}
	right := &entity.Individual{
		First: term(rec, rightFirst, f.word(rightFirst)),
		Last:  term(rec, lastIdx, last),
	}
	if rightMiddle >= 0 {
		right.Middle = term(rec, rightMiddle, f.word(rightMiddle))
	}

	name := fmt.Sprintf("%s & %s %s", left.First.Value, right.First.Value, last)
	return &entity.AggregateHousehold{
		HouseholdName: term(rec, 0, name),
		Members:       []*entity.Individual{left, right},
	}, nil
}

// buildTwoSidedHousehold handles "LAST, FIRST & LAST, FIRST" where each side
// carries its own last name.
func buildTwoSidedHousehold(f Features, rec source.Record) (entity.Entity, error) {
	amp := f.AmpersandIndex
	if amp < 2 || amp+2 >= f.WordCount {
		return nil, fmt.Errorf("two-sided household builder got unexpected shape %q", f.Raw)
	}

	left := &entity.Individual{
		Last:  term(rec, 0, f.word(0)),
		First: term(rec, 1, f.word(1)),
	}
	right := &entity.Individual{
		Last:  term(rec, amp+1, f.word(amp+1)),
		First: term(rec, amp+2, f.word(amp+2)),
	}
	if left.First.IsZero() || right.First.IsZero() {
		return nil, fmt.Errorf("two-sided household builder missing a first name in %q", f.Raw)
	}

	name := fmt.Sprintf("%s %s & %s %s", left.First.Value, left.Last.Value, right.First.Value, right.Last.Value)
	return &entity.AggregateHousehold{
		HouseholdName: term(rec, 0, name),
		Members:       []*entity.Individual{left, right},
	}, nil
}

// buildSlashHousehold handles "LAST FIRST/FIRST" where a slash joins two
// first names sharing the leading last name.
func buildSlashHousehold(f Features, rec source.Record) (entity.Entity, error) {
	slashIdx := -1
	for i, w := range f.Words {
		if strings.Contains(w, "/") {
			slashIdx = i
			break
		}
	}
	if slashIdx < 1 {
		return nil, fmt.Errorf("slash household builder got unexpected shape %q", f.Raw)
	}

	halves := strings.SplitN(normalize.StripPunct(f.Words[slashIdx]), "/", 2)
	if len(halves) != 2 || halves[0] == "" || halves[1] == "" {
		return nil, fmt.Errorf("slash household builder could not split %q", f.Words[slashIdx])
	}

	last := f.word(0)
	left := &entity.Individual{
		First: term(rec, slashIdx, halves[0]),
		Last:  term(rec, 0, last),
	}
	right := &entity.Individual{
		First: term(rec, slashIdx, halves[1]),
		Last:  term(rec, 0, last),
	}

	name := fmt.Sprintf("%s & %s %s", halves[0], halves[1], last)
	return &entity.AggregateHousehold{
		HouseholdName: term(rec, 0, name),
		Members:       []*entity.Individual{left, right},
	}, nil
}

// buildFirstNamesHousehold handles "FIRST & FIRST" with no last name at all.
func buildFirstNamesHousehold(f Features, rec source.Record) (entity.Entity, error) {
	amp := f.AmpersandIndex
	if amp != 1 || f.WordCount != 3 {
		return nil, fmt.Errorf("first-names household builder got unexpected shape %q", f.Raw)
	}

	left := &entity.Individual{First: term(rec, 0, f.word(0))}
	right := &entity.Individual{First: term(rec, 2, f.word(2))}

	return &entity.AggregateHousehold{
		HouseholdName: term(rec, 0, fmt.Sprintf("%s & %s", left.First.Value, right.First.Value)),
		Members:       []*entity.Individual{left, right},
	}, nil
}

// buildRepeatedSurnameHousehold handles "LAST FIRST LAST FIRST", the
// assessor's no-punctuation spelling of a two-person household where the
// surname is repeated before each first name.
func buildRepeatedSurnameHousehold(f Features, rec source.Record) (entity.Entity, error) {
	if f.WordCount != 4 || f.word(0) != f.word(2) {
		return nil, fmt.Errorf("repeated-surname builder got unexpected shape %q", f.Raw)
	}

	last := f.word(0)
	left := &entity.Individual{
		First: term(rec, 1, f.word(1)),
		Last:  term(rec, 0, last),
	}
	right := &entity.Individual{
		First: term(rec, 3, f.word(3)),
		Last:  term(rec, 2, last),
	}

	name := fmt.Sprintf("%s & %s %s", left.First.Value, right.First.Value, last)
	return &entity.AggregateHousehold{
		HouseholdName: term(rec, 0, name),
		Members:       []*entity.Individual{left, right},
	}, nil
}

// buildComplexHousehold emits the unresolved 5+ word pattern as a
// members-empty household flagged for manual review.
func buildComplexHousehold(f Features, rec source.Record) (entity.Entity, error) {
	return &entity.AggregateHousehold{
		HouseholdName: term(rec, 0, joinedName(f)),
		NeedsReview:   true,
	}, nil
}

// buildLegalConstruct joins all tokens as the construct name, with the
// matched keyword as the designation.
func buildLegalConstruct(f Features, rec source.Record) (entity.Entity, error) {
	name := joinedName(f)
	if name == "" {
		return nil, fmt.Errorf("empty name cannot be classified")
	}
	return &entity.LegalConstruct{
		ConstructName: term(rec, 0, name),
		Designation:   f.LegalTerm,
	}, nil
}

// buildBusiness joins all tokens as a plain business name.
func buildBusiness(f Features, rec source.Record) (entity.Entity, error) {
	name := joinedName(f)
	if name == "" {
		return nil, fmt.Errorf("empty name cannot be classified")
	}
	return &entity.Business{BusinessName: term(rec, 0, name)}, nil
}

// buildBusinessOrLegal is the catchall for shapes no rule claims.
func buildBusinessOrLegal(f Features, rec source.Record) (entity.Entity, error) {
	if f.LegalTerm != "" {
		return buildLegalConstruct(f, rec)
	}
	return buildBusiness(f, rec)
}

// joinedName renders the cleaned tokens with commas stripped.
func joinedName(f Features) string {
	parts := make([]string, 0, f.WordCount)
	for i := range f.Words {
		if w := f.word(i); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}
