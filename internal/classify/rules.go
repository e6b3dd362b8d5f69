package classify

import (
	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/source"
)

// Rule is one entry in the classification decision list. Rules are
// evaluated in ascending Priority order and the first rule whose predicate
// holds wins, so ordering is part of the contract: a rule's predicate only
// needs to exclude shapes that earlier rules have not already claimed.
type Rule struct {
	Priority int
	Name     string
	When     func(Features) bool
	Build    BuilderFunc
}

// DefaultRules returns the classification decision list, sorted by
// priority. Predicates are pure functions of the precomputed Features.
func DefaultRules() []Rule {
	rules := []Rule{
		// Business detection preempts every name shape. Legal-construct
		// keywords are a subset of the business terms, so the construct
		// rule must run first.
		{
			Priority: 10,
			Name:     "legal-construct-keyword",
			When:     func(f Features) bool { return f.LegalTerm != "" },
			Build:    buildLegalConstruct,
		},
		{
			Priority: 20,
			Name:     "business-keyword",
			When:     func(f Features) bool { return f.HasBusinessTerm },
			Build:    buildBusiness,
		},

		// One token: a bare surname.
		{
			Priority: 30,
			Name:     "single-word-surname",
			When:     func(f Features) bool { return f.WordCount == 1 && !f.HasSlash },
			Build:    positionalIndividual(1, individual{first: -1, middle: -1, last: 0, suffix: -1, other: -1}),
		},

		// Two tokens.
		{
			Priority: 40,
			Name:     "two-word-slash-household",
			When:     func(f Features) bool { return f.WordCount == 2 && f.HasSlash },
			Build:    buildSlashHousehold,
		},
		{
			Priority: 42,
			Name:     "last-comma-first",
			When:     func(f Features) bool { return f.WordCount == 2 && f.CommaOnly && f.FirstEndsComma },
			Build:    positionalIndividual(2, individual{first: 1, middle: -1, last: 0, suffix: -1, other: -1}),
		},
		{
			Priority: 44,
			Name:     "last-first",
			When:     func(f Features) bool { return f.WordCount == 2 && !f.HasComma && !f.HasAmpersand },
			Build:    positionalIndividual(2, individual{first: 1, middle: -1, last: 0, suffix: -1, other: -1}),
		},

		// Three tokens.
		{
			Priority: 50,
			Name:     "first-amp-first",
			When:     func(f Features) bool { return f.WordCount == 3 && f.AmpersandOnly && f.AmpersandIndex == 1 },
			Build:    buildFirstNamesHousehold,
		},
		{
			Priority: 52,
			Name:     "three-word-slash-household",
			When:     func(f Features) bool { return f.WordCount == 3 && f.HasSlash && !f.HasComma },
			Build:    buildSlashHousehold,
		},
		{
			Priority: 54,
			Name:     "last-comma-first-initial",
			When: func(f Features) bool {
				return f.WordCount == 3 && f.FirstEndsComma && f.LastSingleLetter
			},
			Build: positionalIndividual(3, individual{first: 1, middle: -1, last: 0, suffix: -1, other: 2}),
		},
		{
			Priority: 56,
			Name:     "last-comma-first-suffix",
			When: func(f Features) bool {
				return f.WordCount == 3 && f.FirstEndsComma && f.LastIsSuffix
			},
			Build: positionalIndividual(3, individual{first: 1, middle: -1, last: 0, suffix: 2, other: -1}),
		},
		{
			Priority: 58,
			Name:     "last-comma-first-middle",
			When:     func(f Features) bool { return f.WordCount == 3 && f.FirstEndsComma },
			Build:    positionalIndividual(3, individual{first: 1, middle: 2, last: 0, suffix: -1, other: -1}),
		},
		{
			Priority: 60,
			Name:     "last-first-initial",
			When: func(f Features) bool {
				return f.WordCount == 3 && !f.HasComma && !f.HasAmpersand && f.LastSingleLetter
			},
			Build: positionalIndividual(3, individual{first: 1, middle: -1, last: 0, suffix: -1, other: 2}),
		},
		{
			Priority: 62,
			Name:     "last-initial-first",
			When: func(f Features) bool {
				return f.WordCount == 3 && !f.HasComma && !f.HasAmpersand && f.SecondSingleLetter
			},
			Build: positionalIndividual(3, individual{first: 2, middle: -1, last: 0, suffix: -1, other: 1}),
		},
		{
			Priority: 64,
			Name:     "last-first-suffix",
			When: func(f Features) bool {
				return f.WordCount == 3 && !f.HasComma && !f.HasAmpersand && f.LastIsSuffix
			},
			Build: positionalIndividual(3, individual{first: 1, middle: -1, last: 0, suffix: 2, other: -1}),
		},
		{
			Priority: 66,
			Name:     "last-first-middle",
			When:     func(f Features) bool { return f.WordCount == 3 && !f.HasComma && !f.HasAmpersand },
			Build:    positionalIndividual(3, individual{first: 1, middle: 2, last: 0, suffix: -1, other: -1}),
		},

		// Four tokens.
		{
			Priority: 70,
			Name:     "repeated-surname-household",
			When: func(f Features) bool {
				return f.WordCount == 4 && !f.HasAmpersand && !f.HasSlash && f.FirstEqualsThird
			},
			Build: buildRepeatedSurnameHousehold,
		},
		{
			Priority: 72,
			Name:     "last-comma-first-amp-first",
			When: func(f Features) bool {
				return f.WordCount == 4 && f.AmpersandIndex == 2 && f.FirstEndsComma
			},
			Build: func(f Features, rec source.Record) (entity.Entity, error) {
				return buildSharedLastHousehold(f, rec, 0)
			},
		},
		{
			Priority: 74,
			Name:     "last-first-amp-first",
			When: func(f Features) bool {
				return f.WordCount == 4 && f.AmpersandIndex == 2 && !f.HasComma
			},
			Build: func(f Features, rec source.Record) (entity.Entity, error) {
				return buildSharedLastHousehold(f, rec, 0)
			},
		},
		{
			Priority: 76,
			Name:     "first-amp-first-last",
			When: func(f Features) bool {
				return f.WordCount == 4 && f.AmpersandIndex == 1 && !f.HasComma
			},
			Build: func(f Features, rec source.Record) (entity.Entity, error) {
				return buildSharedLastHousehold(f, rec, 3)
			},
		},
		{
			Priority: 78,
			Name:     "last-comma-first-middle-suffix",
			When: func(f Features) bool {
				return f.WordCount == 4 && f.FirstEndsComma && f.LastIsSuffix
			},
			Build: positionalIndividual(4, individual{first: 1, middle: 2, last: 0, suffix: 3, other: -1}),
		},
		{
			Priority: 80,
			Name:     "last-comma-first-middle-initial",
			When: func(f Features) bool {
				return f.WordCount == 4 && f.FirstEndsComma && f.LastSingleLetter
			},
			Build: positionalIndividual(4, individual{first: 1, middle: 2, last: 0, suffix: -1, other: 3}),
		},
		{
			Priority: 82,
			Name:     "last-comma-first-two-middles",
			When:     func(f Features) bool { return f.WordCount == 4 && f.FirstEndsComma },
			Build:    positionalIndividual(4, individual{first: 1, middle: 2, last: 0, suffix: -1, other: 3}),
		},
		{
			Priority: 84,
			Name:     "last-first-middle-suffix",
			When: func(f Features) bool {
				return f.WordCount == 4 && !f.HasComma && !f.HasAmpersand && f.LastIsSuffix
			},
			Build: positionalIndividual(4, individual{first: 1, middle: 2, last: 0, suffix: 3, other: -1}),
		},
		{
			Priority: 86,
			Name:     "last-initial-first-middle",
			When: func(f Features) bool {
				return f.WordCount == 4 && !f.HasComma && !f.HasAmpersand && f.SecondSingleLetter
			},
			Build: positionalIndividual(4, individual{first: 2, middle: 3, last: 0, suffix: -1, other: 1}),
		},
		{
			Priority: 88,
			Name:     "last-first-middle-initial",
			When: func(f Features) bool {
				return f.WordCount == 4 && !f.HasComma && !f.HasAmpersand && f.LastSingleLetter
			},
			Build: positionalIndividual(4, individual{first: 1, middle: 2, last: 0, suffix: -1, other: 3}),
		},
		{
			Priority: 90,
			Name:     "last-first-two-middles",
			When:     func(f Features) bool { return f.WordCount == 4 && !f.HasComma && !f.HasAmpersand },
			Build:    positionalIndividual(4, individual{first: 1, middle: 2, last: 0, suffix: -1, other: 3}),
		},

		// Five or more tokens.
		{
			Priority: 100,
			Name:     "two-sided-comma-household",
			When: func(f Features) bool {
				return f.WordCount == 5 && f.AmpersandIndex == 2 && f.FirstEndsComma && f.FourthEndsComma
			},
			Build: buildTwoSidedHousehold,
		},
		{
			Priority: 102,
			Name:     "shared-last-comma-household",
			When: func(f Features) bool {
				return f.WordCount >= 5 && f.AmpersandIndex >= 2 && f.FirstEndsComma && !f.FourthEndsComma
			},
			Build: func(f Features, rec source.Record) (entity.Entity, error) {
				return buildSharedLastHousehold(f, rec, 0)
			},
		},
		{
			Priority: 110,
			Name:     "unresolved-complex-household",
			When:     func(f Features) bool { return f.WordCount >= 5 },
			Build:    buildComplexHousehold,
		},
	}

	return rules
}
