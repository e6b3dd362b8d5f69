// Package classify turns free-text owner-name strings into typed entities
// using an ordered, first-match-wins rule table.
package classify

import (
	"strings"

	"github.com/townreach/ownermatch/internal/normalize"
)

// Features is the precomputed predicate input for classification rules.
// Every field is a pure function of the cleaned token list, so rules stay
// independently testable.
type Features struct {
	// Raw is the cleaned (uppercased, whitespace-collapsed) name.
	Raw string
	// Words are the whitespace-separated tokens of Raw.
	Words []string

	WordCount int

	HasComma     bool
	HasAmpersand bool
	HasSlash     bool
	// CommaOnly and AmpersandOnly describe the punctuation shape: exactly
	// one punctuation family present.
	CommaOnly     bool
	AmpersandOnly bool

	// FirstEndsComma is true when the first word ends with a comma
	// ("KASTNER, JONATHAN").
	FirstEndsComma bool
	// SecondEndsComma is true when the second word ends with a comma.
	SecondEndsComma bool
	// FourthEndsComma is true when the fourth word ends with a comma
	// ("SMITH, JOHN & JONES, MARY").
	FourthEndsComma bool

	LastSingleLetter   bool
	SecondSingleLetter bool

	// FirstEqualsThird is true when the first and third words are
	// textually identical after punctuation stripping
	// ("SMITH JOHN SMITH MARY").
	FirstEqualsThird bool

	// AmpersandIndex is the index of the first standalone "&" token, or -1.
	AmpersandIndex int

	// LastIsSuffix is true when the final word is a generational suffix
	// (JR, SR, II, III, ...).
	LastIsSuffix bool

	HasBusinessTerm bool
	// LegalTerm is the legal-construct keyword found, or "".
	LegalTerm string
}

var suffixTerms = map[string]bool{
	"JR": true, "SR": true, "II": true, "III": true, "IV": true, "V": true,
}

// ComputeFeatures derives the full feature set from a raw owner name.
func ComputeFeatures(rawName string) Features {
	cleaned := normalize.CleanName(rawName)
	words := normalize.Tokenize(cleaned)

	f := Features{
		Raw:            cleaned,
		Words:          words,
		WordCount:      len(words),
		AmpersandIndex: -1,
	}

	f.HasComma = strings.Contains(cleaned, ",")
	f.HasAmpersand = strings.Contains(cleaned, "&")
	f.HasSlash = strings.Contains(cleaned, "/")
	f.CommaOnly = f.HasComma && !f.HasAmpersand && !f.HasSlash
	f.AmpersandOnly = f.HasAmpersand && !f.HasComma && !f.HasSlash

	if len(words) > 0 {
		f.FirstEndsComma = strings.HasSuffix(words[0], ",")
		last := normalize.StripPunct(words[len(words)-1])
		f.LastSingleLetter = normalize.IsSingleLetter(words[len(words)-1])
		f.LastIsSuffix = suffixTerms[last]
	}
	if len(words) > 1 {
		f.SecondEndsComma = strings.HasSuffix(words[1], ",")
		f.SecondSingleLetter = normalize.IsSingleLetter(words[1])
	}
	if len(words) > 2 {
		f.FirstEqualsThird = normalize.StripPunct(words[0]) == normalize.StripPunct(words[2]) &&
			normalize.StripPunct(words[0]) != ""
	}
	if len(words) > 3 {
		f.FourthEndsComma = strings.HasSuffix(words[3], ",")
	}

	for i, w := range words {
		if w == "&" {
			f.AmpersandIndex = i
			break
		}
	}

	f.HasBusinessTerm = normalize.HasBusinessTerm(words)
	f.LegalTerm = normalize.LegalConstructTerm(words)

	return f
}

// word returns the punctuation-stripped word at index i, or "".
func (f Features) word(i int) string {
	if i < 0 || i >= len(f.Words) {
		return ""
	}
	return normalize.StripPunct(f.Words[i])
}
