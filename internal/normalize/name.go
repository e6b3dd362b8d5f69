// Package normalize prepares raw owner-name and address text for
// classification and comparison. Rules are tuned to a single
// municipality's assessor formatting conventions.
package normalize

import (
	"regexp"
	"strings"
)

// Business-indicator terms. A name containing any of these is treated as a
// business or legal construct, never as a person or household.
var businessTerms = map[string]bool{
	"LLC": true, "LLP": true, "LP": true, "LTD": true, "INC": true,
	"CORP": true, "CO": true, "COMPANY": true, "TRUST": true, "TRUSTEE": true,
	"TRUSTEES": true, "ESTATE": true, "REVOCABLE": true, "IRREVOCABLE": true,
	"LIVING": true, "FOUNDATION": true, "ASSOCIATION": true, "ASSOC": true,
	"CHURCH": true, "TOWN": true, "COUNTY": true, "STATE": true, "CITY": true,
	"VILLAGE": true, "DISTRICT": true, "PARTNERSHIP": true, "PARTNERS": true,
	"PROPERTIES": true, "FARMS": true, "ENTERPRISES": true, "HOLDINGS": true,
	"BANK": true, "REALTY": true, "RENTALS": true, "CLUB": true,
}

// Legal-construct terms sub-classify a business-shaped name as a trust,
// estate or similar construct.
var legalConstructTerms = []string{
	"TRUST", "TRUSTEE", "TRUSTEES", "ESTATE", "REVOCABLE", "IRREVOCABLE",
	"LLC", "LLP", "LP", "LTD", "PARTNERSHIP",
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// CleanName uppercases, trims and collapses whitespace in a raw owner name.
func CleanName(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return cleaned
}

// Tokenize splits a cleaned name into whitespace-separated words.
func Tokenize(cleaned string) []string {
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}

// StripPunct removes commas, slashes and periods from a single token,
// keeping ampersands since they are structural.
func StripPunct(word string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '/', '.', ';':
			return -1
		}
		return r
	}, word)
}

// HasBusinessTerm reports whether any token is a business-indicator term.
// Tokens are compared after punctuation stripping.
func HasBusinessTerm(words []string) bool {
	for _, w := range words {
		if businessTerms[StripPunct(w)] {
			return true
		}
	}
	return false
}

// LegalConstructTerm returns the first legal-construct keyword found in the
// token list, or "" when the name is a plain business.
func LegalConstructTerm(words []string) string {
	for _, w := range words {
		stripped := StripPunct(w)
		for _, term := range legalConstructTerms {
			if stripped == term {
				return term
			}
		}
	}
	return ""
}

// IsSingleLetter reports whether a token is one letter, optionally followed
// by a period (an initial).
func IsSingleLetter(word string) bool {
	stripped := StripPunct(word)
	if len(stripped) != 1 {
		return false
	}
	c := stripped[0]
	return c >= 'A' && c <= 'Z'
}

// TokenOverlap returns |intersection| / |smaller distinct set| for two
// token lists.
func TokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(a))
	for _, tok := range a {
		setA[tok] = true
	}
	setB := make(map[string]bool, len(b))
	for _, tok := range b {
		setB[tok] = true
	}

	common := 0
	for tok := range setA {
		if setB[tok] {
			common++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(common) / float64(smaller)
}
