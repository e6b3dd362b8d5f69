package normalize

import (
	"regexp"
	"strings"

	"github.com/townreach/ownermatch/internal/entity"
)

// AbbrevRules expands street-type abbreviations to the municipality's
// canonical spellings.
type AbbrevRules struct {
	rules []abbrevRule
}

type abbrevRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewAbbrevRules creates the default abbreviation rules.
func NewAbbrevRules() *AbbrevRules {
	raw := []struct{ pattern, replacement string }{
		{`\bRD\b`, "ROAD"},
		{`\bST\b`, "STREET"},
		{`\bAVE\b`, "AVENUE"},
		{`\bDR\b`, "DRIVE"},
		{`\bLN\b`, "LANE"},
		{`\bCT\b`, "COURT"},
		{`\bPL\b`, "PLACE"},
		{`\bCIR\b`, "CIRCLE"},
		{`\bHWY\b`, "HIGHWAY"},
		{`\bTRL\b`, "TRAIL"},
		{`\bBLVD\b`, "BOULEVARD"},
		{`\bPKWY\b`, "PARKWAY"},
		{`\bTER\b`, "TERRACE"},
		{`\bN\b`, "NORTH"},
		{`\bS\b`, "SOUTH"},
		{`\bE\b`, "EAST"},
		{`\bW\b`, "WEST"},
		{`\bCTY\b`, "COUNTY"},
	}

	ar := &AbbrevRules{rules: make([]abbrevRule, 0, len(raw))}
	for _, r := range raw {
		ar.rules = append(ar.rules, abbrevRule{
			pattern:     regexp.MustCompile(r.pattern),
			replacement: r.replacement,
		})
	}
	return ar
}

// Expand applies abbreviation rules to text.
func (ar *AbbrevRules) Expand(text string) string {
	result := text
	for _, r := range ar.rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Address component patterns.
var (
	rePOBox       = regexp.MustCompile(`\b(?:P\.?\s*O\.?\s*BOX|POBOX)\s*#?\s*(\d+[A-Z]?)?`)
	reZip         = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)
	reHouseNumber = regexp.MustCompile(`^\s*(\d+[A-Z]?)\b`)
	reUnit        = regexp.MustCompile(`\b(?:UNIT|APT|APARTMENT|LOT|SUITE|STE)\s*#?\s*([A-Z0-9]+)\b`)
	reStateZip    = regexp.MustCompile(`\b([A-Z]{2})\s+\d{5}(?:-\d{4})?\s*$`)
	reFireNumber  = regexp.MustCompile(`^\d{1,5}$`)
	reAnyNumber   = regexp.MustCompile(`\b(\d+[A-Z]?)\b`)
)

// CleanAddress uppercases, trims, drops commas and collapses whitespace
// without expanding abbreviations.
func CleanAddress(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, ",", " ")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return cleaned
}

// AddressParser extracts structured components from a raw address string.
type AddressParser struct {
	abbrev *AbbrevRules
}

// NewAddressParser creates a parser with the default abbreviation rules.
func NewAddressParser() *AddressParser {
	return &AddressParser{abbrev: NewAbbrevRules()}
}

// Parse extracts structured components from a raw address string. The raw
// string is always retained as the comparison fallback; components are best
// effort. PO Box addresses set POBox with the box number in Unit when it
// could be read; the box number is frequently unparsed in the donor feed.
func (p *AddressParser) Parse(raw string) entity.Address {
	addr := entity.Address{Raw: strings.TrimSpace(raw)}
	if addr.Raw == "" {
		return addr
	}

	cleaned := p.abbrev.Expand(CleanAddress(raw))

	if m := rePOBox.FindStringSubmatch(cleaned); m != nil {
		addr.POBox = true
		addr.Unit = strings.TrimSpace(m[1])
		cleaned = strings.TrimSpace(multiSpace.ReplaceAllString(rePOBox.ReplaceAllString(cleaned, " "), " "))
	}

	if m := reZip.FindStringSubmatch(cleaned); m != nil {
		addr.Zip = m[1]
	}
	if m := reStateZip.FindStringSubmatch(cleaned); m != nil {
		addr.State = m[1]
	}

	street := cleaned
	if idx := reStateZip.FindStringIndex(cleaned); idx != nil {
		street, addr.City = splitCityTail(strings.TrimSpace(cleaned[:idx[0]]))
	} else if idx := reZip.FindStringIndex(cleaned); idx != nil {
		street, addr.City = splitCityTail(strings.TrimSpace(cleaned[:idx[0]]))
	}

	if addr.POBox {
		// A PO Box line with no zip tail is just "PO BOX n"; anything left
		// over is the city.
		if addr.City == "" {
			addr.City = strings.TrimSpace(street)
		}
		return addr
	}

	if m := reHouseNumber.FindStringSubmatch(street); m != nil {
		addr.Number = m[1]
		street = strings.TrimSpace(street[len(m[0]):])
	}
	if m := reUnit.FindStringSubmatch(street); m != nil {
		addr.Unit = m[1]
		street = strings.TrimSpace(multiSpace.ReplaceAllString(reUnit.ReplaceAllString(street, " "), " "))
	}
	addr.Street = street

	return addr
}

// splitCityTail splits "123 MAIN STREET ANYTOWN" into street and city by
// taking the last word as the city. Single-word heads stay street-only.
func splitCityTail(head string) (street, city string) {
	words := strings.Fields(head)
	if len(words) < 2 {
		return head, ""
	}
	return strings.Join(words[:len(words)-1], " "), words[len(words)-1]
}

// IsFireNumber reports whether a location key is a bare fire number.
func IsFireNumber(key string) bool {
	return reFireNumber.MatchString(strings.TrimSpace(key))
}

// ExtractHouseNumbers returns all house-number-shaped tokens in an address.
func ExtractHouseNumbers(raw string) []string {
	return reAnyNumber.FindAllString(strings.ToUpper(raw), -1)
}
