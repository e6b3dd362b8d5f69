package normalize

import (
	"testing"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  kastner,   jonathan ", "KASTNER, JONATHAN"},
		{"Licht Susan M", "LICHT SUSAN M"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanName(tt.input); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStripPunct(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"KASTNER,", "KASTNER"},
		{"GREG/MONA", "GREGMONA"},
		{"J.R.", "JR"},
		{"&", "&"},
	}
	for _, tt := range tests {
		if got := StripPunct(tt.input); got != tt.want {
			t.Errorf("StripPunct(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBusinessAndLegalTerms(t *testing.T) {
	if !HasBusinessTerm([]string{"BLUE", "HERON", "FARMS", "LLC"}) {
		t.Error("LLC should be a business term")
	}
	if HasBusinessTerm([]string{"KASTNER,", "JONATHAN"}) {
		t.Error("a person's name has no business term")
	}
	if got := LegalConstructTerm([]string{"HAMMOND", "FAMILY", "TRUST"}); got != "TRUST" {
		t.Errorf("LegalConstructTerm = %q, want TRUST", got)
	}
	if got := LegalConstructTerm([]string{"GRANITE", "STATE", "TIMBER", "INC"}); got != "" {
		t.Errorf("LegalConstructTerm = %q, want empty for a plain business", got)
	}
}

func TestIsSingleLetter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"M", true},
		{"M.", true},
		{"JR", false},
		{"", false},
		{"7", false},
	}
	for _, tt := range tests {
		if got := IsSingleLetter(tt.input); got != tt.want {
			t.Errorf("IsSingleLetter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "identical", a: []string{"A", "B"}, b: []string{"A", "B"}, want: 1.0},
		{name: "subset", a: []string{"A"}, b: []string{"A", "B", "C"}, want: 1.0},
		{name: "half", a: []string{"A", "B"}, b: []string{"A", "C"}, want: 0.5},
		{name: "disjoint", a: []string{"A"}, b: []string{"B"}, want: 0.0},
		{name: "empty side", a: nil, b: []string{"A"}, want: 0.0},
	}
	for _, tt := range tests {
		if got := TokenOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: TokenOverlap = %v, want %v", tt.name, got, tt.want)
		}
	}
}
