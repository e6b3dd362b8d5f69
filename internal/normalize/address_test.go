package normalize

import (
	"testing"
)

func TestParseStreetAddress(t *testing.T) {
	parser := NewAddressParser()

	tests := []struct {
		name   string
		input  string
		number string
		street string
		unit   string
		city   string
		state  string
		zip    string
		pobox  bool
	}{
		{
			name:   "full address with state and zip",
			input:  "45 River Rd, Millbrook NH 03299",
			number: "45",
			street: "RIVER ROAD",
			city:   "MILLBROOK",
			state:  "NH",
			zip:    "03299",
		},
		{
			name:   "street only",
			input:  "902 Quarry Ln",
			number: "902",
			street: "QUARRY LANE",
		},
		{
			name:   "unit in the middle",
			input:  "12 Elm St Apt 4, Millbrook NH 03299",
			number: "12",
			street: "ELM STREET",
			unit:   "4",
			city:   "MILLBROOK",
			state:  "NH",
			zip:    "03299",
		},
		{
			name:  "po box with number",
			input: "PO Box 12, Millbrook NH 03299",
			unit:  "12",
			city:  "MILLBROOK",
			state: "NH",
			zip:   "03299",
			pobox: true,
		},
		{
			name:  "po box spelled with periods",
			input: "P.O. Box 734",
			unit:  "734",
			pobox: true,
		},
		{
			name:   "zip plus four",
			input:  "7 Birch Hill Dr Millbrook NH 03299-1204",
			number: "7",
			street: "BIRCH HILL DRIVE",
			city:   "MILLBROOK",
			state:  "NH",
			zip:    "03299",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.input)
			if got.Number != tt.number {
				t.Errorf("number = %q, want %q", got.Number, tt.number)
			}
			if got.Street != tt.street {
				t.Errorf("street = %q, want %q", got.Street, tt.street)
			}
			if got.Unit != tt.unit {
				t.Errorf("unit = %q, want %q", got.Unit, tt.unit)
			}
			if got.City != tt.city {
				t.Errorf("city = %q, want %q", got.City, tt.city)
			}
			if got.State != tt.state {
				t.Errorf("state = %q, want %q", got.State, tt.state)
			}
			if got.Zip != tt.zip {
				t.Errorf("zip = %q, want %q", got.Zip, tt.zip)
			}
			if got.POBox != tt.pobox {
				t.Errorf("pobox = %v, want %v", got.POBox, tt.pobox)
			}
			if got.Raw == "" {
				t.Error("raw string must always be retained")
			}
		})
	}
}

func TestParseEmptyAddress(t *testing.T) {
	parser := NewAddressParser()
	got := parser.Parse("   ")
	if !got.IsZero() {
		t.Errorf("blank input parsed to %+v, want zero address", got)
	}
}

func TestAbbrevExpansion(t *testing.T) {
	abbrev := NewAbbrevRules()

	tests := []struct {
		input string
		want  string
	}{
		{"45 RIVER RD", "45 RIVER ROAD"},
		{"12 N MAIN ST", "12 NORTH MAIN STREET"},
		{"7 OLD COACH HWY", "7 OLD COACH HIGHWAY"},
		{"PINE STREET", "PINE STREET"},
	}
	for _, tt := range tests {
		if got := abbrev.Expand(tt.input); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsFireNumber(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"1234", true},
		{"7", true},
		{"12345", true},
		{"123456", false},
		{"1234A", false},
		{"45 RIVER ROAD", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsFireNumber(tt.key); got != tt.want {
			t.Errorf("IsFireNumber(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
