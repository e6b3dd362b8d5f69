package entity

import "strings"

// Address holds structured street address components plus the raw string
// they were extracted from. Components may be empty when extraction failed;
// Raw is always populated.
type Address struct {
	Number string `json:"number,omitempty"`
	Street string `json:"street,omitempty"`
	Unit   string `json:"unit,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
	Raw    string `json:"raw"`
	// POBox is set when the address is a post office box. Unit then holds
	// the box number when it could be parsed; it is frequently missing.
	POBox bool `json:"po_box,omitempty"`
}

// IsZero reports whether the address is entirely empty.
func (a Address) IsZero() bool {
	return a.Raw == "" && a.Number == "" && a.Street == "" && a.City == "" && a.Zip == ""
}

// HasComponents reports whether any structured component was extracted.
func (a Address) HasComponents() bool {
	return a.Number != "" || a.Street != "" || a.City != "" || a.Zip != ""
}

// String renders the structured components, falling back to Raw.
func (a Address) String() string {
	parts := make([]string, 0, 6)
	if a.POBox {
		box := "PO BOX"
		if a.Unit != "" {
			box += " " + a.Unit
		}
		parts = append(parts, box)
	} else {
		if a.Number != "" {
			parts = append(parts, a.Number)
		}
		if a.Street != "" {
			parts = append(parts, a.Street)
		}
		if a.Unit != "" {
			parts = append(parts, "UNIT "+a.Unit)
		}
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	if a.Zip != "" {
		parts = append(parts, a.Zip)
	}
	if len(parts) == 0 {
		return a.Raw
	}
	return strings.Join(parts, " ")
}

// ContactInfo holds an entity's addresses and optional contact channels.
// Primary is the always-present on-location address; Secondary lists
// off-location mailing addresses.
type ContactInfo struct {
	Primary   Address   `json:"primary"`
	Secondary []Address `json:"secondary,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
}

// IsZero reports whether no contact information is present.
func (c ContactInfo) IsZero() bool {
	return c.Primary.IsZero() && len(c.Secondary) == 0 && c.Email == "" && c.Phone == ""
}

// MailingAddress returns the best address for mail: the first secondary
// (off-location) address when present, otherwise the primary.
func (c ContactInfo) MailingAddress() Address {
	if len(c.Secondary) > 0 {
		return c.Secondary[0]
	}
	return c.Primary
}
