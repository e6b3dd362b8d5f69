package entity

// AttributedTerm is a leaf value together with its provenance: the source
// system it came from, the index of the originating field, and the source
// record id. Terms are immutable once created; derive new terms instead of
// mutating.
type AttributedTerm struct {
	Value      string `json:"value"`
	Source     string `json:"source,omitempty"`
	FieldIndex int    `json:"field_index,omitempty"`
	RecordID   string `json:"record_id,omitempty"`
}

// NewTerm creates an AttributedTerm with full provenance.
func NewTerm(value, src string, fieldIndex int, recordID string) AttributedTerm {
	return AttributedTerm{
		Value:      value,
		Source:     src,
		FieldIndex: fieldIndex,
		RecordID:   recordID,
	}
}

// IsZero reports whether the term carries no value.
func (t AttributedTerm) IsZero() bool {
	return t.Value == ""
}

// WithValue derives a new term carrying the same provenance.
func (t AttributedTerm) WithValue(value string) AttributedTerm {
	t.Value = value
	return t
}
