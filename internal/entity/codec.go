package entity

import (
	"encoding/json"
	"fmt"
)

// envelope is the persisted form of an Entity: an explicit kind tag plus
// the variant's fields. Deserialization dispatches on the tag instead of
// relying on any runtime type name.
type envelope struct {
	Kind   Kind            `json:"kind"`
	Fields json.RawMessage `json:"fields"`
}

// Marshal serializes an entity into its tagged envelope form.
func Marshal(e Entity) ([]byte, error) {
	fields, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s fields: %w", e.Kind(), err)
	}
	return json.Marshal(envelope{Kind: e.Kind(), Fields: fields})
}

// decoders maps the kind tag to a typed constructor.
var decoders = map[Kind]func() Entity{
	KindIndividual:     func() Entity { return &Individual{} },
	KindHousehold:      func() Entity { return &AggregateHousehold{} },
	KindBusiness:       func() Entity { return &Business{} },
	KindLegalConstruct: func() Entity { return &LegalConstruct{} },
}

// Unmarshal reconstructs a typed entity from its tagged envelope form.
func Unmarshal(data []byte) (Entity, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity envelope: %w", err)
	}

	newEntity, ok := decoders[env.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", env.Kind)
	}

	e := newEntity()
	if err := json.Unmarshal(env.Fields, e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s fields: %w", env.Kind, err)
	}
	return e, nil
}
