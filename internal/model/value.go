package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Value is a possibly-missing numeric observation.
// Gaps in the source data stay gaps; they are never substituted with 0.
type Value struct {
	Float float64
	Valid bool
}

// Num wraps a known float into a valid Value.
func Num(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Missing is the zero Value, kept as a named constructor for readability.
func Missing() Value {
	return Value{}
}

var jsonNull = []byte("null")

// MarshalJSON encodes a missing value as JSON null, never as a sentinel number.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return jsonNull, nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.New("value must be a number or null")
	}
	*v = Value{Float: f, Valid: true}
	return nil
}
