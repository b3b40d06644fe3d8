package model

import "encoding/json"

// Optional carries a patch field together with whether it was supplied at all.
// A JSON null sets Set to true with the zero Value, so a nullable field can be
// cleared explicitly while an absent key leaves it untouched.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
