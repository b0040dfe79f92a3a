package domain

import "encoding/json"

// Patch is a tri-state update field: absent (Set=false), explicit null
// (Set=true, Value=nil), or a value. The distinction matters for fields like
// a milestone's due date, where "clear it" and "leave it alone" are both
// expressed through the same JSON key.
type Patch[T any] struct {
	Set   bool
	Value *T
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Value = nil
		return nil
	}
	return json.Unmarshal(data, &p.Value)
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Set || p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// NewPatch builds a present-with-value patch, mainly for tests.
func NewPatch[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// NullPatch builds a present-null patch.
func NullPatch[T any]() Patch[T] {
	return Patch[T]{Set: true}
}
