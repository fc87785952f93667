package domain

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier. Identifiers are never reused.
func NewID() string {
	return uuid.NewString()
}

// OptionalID is a nullable reference inside a patch.
// Set=false means "leave unchanged"; Set=true with a nil ID means "clear".
type OptionalID struct {
	Set bool
	ID  *string
}

// SetID returns a patch value pointing at id.
func SetID(id string) OptionalID {
	return OptionalID{Set: true, ID: &id}
}

// ClearID returns a patch value that nulls the reference.
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

// UnmarshalJSON marks the value as set, including for an explicit null.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.ID = nil
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// MarshalJSON writes the reference, or null when cleared or unset.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.ID)
}

// SameRef reports whether two nullable references point at the same folder.
func SameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Ref returns a pointer to a copy of id, for building nullable references.
func Ref(id string) *string {
	return &id
}

func cloneRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}
