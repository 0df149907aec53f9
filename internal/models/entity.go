package models

import (
	"encoding/json"
	"unicode/utf8"
)

// Entity is the contract shared by every model type.
type Entity interface {
	Identifiable
	Touch()
	Update(r Record)
	Validate() ValidationResult
	Serialize() Record
}

// SoftDeletable is implemented by entities that carry a tombstone.
type SoftDeletable interface {
	Entity
	SoftDelete()
	Restore()
	IsActive() bool
	IsSoftDeleted() bool
}

const previewLength = 100

// preview truncates s to previewLength runes, marking the cut with an ellipsis.
func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:previewLength]) + "..."
}

func marshalEntity(e Entity) ([]byte, error) {
	return json.Marshal(e.Serialize())
}
