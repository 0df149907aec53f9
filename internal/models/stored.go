package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// StoredRecord is one persisted entity row; Payload holds the serialized record.
type StoredRecord struct {
	ID        string         `db:"id" json:"id"`
	Kind      Kind           `db:"kind" json:"kind"`
	Payload   types.JSONText `db:"payload" json:"payload"`
	IsDeleted bool           `db:"is_deleted" json:"is_deleted"`
	DeletedAt *time.Time     `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Record decodes the payload.
func (s StoredRecord) Record() (Record, error) {
	return ParseRecord(s.Payload)
}

// Stored converts an entity into its persisted row.
func Stored(kind Kind, e Entity) (StoredRecord, error) {
	rec := e.Serialize()
	payload, err := json.Marshal(rec)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	row := StoredRecord{ID: e.GetID(), Kind: kind, Payload: types.JSONText(payload)}
	rec.timestamp("created_at", &row.CreatedAt)
	rec.timestamp("updated_at", &row.UpdatedAt)
	rec.boolean("is_deleted", &row.IsDeleted)
	var deletedAt time.Time
	rec.timestamp("deleted_at", &deletedAt)
	if !deletedAt.IsZero() {
		row.DeletedAt = &deletedAt
	}
	return row, nil
}

// SetID assigns the row id and keeps the payload's id key in step.
func (s *StoredRecord) SetID(id string) error {
	rec, err := s.Record()
	if err != nil {
		return err
	}
	rec["id"] = id
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", s.Kind, err)
	}
	s.ID = id
	s.Payload = types.JSONText(payload)
	return nil
}

// Entity rebuilds the entity held by the row. Row columns win over payload keys.
func (s StoredRecord) Entity() (Entity, error) {
	rec, err := s.Record()
	if err != nil {
		return nil, err
	}
	rec["id"] = s.ID
	if !s.CreatedAt.IsZero() {
		rec["created_at"] = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		rec["updated_at"] = s.UpdatedAt
	}
	if _, ok := rec["is_deleted"]; ok || s.IsDeleted {
		rec["is_deleted"] = s.IsDeleted
		if s.DeletedAt != nil {
			rec["deleted_at"] = *s.DeletedAt
		} else {
			rec["deleted_at"] = nil
		}
	}
	return New(s.Kind, rec)
}

// RecordFilter captures supported filters for listing entities of one kind.
type RecordFilter struct {
	Kind           Kind
	IncludeDeleted bool
	OnlyDeleted    bool
	Search         string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
