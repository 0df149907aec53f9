package models

import "time"

const dateLayout = "2006-01-02"

// now is the clock used for every timestamp written by the model layer.
var now = func() time.Time { return time.Now().UTC() }

// Timestamps carries the identity and audit timestamps shared by every entity.
type Timestamps struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTimestamps(r Record) Timestamps {
	ts := now()
	m := Timestamps{CreatedAt: ts, UpdatedAt: ts}
	m.apply(r)
	return m
}

func (m *Timestamps) apply(r Record) {
	r.str("id", &m.ID)
	r.timestamp("created_at", &m.CreatedAt)
	r.timestamp("updated_at", &m.UpdatedAt)
}

// GetID returns the entity identifier, empty before the backend assigns one.
func (m Timestamps) GetID() string { return m.ID }

// Touch moves the update timestamp to now.
func (m *Timestamps) Touch() {
	ts := now()
	if ts.Before(m.UpdatedAt) {
		ts = m.UpdatedAt
	}
	m.UpdatedAt = ts
}

// CreatedDate returns the calendar date of CreatedAt; ok is false when it is unset.
func (m Timestamps) CreatedDate() (date string, ok bool) { return dateOf(m.CreatedAt) }

// UpdatedDate returns the calendar date of UpdatedAt; ok is false when it is unset.
func (m Timestamps) UpdatedDate() (date string, ok bool) { return dateOf(m.UpdatedAt) }

func (m Timestamps) serialize(out Record) {
	out["id"] = m.ID
	out["created_at"] = formatTime(m.CreatedAt)
	out["updated_at"] = formatTime(m.UpdatedAt)
}

// Tombstone marks an entity as removed without erasing it.
type Tombstone struct {
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
}

func (s *Tombstone) apply(r Record) {
	r.boolean("is_deleted", &s.IsDeleted)
	if r.has("deleted_at") {
		var t time.Time
		r.timestamp("deleted_at", &t)
		if t.IsZero() {
			s.DeletedAt = nil
		} else {
			s.DeletedAt = &t
		}
	}
}

// IsActive reports whether the entity has not been soft deleted.
func (s Tombstone) IsActive() bool { return !s.IsDeleted }

// IsSoftDeleted reports whether the entity carries a tombstone.
func (s Tombstone) IsSoftDeleted() bool { return s.IsDeleted }

func (s Tombstone) serialize(out Record) {
	out["is_deleted"] = s.IsDeleted
	if s.DeletedAt == nil {
		out["deleted_at"] = nil
	} else {
		out["deleted_at"] = formatTime(*s.DeletedAt)
	}
}

// Deletable is embedded by soft-deletable entities.
type Deletable struct {
	Timestamps
	Tombstone
}

func newDeletable(r Record) Deletable {
	d := Deletable{Timestamps: newTimestamps(r)}
	d.Tombstone.apply(r)
	return d
}

// SoftDelete sets the tombstone and touches the entity. Repeated calls refresh DeletedAt.
func (t *Deletable) SoftDelete() {
	ts := now()
	t.IsDeleted = true
	t.DeletedAt = &ts
	t.Touch()
}

// Restore clears the tombstone and touches the entity.
func (t *Deletable) Restore() {
	t.IsDeleted = false
	t.DeletedAt = nil
	t.Touch()
}

func (t Deletable) serialize(out Record) {
	t.Timestamps.serialize(out)
	t.Tombstone.serialize(out)
}

func dateOf(t time.Time) (string, bool) {
	if t.IsZero() {
		return "", false
	}
	return t.UTC().Format(dateLayout), true
}
