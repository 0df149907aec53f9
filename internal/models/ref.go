package models

import "github.com/spf13/cast"

// Identifiable is implemented by anything that can stand in for a related entity.
type Identifiable interface {
	GetID() string
}

type refKind uint8

const (
	refNone refKind = iota
	refID
	refHydrated
	refRaw
)

// Ref is a relation field: empty, a bare identifier, a hydrated entity, or an
// unrecognised value that is passed through untouched.
type Ref struct {
	kind refKind
	id   string
	obj  Identifiable
	raw  interface{}
}

// RefID builds a reference from a bare identifier. An empty id yields an empty reference.
func RefID(id string) Ref {
	if id == "" {
		return Ref{}
	}
	return Ref{kind: refID, id: id}
}

// RefTo builds a reference holding a hydrated entity.
func RefTo(obj Identifiable) Ref {
	if obj == nil {
		return Ref{}
	}
	return Ref{kind: refHydrated, obj: obj}
}

// RefOf inspects v and builds the matching reference.
func RefOf(v interface{}) Ref {
	switch val := v.(type) {
	case nil:
		return Ref{}
	case Ref:
		return val
	case string:
		return RefID(val)
	case Record:
		return refFromRecord(val)
	case map[string]interface{}:
		return refFromRecord(Record(val))
	case Identifiable:
		return RefTo(val)
	default:
		return Ref{kind: refRaw, raw: v}
	}
}

func refFromRecord(rec Record) Ref {
	if !rec.has("id") {
		return Ref{kind: refRaw, raw: rec}
	}
	return RefTo(rec)
}

// ID returns the normalized identifier regardless of which form is held.
func (r Ref) ID() string {
	switch r.kind {
	case refID:
		return r.id
	case refHydrated:
		return r.obj.GetID()
	case refRaw:
		if _, ok := asRecord(r.raw); ok {
			return ""
		}
		return cast.ToString(r.raw)
	}
	return ""
}

// Value is the serialized form: the bare id, nil when empty, or the raw value unchanged.
// A hydrated object that has not been saved yet has no id and serializes as nil.
func (r Ref) Value() interface{} {
	switch r.kind {
	case refID:
		return r.id
	case refHydrated:
		if id := r.obj.GetID(); id != "" {
			return id
		}
		return nil
	case refRaw:
		return r.raw
	}
	return nil
}

// Entity returns the hydrated object when one is held.
func (r Ref) Entity() (Identifiable, bool) {
	if r.kind != refHydrated {
		return nil, false
	}
	return r.obj, true
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool { return r.kind == refNone }

// IsSet reports whether the reference resolves to a non-empty identifier.
func (r Ref) IsSet() bool { return r.ID() != "" }

// Hydrated reports whether the reference holds an object rather than a bare id.
func (r Ref) Hydrated() bool { return r.kind == refHydrated }

// Matches reports whether v refers to the same identifier.
func (r Ref) Matches(v interface{}) bool {
	id := RefOf(v).ID()
	return id != "" && id == r.ID()
}

// RefList is an ordered set of references keyed by normalized id. Entries without an id
// (unsaved objects, raw maps) cannot be compared and are kept as given.
type RefList []Ref

// RefListOf builds a list from a slice of ids or objects. Duplicate ids keep their first position.
func RefListOf(v interface{}) RefList {
	var items []interface{}
	switch val := v.(type) {
	case nil:
		return nil
	case RefList:
		items = make([]interface{}, len(val))
		for i, ref := range val {
			items[i] = ref
		}
	case []string:
		items = make([]interface{}, len(val))
		for i, id := range val {
			items[i] = id
		}
	case []interface{}:
		items = val
	default:
		items = []interface{}{val}
	}

	var list RefList
	for _, item := range items {
		list.Add(item)
	}
	return list
}

// Add appends v unless its normalized id is already present.
func (l *RefList) Add(v interface{}) bool {
	ref := RefOf(v)
	if ref.IsZero() || (ref.ID() != "" && l.Has(ref)) {
		return false
	}
	*l = append(*l, ref)
	return true
}

// Remove drops every entry whose normalized id matches v.
func (l *RefList) Remove(v interface{}) bool {
	id := RefOf(v).ID()
	if id == "" {
		return false
	}
	kept := (*l)[:0]
	removed := false
	for _, ref := range *l {
		if ref.ID() == id {
			removed = true
			continue
		}
		kept = append(kept, ref)
	}
	*l = kept
	return removed
}

// Has reports whether v's normalized id is present.
func (l RefList) Has(v interface{}) bool {
	id := RefOf(v).ID()
	if id == "" {
		return false
	}
	for _, ref := range l {
		if ref.ID() == id {
			return true
		}
	}
	return false
}

// IDs maps ID over the list.
func (l RefList) IDs() []string {
	ids := make([]string, len(l))
	for i, ref := range l {
		ids[i] = ref.ID()
	}
	return ids
}

// Values maps Value over the list for serialization, skipping unsaved objects that have nothing to emit.
func (l RefList) Values() []interface{} {
	values := make([]interface{}, 0, len(l))
	for _, ref := range l {
		if v := ref.Value(); v != nil {
			values = append(values, v)
		}
	}
	return values
}

// Len returns the number of references held.
func (l RefList) Len() int { return len(l) }
