package models

// Subject is a course taught to one or more classes.
type Subject struct {
	Timestamps
	Name      string
	Code      string
	Logo      string
	Active    bool
	CreatedBy Ref
	Classes   RefList
}

// NewSubject builds a subject from a loose record.
func NewSubject(r Record) *Subject {
	s := &Subject{Timestamps: newTimestamps(r), Active: true}
	s.assign(r)
	return s
}

func (s *Subject) assign(r Record) {
	r.str("name", &s.Name)
	r.str("code", &s.Code)
	r.str("logo", &s.Logo)
	r.boolean("is_active", &s.Active)
	r.ref("created_by", &s.CreatedBy)
	r.refs("classes", &s.Classes)
}

// Update applies the fields present in r and touches the subject.
func (s *Subject) Update(r Record) {
	s.assign(r)
	s.Touch()
}

func (s *Subject) CreatedByID() string { return s.CreatedBy.ID() }

// AddClass links a class by id or object; linking twice is a no-op.
func (s *Subject) AddClass(class interface{}) {
	if s.Classes.Add(class) {
		s.Touch()
	}
}

// RemoveClass unlinks a class by id or object.
func (s *Subject) RemoveClass(class interface{}) {
	if s.Classes.Remove(class) {
		s.Touch()
	}
}

func (s *Subject) HasClass(class interface{}) bool { return s.Classes.Has(class) }
func (s *Subject) ClassIDs() []string              { return s.Classes.IDs() }
func (s *Subject) ClassCount() int                 { return s.Classes.Len() }

func (s *Subject) Activate() {
	s.Active = true
	s.Touch()
}

func (s *Subject) Deactivate() {
	s.Active = false
	s.Touch()
}

func (s *Subject) Validate() ValidationResult {
	return ruleSet{
		required("name", s.Name, "Subject name is required"),
		maxLength("name", s.Name, 100, "Subject name"),
		required("code", s.Code, "Subject code is required"),
		maxLength("code", s.Code, 10, "Subject code"),
	}.evaluate()
}

func (s *Subject) Serialize() Record {
	out := Record{
		"name":       s.Name,
		"code":       s.Code,
		"logo":       s.Logo,
		"is_active":  s.Active,
		"created_by": s.CreatedBy.Value(),
		"classes":    s.Classes.Values(),
	}
	s.Timestamps.serialize(out)
	return out
}

func (s *Subject) MarshalJSON() ([]byte, error) { return marshalEntity(s) }

func (s *Subject) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*s = *NewSubject(r)
	return nil
}

// Module is an ordered unit of a subject.
type Module struct {
	Timestamps
	Name      string
	Subject   Ref
	Order     int
	Active    bool
	Enabled   bool
	Logo      string
	CreatedBy Ref
}

// NewModule builds a module from a loose record.
func NewModule(r Record) *Module {
	m := &Module{Timestamps: newTimestamps(r), Order: 1, Active: true, Enabled: true}
	m.assign(r)
	return m
}

func (m *Module) assign(r Record) {
	r.str("name", &m.Name)
	r.ref("subject", &m.Subject)
	r.integer("order", &m.Order)
	r.boolean("is_active", &m.Active)
	r.boolean("is_enabled", &m.Enabled)
	r.str("logo", &m.Logo)
	r.ref("created_by", &m.CreatedBy)
}

// Update applies the fields present in r and touches the module.
func (m *Module) Update(r Record) {
	m.assign(r)
	m.Touch()
}

func (m *Module) SubjectID() string   { return m.Subject.ID() }
func (m *Module) CreatedByID() string { return m.CreatedBy.ID() }

func (m *Module) Enable() {
	m.Enabled = true
	m.Touch()
}

func (m *Module) Disable() {
	m.Enabled = false
	m.Touch()
}

func (m *Module) Activate() {
	m.Active = true
	m.Touch()
}

func (m *Module) Deactivate() {
	m.Active = false
	m.Touch()
}

func (m *Module) Validate() ValidationResult {
	return ruleSet{
		required("name", m.Name, "Module name is required"),
		maxLength("name", m.Name, 100, "Module name"),
		refRequired("subject", m.Subject, "Subject is required"),
		atLeastOne("order", m.Order, "Order"),
	}.evaluate()
}

func (m *Module) Serialize() Record {
	out := Record{
		"name":       m.Name,
		"subject":    m.Subject.Value(),
		"order":      m.Order,
		"is_active":  m.Active,
		"is_enabled": m.Enabled,
		"logo":       m.Logo,
		"created_by": m.CreatedBy.Value(),
	}
	m.Timestamps.serialize(out)
	return out
}

func (m *Module) MarshalJSON() ([]byte, error) { return marshalEntity(m) }

func (m *Module) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*m = *NewModule(r)
	return nil
}
