package models

// School is an institution; users and classes belong to it.
type School struct {
	Deletable
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
	Active  bool
}

// NewSchool builds a school from a loose record.
func NewSchool(r Record) *School {
	s := &School{Deletable: newDeletable(r), Active: true}
	s.assign(r)
	return s
}

func (s *School) assign(r Record) {
	r.str("name", &s.Name)
	r.str("address", &s.Address)
	r.str("phone", &s.Phone)
	r.str("email", &s.Email)
	r.str("website", &s.Website)
	r.boolean("is_active", &s.Active)
}

// Update applies the fields present in r and touches the school.
func (s *School) Update(r Record) {
	s.assign(r)
	s.Touch()
}

// Activate marks the school as operating.
func (s *School) Activate() {
	s.Active = true
	s.Touch()
}

// Deactivate marks the school as closed.
func (s *School) Deactivate() {
	s.Active = false
	s.Touch()
}

func (s *School) Validate() ValidationResult {
	return ruleSet{
		required("name", s.Name, "School name is required"),
		maxLength("name", s.Name, 200, "School name"),
		email("email", s.Email),
		website("website", s.Website),
	}.evaluate()
}

func (s *School) Serialize() Record {
	out := Record{
		"name":      s.Name,
		"address":   s.Address,
		"phone":     s.Phone,
		"email":     s.Email,
		"website":   s.Website,
		"is_active": s.Active,
	}
	s.Deletable.serialize(out)
	return out
}

func (s *School) MarshalJSON() ([]byte, error) { return marshalEntity(s) }

func (s *School) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*s = *NewSchool(r)
	return nil
}

// Class is a group of students inside a school.
type Class struct {
	Timestamps
	Name   string
	School Ref
	Active bool
}

// NewClass builds a class from a loose record.
func NewClass(r Record) *Class {
	c := &Class{Timestamps: newTimestamps(r), Active: true}
	c.assign(r)
	return c
}

func (c *Class) assign(r Record) {
	r.str("name", &c.Name)
	r.ref("school", &c.School)
	r.boolean("is_active", &c.Active)
}

// Update applies the fields present in r and touches the class.
func (c *Class) Update(r Record) {
	c.assign(r)
	c.Touch()
}

// SchoolID returns the owning school's id.
func (c *Class) SchoolID() string { return c.School.ID() }

func (c *Class) Activate() {
	c.Active = true
	c.Touch()
}

func (c *Class) Deactivate() {
	c.Active = false
	c.Touch()
}

func (c *Class) Validate() ValidationResult {
	return ruleSet{
		required("name", c.Name, "Class name is required"),
		maxLength("name", c.Name, 100, "Class name"),
		refRequired("school", c.School, "School is required"),
	}.evaluate()
}

func (c *Class) Serialize() Record {
	out := Record{
		"name":      c.Name,
		"school":    c.School.Value(),
		"is_active": c.Active,
	}
	c.Timestamps.serialize(out)
	return out
}

func (c *Class) MarshalJSON() ([]byte, error) { return marshalEntity(c) }

func (c *Class) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*c = *NewClass(r)
	return nil
}

// Level is an experience band students progress through.
type Level struct {
	Timestamps
	Name   int
	MinExp int
	MaxExp int
}

// NewLevel builds a level from a loose record.
func NewLevel(r Record) *Level {
	l := &Level{Timestamps: newTimestamps(r)}
	l.assign(r)
	return l
}

func (l *Level) assign(r Record) {
	r.integer("name", &l.Name)
	r.integer("min_exp", &l.MinExp)
	r.integer("max_exp", &l.MaxExp)
}

// Update applies the fields present in r and touches the level.
func (l *Level) Update(r Record) {
	l.assign(r)
	l.Touch()
}

// Contains reports whether exp falls inside the level's band.
func (l *Level) Contains(exp int) bool {
	return exp >= l.MinExp && exp <= l.MaxExp
}

// ExpRange is the width of the band.
func (l *Level) ExpRange() int { return l.MaxExp - l.MinExp }

func (l *Level) Validate() ValidationResult {
	return ruleSet{
		check("name", "Level number must be a positive integer", l.Name < 1),
		nonNegative("min_exp", float64(l.MinExp), "Minimum experience"),
		check("min_exp", "Minimum experience cannot be greater than maximum experience", l.MinExp > l.MaxExp),
		nonNegative("max_exp", float64(l.MaxExp), "Maximum experience"),
	}.evaluate()
}

func (l *Level) Serialize() Record {
	out := Record{
		"name":    l.Name,
		"min_exp": l.MinExp,
		"max_exp": l.MaxExp,
	}
	l.Timestamps.serialize(out)
	return out
}

func (l *Level) MarshalJSON() ([]byte, error) { return marshalEntity(l) }

func (l *Level) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*l = *NewLevel(r)
	return nil
}
