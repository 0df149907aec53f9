package models

// ModuleChapter is an ordered chapter inside a module.
type ModuleChapter struct {
	Deletable
	Title     string
	Module    Ref
	Order     int
	Enabled   bool
	Important bool
	Logo      string
}

// NewModuleChapter builds a chapter from a loose record.
func NewModuleChapter(r Record) *ModuleChapter {
	c := &ModuleChapter{Deletable: newDeletable(r), Order: 1, Enabled: true}
	c.assign(r)
	return c
}

func (c *ModuleChapter) assign(r Record) {
	r.str("title", &c.Title)
	r.ref("module", &c.Module)
	r.integer("order", &c.Order)
	r.boolean("is_enabled", &c.Enabled)
	r.boolean("is_important", &c.Important)
	r.str("logo", &c.Logo)
}

// Update applies the fields present in r and touches the chapter.
func (c *ModuleChapter) Update(r Record) {
	c.assign(r)
	c.Touch()
}

func (c *ModuleChapter) ModuleID() string { return c.Module.ID() }

func (c *ModuleChapter) Enable() {
	c.Enabled = true
	c.Touch()
}

func (c *ModuleChapter) Disable() {
	c.Enabled = false
	c.Touch()
}

func (c *ModuleChapter) MarkImportant() {
	c.Important = true
	c.Touch()
}

func (c *ModuleChapter) UnmarkImportant() {
	c.Important = false
	c.Touch()
}

func (c *ModuleChapter) Validate() ValidationResult {
	return ruleSet{
		required("title", c.Title, "Chapter title is required"),
		maxLength("title", c.Title, 200, "Chapter title"),
		refRequired("module", c.Module, "Module is required"),
		atLeastOne("order", c.Order, "Order"),
	}.evaluate()
}

func (c *ModuleChapter) Serialize() Record {
	out := Record{
		"title":        c.Title,
		"module":       c.Module.Value(),
		"order":        c.Order,
		"is_enabled":   c.Enabled,
		"is_important": c.Important,
		"logo":         c.Logo,
	}
	c.Deletable.serialize(out)
	return out
}

func (c *ModuleChapter) MarshalJSON() ([]byte, error) { return marshalEntity(c) }

func (c *ModuleChapter) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*c = *NewModuleChapter(r)
	return nil
}

// ModuleContent places either a question or a theory inside a chapter.
type ModuleContent struct {
	Deletable
	Chapter     Ref
	ContentType ContentType
	Order       int
	Question    Ref
	Theory      Ref
}

// NewModuleContent builds a content row from a loose record. Content defaults to a question.
func NewModuleContent(r Record) *ModuleContent {
	c := &ModuleContent{Deletable: newDeletable(r), ContentType: ContentTypeQuestion, Order: 1}
	c.assign(r)
	return c
}

func (c *ModuleContent) assign(r Record) {
	r.ref("chapter", &c.Chapter)
	if r.has("content_type") {
		var t string
		r.str("content_type", &t)
		c.ContentType = ContentType(t)
	}
	r.integer("order", &c.Order)
	r.ref("question", &c.Question)
	r.ref("theory", &c.Theory)
}

// Update applies the fields present in r and touches the content row.
func (c *ModuleContent) Update(r Record) {
	c.assign(r)
	c.Touch()
}

func (c *ModuleContent) ChapterID() string  { return c.Chapter.ID() }
func (c *ModuleContent) QuestionID() string { return c.Question.ID() }
func (c *ModuleContent) TheoryID() string   { return c.Theory.ID() }

func (c *ModuleContent) IsQuestion() bool { return c.ContentType == ContentTypeQuestion }
func (c *ModuleContent) IsTheory() bool   { return c.ContentType == ContentTypeTheory }

// ContentID returns the id of whichever reference the content type selects.
func (c *ModuleContent) ContentID() string {
	switch c.ContentType {
	case ContentTypeQuestion:
		return c.Question.ID()
	case ContentTypeTheory:
		return c.Theory.ID()
	}
	return ""
}

// SetQuestion points the row at a question and clears any theory.
func (c *ModuleContent) SetQuestion(question interface{}) {
	c.ContentType = ContentTypeQuestion
	c.Question = RefOf(question)
	c.Theory = Ref{}
	c.Touch()
}

// SetTheory points the row at a theory and clears any question.
func (c *ModuleContent) SetTheory(theory interface{}) {
	c.ContentType = ContentTypeTheory
	c.Theory = RefOf(theory)
	c.Question = Ref{}
	c.Touch()
}

func (c *ModuleContent) Validate() ValidationResult {
	isQuestion := c.ContentType == ContentTypeQuestion
	isTheory := c.ContentType == ContentTypeTheory
	rs := ruleSet{refRequired("chapter", c.Chapter, "Chapter is required")}
	rs = append(rs, choice("content_type", string(c.ContentType), ContentTypeChoices, "Content type")...)
	rs = append(rs,
		atLeastOne("order", c.Order, "Order"),
		when(isQuestion, refRequired("question", c.Question, "Question is required for question content")),
		check("theory", "Theory must be empty for question content", isQuestion && c.Theory.IsSet()),
		when(isTheory, refRequired("theory", c.Theory, "Theory is required for theory content")),
		check("question", "Question must be empty for theory content", isTheory && c.Question.IsSet()),
	)
	return rs.evaluate()
}

func (c *ModuleContent) Serialize() Record {
	out := Record{
		"chapter":      c.Chapter.Value(),
		"content_type": string(c.ContentType),
		"order":        c.Order,
		"question":     c.Question.Value(),
		"theory":       c.Theory.Value(),
	}
	c.Deletable.serialize(out)
	return out
}

func (c *ModuleContent) MarshalJSON() ([]byte, error) { return marshalEntity(c) }

func (c *ModuleContent) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*c = *NewModuleContent(r)
	return nil
}

// Theory is a reading passage placed in a chapter.
type Theory struct {
	Deletable
	Title       string
	Description string
}

// NewTheory builds a theory from a loose record.
func NewTheory(r Record) *Theory {
	t := &Theory{Deletable: newDeletable(r)}
	t.assign(r)
	return t
}

func (t *Theory) assign(r Record) {
	r.str("title", &t.Title)
	r.str("description", &t.Description)
}

// Update applies the fields present in r and touches the theory.
func (t *Theory) Update(r Record) {
	t.assign(r)
	t.Touch()
}

// DescriptionPreview returns at most the first 100 characters of the description.
func (t *Theory) DescriptionPreview() string { return preview(t.Description) }

func (t *Theory) Validate() ValidationResult {
	return ruleSet{
		required("title", t.Title, "Theory title is required"),
		maxLength("title", t.Title, 200, "Theory title"),
		required("description", t.Description, "Description is required"),
	}.evaluate()
}

func (t *Theory) Serialize() Record {
	out := Record{
		"title":       t.Title,
		"description": t.Description,
	}
	t.Deletable.serialize(out)
	return out
}

func (t *Theory) MarshalJSON() ([]byte, error) { return marshalEntity(t) }

func (t *Theory) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*t = *NewTheory(r)
	return nil
}
