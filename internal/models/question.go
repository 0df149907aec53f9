package models

// Question is an answerable item; it owns its options.
type Question struct {
	Deletable
	Text       string
	Image      string
	Type       QuestionType
	ExpPoints  int
	Difficulty DifficultyLevel
	Active     bool
	Options    []*Option
}

// NewQuestion builds a question from a loose record. Nested option records become owned options.
func NewQuestion(r Record) *Question {
	q := &Question{
		Deletable:  newDeletable(r),
		Type:       QuestionTypeMCQSingle,
		Difficulty: DifficultyMedium,
		Active:     true,
	}
	q.assign(r)
	return q
}

func (q *Question) assign(r Record) {
	r.str("question_text", &q.Text)
	r.str("question_image", &q.Image)
	if r.has("question_type") {
		var t string
		r.str("question_type", &t)
		q.Type = QuestionType(t)
	}
	r.integer("exp_points", &q.ExpPoints)
	if r.has("difficulty_level") {
		var d string
		r.str("difficulty_level", &d)
		q.Difficulty = DifficultyLevel(d)
	}
	r.boolean("is_active", &q.Active)
	if items, ok := r.records("options"); ok {
		q.Options = make([]*Option, 0, len(items))
		for _, item := range items {
			q.Options = append(q.Options, NewOption(item))
		}
	}
}

// Update applies the fields present in r and touches the question.
func (q *Question) Update(r Record) {
	q.assign(r)
	q.Touch()
}

// IsMCQ reports whether the question is answered by picking options.
func (q *Question) IsMCQ() bool {
	return q.Type == QuestionTypeMCQSingle || q.Type == QuestionTypeMCQMultiple
}

// OptionCount returns the number of options.
func (q *Question) OptionCount() int { return len(q.Options) }

// CorrectOptions returns the options flagged correct, in order.
func (q *Question) CorrectOptions() []*Option {
	var correct []*Option
	for _, o := range q.Options {
		if o.IsCorrect {
			correct = append(correct, o)
		}
	}
	return correct
}

// CorrectAnswersCount counts the options flagged correct.
func (q *Question) CorrectAnswersCount() int { return len(q.CorrectOptions()) }

// ContentPreview returns at most the first 100 characters of the question text.
func (q *Question) ContentPreview() string { return preview(q.Text) }

// AddOption appends an option, pointing it at this question and numbering it when unordered.
func (q *Question) AddOption(o *Option) {
	if o == nil {
		return
	}
	if q.ID != "" && !o.Question.IsSet() {
		o.Question = RefID(q.ID)
	}
	if o.Order < 1 {
		o.Order = len(q.Options) + 1
	}
	q.Options = append(q.Options, o)
	q.Touch()
}

// RemoveOption drops o, matched by pointer or by a non-empty id.
func (q *Question) RemoveOption(o *Option) {
	if o == nil {
		return
	}
	kept := q.Options[:0]
	removed := false
	for _, existing := range q.Options {
		if existing == o || (o.ID != "" && existing.ID == o.ID) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	q.Options = kept
	if removed {
		q.Touch()
	}
}

func (q *Question) Activate() {
	q.Active = true
	q.Touch()
}

func (q *Question) Deactivate() {
	q.Active = false
	q.Touch()
}

func (q *Question) Validate() ValidationResult {
	rs := ruleSet{required("question_text", q.Text, "Question text is required")}
	rs = append(rs, choice("question_type", string(q.Type), QuestionTypeChoices, "Question type")...)
	rs = append(rs, nonNegative("exp_points", float64(q.ExpPoints), "Experience points"))
	rs = append(rs, choice("difficulty_level", string(q.Difficulty), DifficultyChoices, "Difficulty level")...)
	return rs.evaluate()
}

func (q *Question) Serialize() Record {
	options := make([]Record, len(q.Options))
	for i, o := range q.Options {
		options[i] = o.Serialize()
	}
	out := Record{
		"question_text":    q.Text,
		"question_image":   q.Image,
		"question_type":    string(q.Type),
		"exp_points":       q.ExpPoints,
		"difficulty_level": string(q.Difficulty),
		"is_active":        q.Active,
		"options":          options,
	}
	q.Deletable.serialize(out)
	return out
}

func (q *Question) MarshalJSON() ([]byte, error) { return marshalEntity(q) }

func (q *Question) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*q = *NewQuestion(r)
	return nil
}

// Option is one selectable answer of a question.
type Option struct {
	Timestamps
	Text      string
	IsCorrect bool
	Order     int
	Question  Ref
}

// NewOption builds an option from a loose record.
func NewOption(r Record) *Option {
	o := &Option{Timestamps: newTimestamps(r), Order: 1}
	o.assign(r)
	return o
}

func (o *Option) assign(r Record) {
	r.str("option_text", &o.Text)
	r.boolean("is_correct", &o.IsCorrect)
	r.integer("order", &o.Order)
	r.ref("question", &o.Question)
}

// Update applies the fields present in r and touches the option.
func (o *Option) Update(r Record) {
	o.assign(r)
	o.Touch()
}

func (o *Option) QuestionID() string { return o.Question.ID() }

func (o *Option) MarkCorrect() {
	o.IsCorrect = true
	o.Touch()
}

func (o *Option) MarkIncorrect() {
	o.IsCorrect = false
	o.Touch()
}

func (o *Option) Validate() ValidationResult {
	return ruleSet{
		required("option_text", o.Text, "Option text is required"),
		maxLength("option_text", o.Text, 500, "Option text"),
		atLeastOne("order", o.Order, "Order"),
		refRequired("question", o.Question, "Question is required"),
	}.evaluate()
}

func (o *Option) Serialize() Record {
	out := Record{
		"option_text": o.Text,
		"is_correct":  o.IsCorrect,
		"order":       o.Order,
		"question":    o.Question.Value(),
	}
	o.Timestamps.serialize(out)
	return out
}

func (o *Option) MarshalJSON() ([]byte, error) { return marshalEntity(o) }

func (o *Option) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*o = *NewOption(r)
	return nil
}
