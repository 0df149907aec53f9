package models

import "time"

// Mission is a dated set of questions assigned to a class.
type Mission struct {
	Deletable
	Title         string
	Description   string
	Date          time.Time
	ExpMultiplier float64
	BaseExp       int
	Active        bool
	Class         Ref
	Questions     RefList
}

// NewMission builds a mission from a loose record.
func NewMission(r Record) *Mission {
	m := &Mission{Deletable: newDeletable(r), ExpMultiplier: 1, Active: true}
	m.assign(r)
	return m
}

func (m *Mission) assign(r Record) {
	r.str("title", &m.Title)
	r.str("description", &m.Description)
	r.timestamp("date", &m.Date)
	r.float("exp_multiplier", &m.ExpMultiplier)
	r.integer("base_exp", &m.BaseExp)
	r.boolean("is_active", &m.Active)
	r.ref("class", &m.Class)
	r.refs("questions", &m.Questions)
}

// Update applies the fields present in r and touches the mission.
func (m *Mission) Update(r Record) {
	m.assign(r)
	m.Touch()
}

func (m *Mission) ClassID() string       { return m.Class.ID() }
func (m *Mission) QuestionIDs() []string { return m.Questions.IDs() }
func (m *Mission) QuestionCount() int    { return m.Questions.Len() }

// TotalExp is the base experience scaled by the multiplier.
func (m *Mission) TotalExp() float64 { return float64(m.BaseExp) * m.ExpMultiplier }

// DescriptionPreview returns at most the first 100 characters of the description.
func (m *Mission) DescriptionPreview() string { return preview(m.Description) }

// AddQuestion links a question by id or object; linking twice is a no-op.
func (m *Mission) AddQuestion(question interface{}) {
	if m.Questions.Add(question) {
		m.Touch()
	}
}

// RemoveQuestion unlinks a question by id or object.
func (m *Mission) RemoveQuestion(question interface{}) {
	if m.Questions.Remove(question) {
		m.Touch()
	}
}

func (m *Mission) HasQuestion(question interface{}) bool { return m.Questions.Has(question) }

func (m *Mission) Activate() {
	m.Active = true
	m.Touch()
}

func (m *Mission) Deactivate() {
	m.Active = false
	m.Touch()
}

func (m *Mission) Validate() ValidationResult {
	return ruleSet{
		required("title", m.Title, "Mission title is required"),
		maxLength("title", m.Title, 200, "Mission title"),
		check("date", "Mission date is required", m.Date.IsZero()),
		nonNegative("exp_multiplier", m.ExpMultiplier, "Experience multiplier"),
		nonNegative("base_exp", float64(m.BaseExp), "Base experience"),
		refRequired("class", m.Class, "Class is required"),
	}.evaluate()
}

func (m *Mission) Serialize() Record {
	out := Record{
		"title":          m.Title,
		"description":    m.Description,
		"date":           formatDate(m.Date),
		"exp_multiplier": m.ExpMultiplier,
		"base_exp":       m.BaseExp,
		"is_active":      m.Active,
		"class":          m.Class.Value(),
		"questions":      m.Questions.Values(),
	}
	m.Deletable.serialize(out)
	return out
}

func (m *Mission) MarshalJSON() ([]byte, error) { return marshalEntity(m) }

func (m *Mission) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*m = *NewMission(r)
	return nil
}

// MissionQuestion orders a question inside a mission.
type MissionQuestion struct {
	Timestamps
	Mission  Ref
	Question Ref
	Order    int
}

// NewMissionQuestion builds a mission/question link from a loose record.
func NewMissionQuestion(r Record) *MissionQuestion {
	mq := &MissionQuestion{Timestamps: newTimestamps(r), Order: 1}
	mq.assign(r)
	return mq
}

func (mq *MissionQuestion) assign(r Record) {
	r.ref("mission", &mq.Mission)
	r.ref("question", &mq.Question)
	r.integer("order", &mq.Order)
}

// Update applies the fields present in r and touches the link.
func (mq *MissionQuestion) Update(r Record) {
	mq.assign(r)
	mq.Touch()
}

func (mq *MissionQuestion) MissionID() string  { return mq.Mission.ID() }
func (mq *MissionQuestion) QuestionID() string { return mq.Question.ID() }

func (mq *MissionQuestion) Validate() ValidationResult {
	return ruleSet{
		refRequired("mission", mq.Mission, "Mission is required"),
		refRequired("question", mq.Question, "Question is required"),
		atLeastOne("order", mq.Order, "Order"),
	}.evaluate()
}

func (mq *MissionQuestion) Serialize() Record {
	out := Record{
		"mission":  mq.Mission.Value(),
		"question": mq.Question.Value(),
		"order":    mq.Order,
	}
	mq.Timestamps.serialize(out)
	return out
}

func (mq *MissionQuestion) MarshalJSON() ([]byte, error) { return marshalEntity(mq) }

func (mq *MissionQuestion) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*mq = *NewMissionQuestion(r)
	return nil
}

// UserMissionProgress tracks one user's run through a mission.
type UserMissionProgress struct {
	Timestamps
	User            Ref
	Mission         Ref
	Status          ProgressStatus
	StartedAt       time.Time
	CompletedAt     time.Time
	ExpEarned       int
	CurrentQuestion Ref
}

// NewUserMissionProgress builds a progress record from a loose record.
func NewUserMissionProgress(r Record) *UserMissionProgress {
	p := &UserMissionProgress{Timestamps: newTimestamps(r), Status: StatusNotStarted}
	p.assign(r)
	return p
}

func (p *UserMissionProgress) assign(r Record) {
	r.ref("user", &p.User)
	r.ref("mission", &p.Mission)
	if r.has("status") {
		var s string
		r.str("status", &s)
		p.Status = ProgressStatus(s)
	}
	r.timestamp("started_at", &p.StartedAt)
	r.timestamp("completed_at", &p.CompletedAt)
	r.integer("exp_earned", &p.ExpEarned)
	r.ref("current_question", &p.CurrentQuestion)
}

// Update applies the fields present in r and touches the record.
func (p *UserMissionProgress) Update(r Record) {
	p.assign(r)
	p.Touch()
}

func (p *UserMissionProgress) UserID() string            { return p.User.ID() }
func (p *UserMissionProgress) MissionID() string         { return p.Mission.ID() }
func (p *UserMissionProgress) CurrentQuestionID() string { return p.CurrentQuestion.ID() }
func (p *UserMissionProgress) IsCompleted() bool         { return p.Status == StatusCompleted }

// Start moves the record to in_progress and stamps StartedAt.
func (p *UserMissionProgress) Start() {
	p.Status = StatusInProgress
	p.StartedAt = now()
	p.Touch()
}

// Complete moves the record to completed with the experience earned.
func (p *UserMissionProgress) Complete(expEarned int) {
	p.Status = StatusCompleted
	p.CompletedAt = now()
	p.ExpEarned = expEarned
	p.Touch()
}

// SetCurrentQuestion records the question the user is on.
func (p *UserMissionProgress) SetCurrentQuestion(question interface{}) {
	p.CurrentQuestion = RefOf(question)
	p.Touch()
}

func (p *UserMissionProgress) Validate() ValidationResult {
	rs := ruleSet{
		refRequired("user", p.User, "User is required"),
		refRequired("mission", p.Mission, "Mission is required"),
	}
	rs = append(rs, choice("status", string(p.Status), ProgressStatusChoices, "Status")...)
	rs = append(rs, nonNegative("exp_earned", float64(p.ExpEarned), "Experience earned"))
	return rs.evaluate()
}

func (p *UserMissionProgress) Serialize() Record {
	out := Record{
		"user":             p.User.Value(),
		"mission":          p.Mission.Value(),
		"status":           string(p.Status),
		"started_at":       formatTime(p.StartedAt),
		"completed_at":     formatTime(p.CompletedAt),
		"exp_earned":       p.ExpEarned,
		"current_question": p.CurrentQuestion.Value(),
	}
	p.Timestamps.serialize(out)
	return out
}

func (p *UserMissionProgress) MarshalJSON() ([]byte, error) { return marshalEntity(p) }

func (p *UserMissionProgress) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*p = *NewUserMissionProgress(r)
	return nil
}
