package models

import "time"

// Competition is a timed contest drawing questions from a subject, optionally narrowed to a chapter.
type Competition struct {
	Deletable
	Title        string
	Description  string
	Code         string
	Type         CompetitionType
	Subject      Ref
	Chapter      Ref
	TotalTime    int
	Status       ProgressStatus
	Active       bool
	Questions    RefList
	Participants RefList
}

// NewCompetition builds a competition from a loose record.
func NewCompetition(r Record) *Competition {
	c := &Competition{
		Deletable: newDeletable(r),
		Type:      CompetitionTypeSubject,
		TotalTime: 30,
		Status:    StatusNotStarted,
		Active:    true,
	}
	c.assign(r)
	return c
}

func (c *Competition) assign(r Record) {
	r.str("title", &c.Title)
	r.str("description", &c.Description)
	r.str("code", &c.Code)
	if r.has("competition_type") {
		var t string
		r.str("competition_type", &t)
		c.Type = CompetitionType(t)
	}
	r.ref("subject", &c.Subject)
	r.ref("chapter", &c.Chapter)
	r.integer("total_time", &c.TotalTime)
	if r.has("status") {
		var s string
		r.str("status", &s)
		c.Status = ProgressStatus(s)
	}
	r.boolean("is_active", &c.Active)
	r.refs("questions", &c.Questions)
	r.refs("participants", &c.Participants)
}

// Update applies the fields present in r and touches the competition.
func (c *Competition) Update(r Record) {
	c.assign(r)
	c.Touch()
}

func (c *Competition) SubjectID() string        { return c.Subject.ID() }
func (c *Competition) ChapterID() string        { return c.Chapter.ID() }
func (c *Competition) QuestionIDs() []string    { return c.Questions.IDs() }
func (c *Competition) ParticipantIDs() []string { return c.Participants.IDs() }
func (c *Competition) QuestionCount() int       { return c.Questions.Len() }
func (c *Competition) ParticipantCount() int    { return c.Participants.Len() }

// DescriptionPreview returns at most the first 100 characters of the description.
func (c *Competition) DescriptionPreview() string { return preview(c.Description) }

func (c *Competition) AddQuestion(question interface{}) {
	if c.Questions.Add(question) {
		c.Touch()
	}
}

func (c *Competition) RemoveQuestion(question interface{}) {
	if c.Questions.Remove(question) {
		c.Touch()
	}
}

func (c *Competition) HasQuestion(question interface{}) bool { return c.Questions.Has(question) }

func (c *Competition) AddParticipant(user interface{}) {
	if c.Participants.Add(user) {
		c.Touch()
	}
}

func (c *Competition) RemoveParticipant(user interface{}) {
	if c.Participants.Remove(user) {
		c.Touch()
	}
}

func (c *Competition) HasParticipant(user interface{}) bool { return c.Participants.Has(user) }

func (c *Competition) Start() {
	c.Status = StatusInProgress
	c.Touch()
}

func (c *Competition) Complete() {
	c.Status = StatusCompleted
	c.Touch()
}

func (c *Competition) Activate() {
	c.Active = true
	c.Touch()
}

func (c *Competition) Deactivate() {
	c.Active = false
	c.Touch()
}

func (c *Competition) Validate() ValidationResult {
	withChapter := c.Type == CompetitionTypeSubjectWithChapter
	rs := ruleSet{
		required("title", c.Title, "Competition title is required"),
		maxLength("title", c.Title, 200, "Competition title"),
		required("code", c.Code, "Competition code is required"),
		maxLength("code", c.Code, 10, "Competition code"),
	}
	rs = append(rs, choice("competition_type", string(c.Type), CompetitionTypeChoices, "Competition type")...)
	rs = append(rs,
		when(withChapter, refRequired("chapter", c.Chapter, "Chapter is required for subject with chapter competitions")),
		atLeastOne("total_time", c.TotalTime, "Total time"),
	)
	rs = append(rs, choice("status", string(c.Status), ProgressStatusChoices, "Status")...)
	return rs.evaluate()
}

func (c *Competition) Serialize() Record {
	out := Record{
		"title":            c.Title,
		"description":      c.Description,
		"code":             c.Code,
		"competition_type": string(c.Type),
		"subject":          c.Subject.Value(),
		"chapter":          c.Chapter.Value(),
		"total_time":       c.TotalTime,
		"status":           string(c.Status),
		"is_active":        c.Active,
		"questions":        c.Questions.Values(),
		"participants":     c.Participants.Values(),
	}
	c.Deletable.serialize(out)
	return out
}

func (c *Competition) MarshalJSON() ([]byte, error) { return marshalEntity(c) }

func (c *Competition) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*c = *NewCompetition(r)
	return nil
}

// CompetitionQuestion orders and weighs a question inside a competition.
type CompetitionQuestion struct {
	Timestamps
	Competition Ref
	Question    Ref
	Order       int
	Points      int
}

// NewCompetitionQuestion builds a competition/question link from a loose record.
func NewCompetitionQuestion(r Record) *CompetitionQuestion {
	cq := &CompetitionQuestion{Timestamps: newTimestamps(r), Order: 1, Points: 1}
	cq.assign(r)
	return cq
}

func (cq *CompetitionQuestion) assign(r Record) {
	r.ref("competition", &cq.Competition)
	r.ref("question", &cq.Question)
	r.integer("order", &cq.Order)
	r.integer("points", &cq.Points)
}

// Update applies the fields present in r and touches the link.
func (cq *CompetitionQuestion) Update(r Record) {
	cq.assign(r)
	cq.Touch()
}

func (cq *CompetitionQuestion) CompetitionID() string { return cq.Competition.ID() }
func (cq *CompetitionQuestion) QuestionID() string    { return cq.Question.ID() }

func (cq *CompetitionQuestion) Validate() ValidationResult {
	return ruleSet{
		refRequired("competition", cq.Competition, "Competition is required"),
		refRequired("question", cq.Question, "Question is required"),
		atLeastOne("order", cq.Order, "Order"),
		atLeastOne("points", cq.Points, "Points"),
	}.evaluate()
}

func (cq *CompetitionQuestion) Serialize() Record {
	out := Record{
		"competition": cq.Competition.Value(),
		"question":    cq.Question.Value(),
		"order":       cq.Order,
		"points":      cq.Points,
	}
	cq.Timestamps.serialize(out)
	return out
}

func (cq *CompetitionQuestion) MarshalJSON() ([]byte, error) { return marshalEntity(cq) }

func (cq *CompetitionQuestion) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*cq = *NewCompetitionQuestion(r)
	return nil
}

// UserCompetitionProgress tracks one participant's run through a competition.
type UserCompetitionProgress struct {
	Timestamps
	User            Ref
	Competition     Ref
	Status          ProgressStatus
	Score           int
	TimeTaken       int
	ExpEarned       int
	StartedAt       time.Time
	CompletedAt     time.Time
	CurrentQuestion Ref
}

// NewUserCompetitionProgress builds a progress record from a loose record.
func NewUserCompetitionProgress(r Record) *UserCompetitionProgress {
	p := &UserCompetitionProgress{Timestamps: newTimestamps(r), Status: StatusNotStarted}
	p.assign(r)
	return p
}

func (p *UserCompetitionProgress) assign(r Record) {
	r.ref("user", &p.User)
	r.ref("competition", &p.Competition)
	if r.has("status") {
		var s string
		r.str("status", &s)
		p.Status = ProgressStatus(s)
	}
	r.integer("score", &p.Score)
	r.integer("time_taken", &p.TimeTaken)
	r.integer("exp_earned", &p.ExpEarned)
	r.timestamp("started_at", &p.StartedAt)
	r.timestamp("completed_at", &p.CompletedAt)
	r.ref("current_question", &p.CurrentQuestion)
}

// Update applies the fields present in r and touches the record.
func (p *UserCompetitionProgress) Update(r Record) {
	p.assign(r)
	p.Touch()
}

func (p *UserCompetitionProgress) UserID() string            { return p.User.ID() }
func (p *UserCompetitionProgress) CompetitionID() string     { return p.Competition.ID() }
func (p *UserCompetitionProgress) CurrentQuestionID() string { return p.CurrentQuestion.ID() }
func (p *UserCompetitionProgress) IsCompleted() bool         { return p.Status == StatusCompleted }

func (p *UserCompetitionProgress) Start() {
	p.Status = StatusInProgress
	p.StartedAt = now()
	p.Touch()
}

// Complete records the final score, elapsed time and experience.
func (p *UserCompetitionProgress) Complete(score, timeTaken, expEarned int) {
	p.Status = StatusCompleted
	p.Score = score
	p.TimeTaken = timeTaken
	p.ExpEarned = expEarned
	p.CompletedAt = now()
	p.Touch()
}

// AddScore adds points to the running score.
func (p *UserCompetitionProgress) AddScore(points int) {
	p.Score += points
	p.Touch()
}

func (p *UserCompetitionProgress) SetCurrentQuestion(question interface{}) {
	p.CurrentQuestion = RefOf(question)
	p.Touch()
}

func (p *UserCompetitionProgress) Validate() ValidationResult {
	rs := ruleSet{
		refRequired("user", p.User, "User is required"),
		refRequired("competition", p.Competition, "Competition is required"),
	}
	rs = append(rs, choice("status", string(p.Status), ProgressStatusChoices, "Status")...)
	rs = append(rs,
		nonNegative("score", float64(p.Score), "Score"),
		nonNegative("time_taken", float64(p.TimeTaken), "Time taken"),
		nonNegative("exp_earned", float64(p.ExpEarned), "Experience earned"),
	)
	return rs.evaluate()
}

func (p *UserCompetitionProgress) Serialize() Record {
	out := Record{
		"user":             p.User.Value(),
		"competition":      p.Competition.Value(),
		"status":           string(p.Status),
		"score":            p.Score,
		"time_taken":       p.TimeTaken,
		"exp_earned":       p.ExpEarned,
		"started_at":       formatTime(p.StartedAt),
		"completed_at":     formatTime(p.CompletedAt),
		"current_question": p.CurrentQuestion.Value(),
	}
	p.Timestamps.serialize(out)
	return out
}

func (p *UserCompetitionProgress) MarshalJSON() ([]byte, error) { return marshalEntity(p) }

func (p *UserCompetitionProgress) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*p = *NewUserCompetitionProgress(r)
	return nil
}
