package models

import "time"

// LearningProgress is the shared part of module and chapter progress.
type LearningProgress struct {
	Timestamps
	User            Ref
	Status          ProgressStatus
	Percentage      float64
	StartedAt       time.Time
	CompletedAt     time.Time
	CurrentQuestion Ref
}

func newLearningProgress(r Record) LearningProgress {
	p := LearningProgress{Timestamps: newTimestamps(r), Status: StatusNotStarted}
	p.assign(r)
	return p
}

func (p *LearningProgress) assign(r Record) {
	r.ref("user", &p.User)
	if r.has("status") {
		var s string
		r.str("status", &s)
		p.Status = ProgressStatus(s)
	}
	r.float("percentage", &p.Percentage)
	r.timestamp("started_at", &p.StartedAt)
	r.timestamp("completed_at", &p.CompletedAt)
	r.ref("current_question", &p.CurrentQuestion)
	if p.Percentage >= 100 {
		p.Status = StatusCompleted
	}
}

func (p *LearningProgress) UserID() string            { return p.User.ID() }
func (p *LearningProgress) CurrentQuestionID() string { return p.CurrentQuestion.ID() }
func (p *LearningProgress) IsCompleted() bool         { return p.Status == StatusCompleted }

// IsOverdue reports a record that fell due before reaching 100 percent.
func (p *LearningProgress) IsOverdue() bool {
	return p.Status == StatusDue && p.Percentage < 100
}

func (p *LearningProgress) Start() {
	p.Status = StatusInProgress
	p.StartedAt = now()
	p.Touch()
}

// Complete forces 100 percent and the completed status.
func (p *LearningProgress) Complete() {
	p.Status = StatusCompleted
	p.Percentage = 100
	p.CompletedAt = now()
	p.Touch()
}

func (p *LearningProgress) MarkDue() {
	p.Status = StatusDue
	p.Touch()
}

// UpdatePercentage stores the new percentage; reaching 100 completes the record.
func (p *LearningProgress) UpdatePercentage(percentage float64) {
	p.Percentage = percentage
	if percentage >= 100 {
		p.Status = StatusCompleted
		p.CompletedAt = now()
	}
	p.Touch()
}

func (p *LearningProgress) SetCurrentQuestion(question interface{}) {
	p.CurrentQuestion = RefOf(question)
	p.Touch()
}

func (p *LearningProgress) rules() ruleSet {
	rs := ruleSet{refRequired("user", p.User, "User is required")}
	rs = append(rs, choice("status", string(p.Status), LearningStatusChoices, "Status")...)
	rs = append(rs, check("percentage", "Percentage must be between 0 and 100", p.Percentage < 0 || p.Percentage > 100))
	return rs
}

func (p *LearningProgress) serialize(out Record) {
	out["user"] = p.User.Value()
	out["status"] = string(p.Status)
	out["percentage"] = p.Percentage
	out["started_at"] = formatTime(p.StartedAt)
	out["completed_at"] = formatTime(p.CompletedAt)
	out["current_question"] = p.CurrentQuestion.Value()
	p.Timestamps.serialize(out)
}

// UserModuleProgress tracks a user's progress through a module.
type UserModuleProgress struct {
	LearningProgress
	Module Ref
}

// NewUserModuleProgress builds a module progress record from a loose record.
func NewUserModuleProgress(r Record) *UserModuleProgress {
	p := &UserModuleProgress{LearningProgress: newLearningProgress(r)}
	r.ref("module", &p.Module)
	return p
}

// Update applies the fields present in r and touches the record.
func (p *UserModuleProgress) Update(r Record) {
	p.LearningProgress.assign(r)
	r.ref("module", &p.Module)
	p.Touch()
}

func (p *UserModuleProgress) ModuleID() string { return p.Module.ID() }

func (p *UserModuleProgress) Validate() ValidationResult {
	rs := ruleSet{refRequired("module", p.Module, "Module is required")}
	return append(rs, p.rules()...).evaluate()
}

func (p *UserModuleProgress) Serialize() Record {
	out := Record{"module": p.Module.Value()}
	p.LearningProgress.serialize(out)
	return out
}

func (p *UserModuleProgress) MarshalJSON() ([]byte, error) { return marshalEntity(p) }

func (p *UserModuleProgress) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*p = *NewUserModuleProgress(r)
	return nil
}

// UserChapterProgress tracks a user's progress through a chapter.
type UserChapterProgress struct {
	LearningProgress
	Chapter Ref
}

// NewUserChapterProgress builds a chapter progress record from a loose record.
func NewUserChapterProgress(r Record) *UserChapterProgress {
	p := &UserChapterProgress{LearningProgress: newLearningProgress(r)}
	r.ref("chapter", &p.Chapter)
	return p
}

// Update applies the fields present in r and touches the record.
func (p *UserChapterProgress) Update(r Record) {
	p.LearningProgress.assign(r)
	r.ref("chapter", &p.Chapter)
	p.Touch()
}

func (p *UserChapterProgress) ChapterID() string { return p.Chapter.ID() }

func (p *UserChapterProgress) Validate() ValidationResult {
	rs := ruleSet{refRequired("chapter", p.Chapter, "Chapter is required")}
	return append(rs, p.rules()...).evaluate()
}

func (p *UserChapterProgress) Serialize() Record {
	out := Record{"chapter": p.Chapter.Value()}
	p.LearningProgress.serialize(out)
	return out
}

func (p *UserChapterProgress) MarshalJSON() ([]byte, error) { return marshalEntity(p) }

func (p *UserChapterProgress) UnmarshalJSON(raw []byte) error {
	r, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	*p = *NewUserChapterProgress(r)
	return nil
}
