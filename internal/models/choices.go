package models

// Choice pairs a wire value with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func labelOf(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

func isChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// UserType distinguishes students, teachers and administrators.
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
	UserTypeAdmin   UserType = "admin"
)

// UserTypeChoices lists the accepted user types.
var UserTypeChoices = []Choice{
	{Value: string(UserTypeStudent), Label: "Student"},
	{Value: string(UserTypeTeacher), Label: "Teacher"},
	{Value: string(UserTypeAdmin), Label: "Admin"},
}

func (t UserType) Valid() bool   { return isChoice(UserTypeChoices, string(t)) }
func (t UserType) Label() string { return labelOf(UserTypeChoices, string(t)) }

// QuestionType describes how a question is answered.
type QuestionType string

const (
	QuestionTypeMCQSingle   QuestionType = "mcq_single"
	QuestionTypeMCQMultiple QuestionType = "mcq_multiple"
	QuestionTypeShortAnswer QuestionType = "short_answer"
)

// QuestionTypeChoices lists the accepted question types.
var QuestionTypeChoices = []Choice{
	{Value: string(QuestionTypeMCQSingle), Label: "Multiple Choice (Single Answer)"},
	{Value: string(QuestionTypeMCQMultiple), Label: "Multiple Choice (Multiple Answers)"},
	{Value: string(QuestionTypeShortAnswer), Label: "Short Answer"},
}

func (t QuestionType) Valid() bool   { return isChoice(QuestionTypeChoices, string(t)) }
func (t QuestionType) Label() string { return labelOf(QuestionTypeChoices, string(t)) }

// DifficultyLevel grades a question.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// DifficultyChoices lists the accepted difficulty levels.
var DifficultyChoices = []Choice{
	{Value: string(DifficultyEasy), Label: "Easy"},
	{Value: string(DifficultyMedium), Label: "Medium"},
	{Value: string(DifficultyHard), Label: "Hard"},
}

func (d DifficultyLevel) Valid() bool   { return isChoice(DifficultyChoices, string(d)) }
func (d DifficultyLevel) Label() string { return labelOf(DifficultyChoices, string(d)) }

// ContentType tells which reference a module content row carries.
type ContentType string

const (
	ContentTypeQuestion ContentType = "question"
	ContentTypeTheory   ContentType = "theory"
)

// ContentTypeChoices lists the accepted chapter content types.
var ContentTypeChoices = []Choice{
	{Value: string(ContentTypeQuestion), Label: "Question"},
	{Value: string(ContentTypeTheory), Label: "Theory"},
}

func (t ContentType) Valid() bool   { return isChoice(ContentTypeChoices, string(t)) }
func (t ContentType) Label() string { return labelOf(ContentTypeChoices, string(t)) }

// CompetitionType decides how competition questions are drawn.
type CompetitionType string

const (
	CompetitionTypeSubject            CompetitionType = "subject"
	CompetitionTypeSubjectWithChapter CompetitionType = "subject_with_chapter"
	CompetitionTypeRandom             CompetitionType = "random"
)

// CompetitionTypeChoices lists the accepted competition types.
var CompetitionTypeChoices = []Choice{
	{Value: string(CompetitionTypeSubject), Label: "Subject"},
	{Value: string(CompetitionTypeSubjectWithChapter), Label: "Subject with Chapter"},
	{Value: string(CompetitionTypeRandom), Label: "Random"},
}

func (t CompetitionType) Valid() bool   { return isChoice(CompetitionTypeChoices, string(t)) }
func (t CompetitionType) Label() string { return labelOf(CompetitionTypeChoices, string(t)) }

// ProgressStatus is shared by competitions and mission or competition progress records.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusDue        ProgressStatus = "due"
	StatusCompleted  ProgressStatus = "completed"
)

// ProgressStatusChoices lists statuses for competitions, missions and their progress.
var ProgressStatusChoices = []Choice{
	{Value: string(StatusNotStarted), Label: "Not Started"},
	{Value: string(StatusInProgress), Label: "In Progress"},
	{Value: string(StatusCompleted), Label: "Completed"},
}

// LearningStatusChoices lists statuses for module and chapter progress, which may fall due.
var LearningStatusChoices = []Choice{
	{Value: string(StatusNotStarted), Label: "Not Started"},
	{Value: string(StatusInProgress), Label: "In Progress"},
	{Value: string(StatusDue), Label: "Due"},
	{Value: string(StatusCompleted), Label: "Completed"},
}

func (s ProgressStatus) Label() string { return labelOf(LearningStatusChoices, string(s)) }
