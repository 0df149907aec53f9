package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValidationScenario(t *testing.T) {
	result := NewQuestion(Record{"question_text": "", "exp_points": -5}).Validate()

	assert.False(t, result.IsValid)
	assert.Equal(t, map[string]string{
		"question_text": "Question text is required",
		"exp_points":    "Experience points must be non-negative",
	}, result.Errors)
}

func TestQuestionTypeRejection(t *testing.T) {
	q := NewQuestion(Record{"question_text": "2 + 2?"})
	q.Type = "essay"
	result := q.Validate()
	require.False(t, result.IsValid)
	assert.Equal(t, "Invalid question type", result.Errors["question_type"])

	q.Type = ""
	assert.Equal(t, "Question type is required", q.Validate().Errors["question_type"])

	q.Type = QuestionTypeShortAnswer
	assert.True(t, q.Validate().IsValid)
}

func TestRequiredStringsTrim(t *testing.T) {
	subject := NewSubject(Record{"name": "   ", "code": "MATH"})
	result := subject.Validate()
	assert.Equal(t, "Subject name is required", result.Errors["name"])
	assert.Equal(t, "   ", subject.Name)

	subject.Name = " Maths "
	assert.True(t, subject.Validate().IsValid)
	assert.Equal(t, " Maths ", subject.Serialize()["name"])
}

func TestSubjectLengthLimits(t *testing.T) {
	subject := NewSubject(Record{"name": strings.Repeat("a", 101), "code": "ABCDEFGHIJK"})
	result := subject.Validate()
	assert.Equal(t, "Subject name must be 100 characters or less", result.Errors["name"])
	assert.Equal(t, "Subject code must be 10 characters or less", result.Errors["code"])

	subject.Name = strings.Repeat("é", 100)
	subject.Code = "ABCDEFGHIJ"
	assert.True(t, subject.Validate().IsValid)
}

func TestLevelMinGreaterThanMax(t *testing.T) {
	result := NewLevel(Record{"name": 5, "min_exp": 100, "max_exp": 50}).Validate()
	assert.False(t, result.IsValid)
	assert.Equal(t, map[string]string{
		"min_exp": "Minimum experience cannot be greater than maximum experience",
	}, result.Errors)
}

func TestLevelContains(t *testing.T) {
	level := NewLevel(Record{"name": 2, "min_exp": 100, "max_exp": 199})
	assert.True(t, level.Validate().IsValid)
	assert.True(t, level.Contains(100))
	assert.True(t, level.Contains(199))
	assert.False(t, level.Contains(200))
	assert.Equal(t, 99, level.ExpRange())
}

func TestOrderAtLeastOne(t *testing.T) {
	module := NewModule(Record{"name": "Algebra", "subject": "sub-1", "order": 0})
	assert.Equal(t, "Order must be at least 1", module.Validate().Errors["order"])

	module.Order = -3
	assert.Equal(t, "Order must be at least 1", module.Validate().Errors["order"])

	module.Order = 1 << 30
	assert.True(t, module.Validate().IsValid)
}

func TestUserRollNumberRules(t *testing.T) {
	student := NewUser(Record{"username": "asha", "email": "asha@example.com"})
	assert.Equal(t, "Roll number is required for students", student.Validate().Errors["roll_number"])

	student.RollNumber = "R-12"
	assert.True(t, student.Validate().IsValid)

	teacher := NewUser(Record{"username": "ravi", "email": "ravi@example.com", "user_type": "teacher", "roll_number": "R-1"})
	assert.Equal(t, "Roll number is only allowed for students", teacher.Validate().Errors["roll_number"])

	teacher.RollNumber = ""
	assert.True(t, teacher.Validate().IsValid)
}

func TestUserEmailAndCounters(t *testing.T) {
	u := NewUser(Record{"username": "x", "email": "not-an-email", "user_type": "admin", "total_exp": -1, "rewards": -2})
	result := u.Validate()
	assert.Equal(t, "Enter a valid email address", result.Errors["email"])
	assert.Equal(t, "Total experience must be non-negative", result.Errors["total_exp"])
	assert.Equal(t, "Rewards must be non-negative", result.Errors["rewards"])

	u.Email = ""
	assert.Equal(t, "Email is required", u.Validate().Errors["email"])

	u.UserType = "parent"
	assert.Equal(t, "Invalid user type", u.Validate().Errors["user_type"])
}

func TestSchoolOptionalContactFields(t *testing.T) {
	school := NewSchool(Record{"name": "Hill Top"})
	assert.True(t, school.Validate().IsValid)

	school.Email = "office@"
	school.Website = "not a url"
	result := school.Validate()
	assert.Equal(t, "Enter a valid email address", result.Errors["email"])
	assert.Equal(t, "Enter a valid URL", result.Errors["website"])

	school.Email = "office@hilltop.edu"
	school.Website = "https://hilltop.edu"
	assert.True(t, school.Validate().IsValid)

	school.Name = strings.Repeat("s", 201)
	assert.Equal(t, "School name must be 200 characters or less", school.Validate().Errors["name"])
}

func TestClassRequiresSchool(t *testing.T) {
	result := NewClass(Record{"name": "7B"}).Validate()
	assert.Equal(t, map[string]string{"school": "School is required"}, result.Errors)

	assert.True(t, NewClass(Record{"name": "7B", "school": map[string]interface{}{"id": "s-1"}}).Validate().IsValid)
}

func TestCompetitionChapterRequirement(t *testing.T) {
	base := Record{"title": "Spring Quiz", "code": "SQ24", "chapter": nil}

	withChapter := NewCompetition(base.Merge(Record{"competition_type": "subject_with_chapter"}))
	assert.Equal(t, "Chapter is required for subject with chapter competitions", withChapter.Validate().Errors["chapter"])

	bySubject := NewCompetition(base.Merge(Record{"competition_type": "subject"}))
	result := bySubject.Validate()
	assert.False(t, result.Has("chapter"))
	assert.True(t, result.IsValid)

	bySubject.Chapter = RefID("ch-1")
	assert.True(t, bySubject.Validate().IsValid, "a leftover chapter does not block a subject competition")

	withChapter.Chapter = RefID("ch-1")
	assert.True(t, withChapter.Validate().IsValid)
}

func TestCompetitionNumericAndEnums(t *testing.T) {
	c := NewCompetition(Record{"title": "T", "code": "C", "total_time": 0, "status": "paused", "competition_type": "league"})
	result := c.Validate()
	assert.Equal(t, "Total time must be at least 1", result.Errors["total_time"])
	assert.Equal(t, "Invalid status", result.Errors["status"])
	assert.Equal(t, "Invalid competition type", result.Errors["competition_type"])
	assert.False(t, result.Has("chapter"))
}

func TestModuleContentExclusivity(t *testing.T) {
	content := NewModuleContent(Record{"chapter": "ch-1", "content_type": "question", "question": "q-1", "theory": "t-1"})
	assert.Equal(t, "Theory must be empty for question content", content.Validate().Errors["theory"])

	content.SetTheory("t-2")
	assert.Equal(t, ContentTypeTheory, content.ContentType)
	assert.True(t, content.Question.IsZero())
	assert.Equal(t, "t-2", content.ContentID())
	assert.True(t, content.Validate().IsValid)

	content.SetQuestion(Record{"id": "q-9"})
	assert.True(t, content.Theory.IsZero())
	assert.Equal(t, "q-9", content.QuestionID())
	assert.True(t, content.Validate().IsValid)

	missing := NewModuleContent(Record{"chapter": "ch-1", "content_type": "theory"})
	assert.Equal(t, "Theory is required for theory content", missing.Validate().Errors["theory"])

	bad := NewModuleContent(Record{"chapter": "ch-1", "content_type": "video"})
	assert.Equal(t, "Invalid content type", bad.Validate().Errors["content_type"])
}

func TestOptionAndTheoryRules(t *testing.T) {
	opt := NewOption(Record{"option_text": strings.Repeat("o", 501), "order": 0})
	result := opt.Validate()
	assert.Equal(t, "Option text must be 500 characters or less", result.Errors["option_text"])
	assert.Equal(t, "Order must be at least 1", result.Errors["order"])
	assert.Equal(t, "Question is required", result.Errors["question"])

	theory := NewTheory(Record{"title": "Photosynthesis"})
	assert.Equal(t, map[string]string{"description": "Description is required"}, theory.Validate().Errors)
}

func TestMissionRules(t *testing.T) {
	m := NewMission(Record{"title": "Week 1", "exp_multiplier": -1, "base_exp": -10})
	result := m.Validate()
	assert.Equal(t, "Mission date is required", result.Errors["date"])
	assert.Equal(t, "Experience multiplier must be non-negative", result.Errors["exp_multiplier"])
	assert.Equal(t, "Base experience must be non-negative", result.Errors["base_exp"])
	assert.Equal(t, "Class is required", result.Errors["class"])

	ok := NewMission(Record{"title": "Week 1", "date": "2024-06-01", "class": "c-1"})
	assert.True(t, ok.Validate().IsValid)
}

func TestJoinEntityRules(t *testing.T) {
	mq := NewMissionQuestion(Record{"order": 0}).Validate()
	assert.Len(t, mq.Errors, 3)

	cq := NewCompetitionQuestion(Record{"competition": "c", "question": "q", "points": 0}).Validate()
	assert.Equal(t, map[string]string{"points": "Points must be at least 1"}, cq.Errors)

	ucp := NewUserCompetitionProgress(Record{"user": "u", "competition": "c", "score": -1, "time_taken": -1, "exp_earned": -1}).Validate()
	assert.Equal(t, "Score must be non-negative", ucp.Errors["score"])
	assert.Equal(t, "Time taken must be non-negative", ucp.Errors["time_taken"])
	assert.Equal(t, "Experience earned must be non-negative", ucp.Errors["exp_earned"])

	ump := NewUserMissionProgress(Record{"user": "u", "mission": "m", "status": "due"}).Validate()
	assert.Equal(t, "Invalid status", ump.Errors["status"])
}

func TestLearningProgressRules(t *testing.T) {
	p := NewUserChapterProgress(Record{"user": "u", "chapter": "ch", "percentage": -5})
	assert.Equal(t, "Percentage must be between 0 and 100", p.Validate().Errors["percentage"])

	p.Percentage = 150
	assert.Equal(t, "Percentage must be between 0 and 100", p.Validate().Errors["percentage"])

	due := NewUserModuleProgress(Record{"user": "u", "module": "m", "status": "due"})
	assert.True(t, due.Validate().IsValid)

	missing := NewUserModuleProgress(Record{}).Validate()
	assert.Equal(t, "Module is required", missing.Errors["module"])
	assert.Equal(t, "User is required", missing.Errors["user"])
}

func TestValidationDoesNotRunOnConstruction(t *testing.T) {
	assert.NotPanics(t, func() {
		for kind := range Registry {
			e, err := New(kind, Record{"order": -1, "name": nil})
			require.NoError(t, err)
			e.Update(Record{"title": ""})
		}
	})
}
