package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectAddClassTwice(t *testing.T) {
	subject := NewSubject(Record{"name": "Science", "code": "SCI"})
	subject.AddClass("class-1")
	subject.AddClass("class-1")
	subject.AddClass(map[string]interface{}{"id": "class-1", "name": "6A"})

	assert.Equal(t, []string{"class-1"}, subject.ClassIDs())
	assert.Equal(t, 1, subject.ClassCount())
	assert.True(t, subject.HasClass(NewClass(Record{"id": "class-1"})))

	subject.RemoveClass(Record{"id": "class-1"})
	assert.Equal(t, 0, subject.ClassCount())
}

func TestSubjectSerializesHydratedClassesAsIDs(t *testing.T) {
	subject := NewSubject(Record{
		"name":       "History",
		"code":       "HIS",
		"created_by": map[string]interface{}{"id": "u-1", "username": "teacher"},
		"classes":    []interface{}{map[string]interface{}{"id": "c-1"}, "c-2"},
	})
	out := subject.Serialize()
	assert.Equal(t, []interface{}{"c-1", "c-2"}, out["classes"])
	assert.Equal(t, "u-1", out["created_by"])
	assert.Equal(t, "u-1", subject.CreatedByID())
}

func TestMutatorsTouch(t *testing.T) {
	clock := freezeClock(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	mission := NewMission(Record{"title": "M"})
	created := mission.UpdatedAt

	*clock = clock.Add(time.Hour)
	mission.AddQuestion("q-1")
	assert.Equal(t, *clock, mission.UpdatedAt)

	*clock = clock.Add(time.Hour)
	mission.AddQuestion("q-1")
	assert.Equal(t, created.Add(time.Hour), mission.UpdatedAt)

	mission.Update(Record{"description": "updated"})
	assert.Equal(t, *clock, mission.UpdatedAt)
	assert.Equal(t, "M", mission.Title)
	assert.Equal(t, "updated", mission.Description)
}

func TestMissionDerivedFields(t *testing.T) {
	mission := NewMission(Record{"base_exp": 40, "exp_multiplier": 1.5, "questions": []interface{}{"q-1", "q-2"}})
	assert.Equal(t, 60.0, mission.TotalExp())
	assert.Equal(t, 2, mission.QuestionCount())

	mission.RemoveQuestion("q-1")
	mission.BaseExp = 10
	assert.Equal(t, 1, mission.QuestionCount())
	assert.Equal(t, 15.0, mission.TotalExp())
	assert.False(t, mission.HasQuestion("q-1"))
}

func TestPreviews(t *testing.T) {
	long := strings.Repeat("x", 120)
	theory := NewTheory(Record{"description": long})
	assert.Equal(t, strings.Repeat("x", 100)+"...", theory.DescriptionPreview())

	theory.Description = "short"
	assert.Equal(t, "short", theory.DescriptionPreview())

	q := NewQuestion(Record{"question_text": strings.Repeat("q", 100)})
	assert.Equal(t, strings.Repeat("q", 100), q.ContentPreview())

	c := NewCompetition(Record{"description": long + "y"})
	assert.True(t, strings.HasSuffix(c.DescriptionPreview(), "..."))
}

func TestQuestionOptions(t *testing.T) {
	q := NewQuestion(Record{
		"id":            "q-1",
		"question_text": "Pick primes",
		"question_type": "mcq_multiple",
		"options": []interface{}{
			map[string]interface{}{"option_text": "2", "is_correct": true, "order": 1},
			map[string]interface{}{"option_text": "4", "is_correct": false, "order": 2},
		},
	})
	require.Equal(t, 2, q.OptionCount())
	assert.Equal(t, 1, q.CorrectAnswersCount())
	assert.True(t, q.IsMCQ())

	extra := NewOption(Record{"option_text": "3", "order": 0})
	q.AddOption(extra)
	assert.Equal(t, 3, extra.Order)
	assert.Equal(t, "q-1", extra.QuestionID())

	extra.MarkCorrect()
	assert.Equal(t, 2, q.CorrectAnswersCount())

	q.RemoveOption(extra)
	assert.Equal(t, 2, q.OptionCount())
	assert.Equal(t, 1, q.CorrectAnswersCount())
}

func TestCompetitionParticipants(t *testing.T) {
	c := NewCompetition(Record{"title": "Cup", "code": "CUP"})
	c.AddParticipant("u-1")
	c.AddParticipant(NewUser(Record{"id": "u-2"}))
	c.AddParticipant(map[string]interface{}{"id": "u-1"})
	c.AddQuestion("q-1")

	assert.Equal(t, 2, c.ParticipantCount())
	assert.Equal(t, []string{"u-1", "u-2"}, c.ParticipantIDs())
	assert.Equal(t, 1, c.QuestionCount())
	assert.Equal(t, []interface{}{"u-1", "u-2"}, c.Serialize()["participants"])

	c.RemoveParticipant("u-1")
	assert.False(t, c.HasParticipant("u-1"))
	assert.Equal(t, 1, c.ParticipantCount())

	c.Start()
	assert.Equal(t, StatusInProgress, c.Status)
	c.Complete()
	c.Complete()
	assert.Equal(t, StatusCompleted, c.Status)
}

func TestProgressActionsArePermissive(t *testing.T) {
	clock := freezeClock(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	p := NewUserMissionProgress(Record{"user": "u", "mission": "m"})
	p.Complete(50)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, *clock, p.CompletedAt)

	*clock = clock.Add(time.Minute)
	p.Complete(70)
	assert.Equal(t, 70, p.ExpEarned)
	assert.Equal(t, *clock, p.CompletedAt)

	p.Start()
	assert.Equal(t, StatusInProgress, p.Status)
	assert.Equal(t, *clock, p.StartedAt)

	cp := NewUserCompetitionProgress(Record{"user": "u", "competition": "c"})
	cp.AddScore(5)
	cp.AddScore(3)
	cp.Complete(cp.Score, 120, 20)
	assert.Equal(t, 8, cp.Score)
	assert.Equal(t, 120, cp.TimeTaken)
	assert.True(t, cp.IsCompleted())
}

func TestLearningProgressPercentage(t *testing.T) {
	p := NewUserModuleProgress(Record{"user": "u", "module": "m"})
	p.Start()
	p.UpdatePercentage(60)
	assert.Equal(t, StatusInProgress, p.Status)

	p.MarkDue()
	assert.True(t, p.IsOverdue())

	p.UpdatePercentage(100)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.False(t, p.IsOverdue())
	assert.False(t, p.CompletedAt.IsZero())

	loaded := NewUserChapterProgress(Record{"status": "in_progress", "percentage": 100})
	assert.Equal(t, StatusCompleted, loaded.Status)

	fresh := NewUserChapterProgress(Record{})
	fresh.Complete()
	assert.Equal(t, 100.0, fresh.Percentage)
	assert.True(t, fresh.IsCompleted())
}

func TestUserHelpers(t *testing.T) {
	u := NewUser(Record{"username": "meera", "first_name": "Meera", "last_name": " Rao ", "level": Record{"id": "lvl-1"}})
	assert.Equal(t, "Meera Rao", u.FullName())
	assert.Equal(t, "lvl-1", u.LevelID())
	assert.True(t, u.IsStudent())

	u.AddExperience(30)
	u.AddRewards(2)
	u.SetLevel("lvl-2")
	assert.Equal(t, 30, u.TotalExp)
	assert.Equal(t, 2, u.Rewards)
	assert.Equal(t, "lvl-2", u.Serialize()["level"])

	anon := NewUser(Record{"username": "ghost"})
	assert.Equal(t, "ghost", anon.FullName())
}

func TestChoiceLabels(t *testing.T) {
	assert.Equal(t, "Short Answer", QuestionTypeShortAnswer.Label())
	assert.Equal(t, "Subject with Chapter", CompetitionTypeSubjectWithChapter.Label())
	assert.Equal(t, "Due", StatusDue.Label())
	assert.Equal(t, "weird", DifficultyLevel("weird").Label())
	assert.True(t, UserTypeTeacher.Valid())
	assert.False(t, ContentType("video").Valid())
}

func sample(kind Kind) Record {
	samples := map[Kind]Record{
		KindSchool:  {"id": "s-1", "name": "North", "email": "a@b.co", "is_active": false},
		KindLevel:   {"id": "l-1", "name": 3, "min_exp": 10, "max_exp": 20},
		KindUser:    {"id": "u-1", "username": "x", "school": map[string]interface{}{"id": "s-1"}, "student_class": "c-1", "total_exp": 12, "level": 7},
		KindClass:   {"id": "c-1", "name": "7A", "school": "s-1"},
		KindSubject: {"id": "sub-1", "name": "Maths", "code": "M", "classes": []interface{}{"c-1", map[string]interface{}{"id": "c-2"}}},
		KindModule:  {"id": "m-1", "name": "Algebra", "subject": "sub-1", "order": 2, "is_enabled": false},
		KindModuleChapter: {
			"id": "ch-1", "title": "Linear", "module": "m-1", "is_important": true,
			"is_deleted": true, "deleted_at": "2024-01-01T00:00:00Z",
		},
		KindModuleContent: {"id": "mc-1", "chapter": "ch-1", "content_type": "theory", "theory": "t-1"},
		KindQuestion: {
			"id": "q-1", "question_text": "?", "difficulty_level": "hard",
			"options": []interface{}{map[string]interface{}{"id": "o-1", "option_text": "A", "question": "q-1"}},
		},
		KindOption:              {"id": "o-1", "option_text": "A", "question": "q-1", "is_correct": true},
		KindTheory:              {"id": "t-1", "title": "T", "description": "D"},
		KindMission:             {"id": "mi-1", "title": "W1", "date": "2024-06-01", "exp_multiplier": 2.5, "class": "c-1", "questions": []interface{}{"q-1"}},
		KindMissionQuestion:     {"id": "mq-1", "mission": "mi-1", "question": "q-1", "order": 3},
		KindUserMissionProgress: {"id": "ump-1", "user": "u-1", "mission": "mi-1", "status": "in_progress", "started_at": "2024-06-01T08:00:00Z"},
		KindCompetition: {
			"id": "co-1", "title": "Cup", "code": "CUP", "competition_type": "subject_with_chapter",
			"subject": "sub-1", "chapter": "ch-1", "participants": []interface{}{"u-1"},
		},
		KindCompetitionQuestion:     {"id": "cq-1", "competition": "co-1", "question": "q-1", "points": 5},
		KindUserCompetitionProgress: {"id": "ucp-1", "user": "u-1", "competition": "co-1", "score": 9, "completed_at": "2024-06-02T09:00:00.5Z"},
		KindUserModuleProgress:      {"id": "umo-1", "user": "u-1", "module": "m-1", "percentage": 42.5, "status": "due"},
		KindUserChapterProgress:     {"id": "uch-1", "user": "u-1", "chapter": "ch-1", "current_question": "q-1"},
	}
	return samples[kind]
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		rec := sample(kind)
		require.NotNil(t, rec, kind)

		original, err := New(kind, rec)
		require.NoError(t, err)
		first := original.Serialize()

		rebuilt, err := New(kind, first)
		require.NoError(t, err)
		assert.Equal(t, first, rebuilt.Serialize(), kind)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		original, err := New(kind, sample(kind))
		require.NoError(t, err)

		raw, err := json.Marshal(original)
		require.NoError(t, err)

		rec, err := ParseRecord(raw)
		require.NoError(t, err)
		rebuilt, err := New(kind, rec)
		require.NoError(t, err)

		again, err := json.Marshal(rebuilt)
		require.NoError(t, err)
		assert.JSONEq(t, string(raw), string(again), kind)
	}
}

func TestUnmarshalJSONIntoEntity(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q-5","question_text":"Hi","exp_points":"15"}`), &q))
	assert.Equal(t, "q-5", q.ID)
	assert.Equal(t, 15, q.ExpPoints)
	assert.Equal(t, DifficultyMedium, q.Difficulty)

	var s School
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
}

func TestRegistryUnknownKind(t *testing.T) {
	_, err := New("teacher_attendance", Record{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teacher_attendance")
	assert.False(t, Has("teacher_attendance"))
	assert.True(t, Has(KindMission))
	assert.Len(t, Kinds(), 19)
}
