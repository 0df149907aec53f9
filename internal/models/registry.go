package models

import (
	"fmt"
	"sort"
)

// Kind names an entity type as it appears in URLs and persisted rows.
type Kind string

const (
	KindSchool                  Kind = "school"
	KindLevel                   Kind = "level"
	KindUser                    Kind = "user"
	KindClass                   Kind = "class"
	KindSubject                 Kind = "subject"
	KindModule                  Kind = "module"
	KindModuleChapter           Kind = "module_chapter"
	KindModuleContent           Kind = "module_content"
	KindQuestion                Kind = "question"
	KindOption                  Kind = "option"
	KindTheory                  Kind = "theory"
	KindMission                 Kind = "mission"
	KindMissionQuestion         Kind = "mission_question"
	KindUserMissionProgress     Kind = "user_mission_progress"
	KindCompetition             Kind = "competition"
	KindCompetitionQuestion     Kind = "competition_question"
	KindUserCompetitionProgress Kind = "user_competition_progress"
	KindUserModuleProgress      Kind = "user_module_progress"
	KindUserChapterProgress     Kind = "user_chapter_progress"
)

// Constructor builds an entity from a loose record.
type Constructor func(Record) Entity

// Registry maps every entity kind to its constructor.
var Registry = map[Kind]Constructor{
	KindSchool:                  func(r Record) Entity { return NewSchool(r) },
	KindLevel:                   func(r Record) Entity { return NewLevel(r) },
	KindUser:                    func(r Record) Entity { return NewUser(r) },
	KindClass:                   func(r Record) Entity { return NewClass(r) },
	KindSubject:                 func(r Record) Entity { return NewSubject(r) },
	KindModule:                  func(r Record) Entity { return NewModule(r) },
	KindModuleChapter:           func(r Record) Entity { return NewModuleChapter(r) },
	KindModuleContent:           func(r Record) Entity { return NewModuleContent(r) },
	KindQuestion:                func(r Record) Entity { return NewQuestion(r) },
	KindOption:                  func(r Record) Entity { return NewOption(r) },
	KindTheory:                  func(r Record) Entity { return NewTheory(r) },
	KindMission:                 func(r Record) Entity { return NewMission(r) },
	KindMissionQuestion:         func(r Record) Entity { return NewMissionQuestion(r) },
	KindUserMissionProgress:     func(r Record) Entity { return NewUserMissionProgress(r) },
	KindCompetition:             func(r Record) Entity { return NewCompetition(r) },
	KindCompetitionQuestion:     func(r Record) Entity { return NewCompetitionQuestion(r) },
	KindUserCompetitionProgress: func(r Record) Entity { return NewUserCompetitionProgress(r) },
	KindUserModuleProgress:      func(r Record) Entity { return NewUserModuleProgress(r) },
	KindUserChapterProgress:     func(r Record) Entity { return NewUserChapterProgress(r) },
}

// ErrUnknownKind is returned by New for kinds missing from the registry.
type ErrUnknownKind struct {
	Kind Kind
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown entity kind %q", string(e.Kind))
}

// New builds an entity of the given kind.
func New(kind Kind, r Record) (Entity, error) {
	ctor, ok := Registry[kind]
	if !ok {
		return nil, ErrUnknownKind{Kind: kind}
	}
	if r == nil {
		r = Record{}
	}
	return ctor(r), nil
}

// Has reports whether kind is registered.
func Has(kind Kind) bool {
	_, ok := Registry[kind]
	return ok
}

// Kinds returns every registered kind, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(Registry))
	for k := range Registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IsSoftDeletable reports whether entities of kind carry a tombstone.
func IsSoftDeletable(kind Kind) bool {
	e, err := New(kind, nil)
	if err != nil {
		return false
	}
	_, ok := e.(SoftDeletable)
	return ok
}
