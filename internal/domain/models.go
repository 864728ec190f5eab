package domain

import (
	"time"
)

// Subject identifies a question catalog.
type Subject string

const (
	SubjectMath             Subject = "math"
	SubjectWriting          Subject = "writing"
	SubjectGeneralKnowledge Subject = "general-knowledge"
)

// DefaultSubjects is the order in which daily questions are played.
var DefaultSubjects = []Subject{SubjectMath, SubjectWriting, SubjectGeneralKnowledge}

// Valid reports whether s names a known subject.
func (s Subject) Valid() bool {
	switch s {
	case SubjectMath, SubjectWriting, SubjectGeneralKnowledge:
		return true
	}
	return false
}

// Question models a multiple-choice question with exactly one correct option.
type Question struct {
	ID           string   `json:"id" yaml:"id" validate:"required"`
	Subject      Subject  `json:"subject" yaml:"subject" validate:"required"`
	Text         string   `json:"text" yaml:"text" validate:"required"`
	Options      []string `json:"options" yaml:"options" validate:"min=2,max=6,dive,required"`
	CorrectIndex int      `json:"correctOptionIndex" yaml:"correct" validate:"gte=0"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
}

// IsCorrect reports whether index selects the correct option.
func (q Question) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// Public strips the answer key so the question can be shown before answering.
func (q Question) Public() PublicQuestion {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return PublicQuestion{ID: q.ID, Subject: q.Subject, Text: q.Text, Options: opts}
}

// PublicQuestion is a question without its answer key.
type PublicQuestion struct {
	ID      string   `json:"id"`
	Subject Subject  `json:"subject"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Catalog is the full question bank keyed by subject.
type Catalog map[Subject][]Question

// Size returns the number of questions across subjects.
func (c Catalog) Size() int {
	n := 0
	for _, qs := range c {
		n += len(qs)
	}
	return n
}

// DailyQuestionSet is the deterministic selection for one calendar day.
type DailyQuestionSet struct {
	Date       Day                    `json:"date"`
	Subjects   []Subject              `json:"subjects"`
	PerSubject map[Subject][]Question `json:"perSubject"`
}

// Flatten returns the questions in play order: subject by subject.
func (s DailyQuestionSet) Flatten() []Question {
	out := make([]Question, 0, 9)
	for _, subject := range s.Subjects {
		out = append(out, s.PerSubject[subject]...)
	}
	return out
}

// Progress is the persisted per-user record.
type Progress struct {
	TotalPoints    int `json:"totalPoints"`
	Streak         int `json:"streak"`
	LastPlayedDate Day `json:"lastPlayedDate"`
	DailyBest      int `json:"dailyBest"`
}

// SessionState enumerates engine lifecycle states.
type SessionState string

const (
	StateIdle     SessionState = "idle"
	StateActive   SessionState = "active"
	StateFinished SessionState = "finished"
)

// FinishCause records why a session left the active state.
type FinishCause string

const (
	FinishCompleted FinishCause = "completed"
	FinishExplicit  FinishCause = "finished"
	FinishTimeout   FinishCause = "timeout"
)

// Outcome summarizes a finished session before it is committed.
type Outcome struct {
	SessionID     string      `json:"sessionId"`
	Date          Day         `json:"date"`
	Score         int         `json:"score"`
	Correct       int         `json:"correct"`
	Answered      int         `json:"answered"`
	Total         int         `json:"total"`
	TimeRemaining int         `json:"timeRemaining"`
	Cause         FinishCause `json:"cause"`
	FinishedAt    time.Time   `json:"finishedAt"`
}

// AnswerResult is the feedback for a single submission.
type AnswerResult struct {
	QuestionID   string `json:"questionId"`
	Selected     int    `json:"selected"`
	Correct      bool   `json:"correct"`
	Awarded      int    `json:"awarded"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	Score        int    `json:"score"`
	Duplicate    bool   `json:"duplicate,omitempty"`
}

// Snapshot is a read-only view of the engine for presentation layers.
type Snapshot struct {
	State         SessionState    `json:"state"`
	SessionID     string          `json:"sessionId,omitempty"`
	QuestionIndex int             `json:"questionIndex"`
	Total         int             `json:"total"`
	Score         int             `json:"score"`
	TimeRemaining int             `json:"timeRemaining"`
	Answered      bool            `json:"answered"`
	Question      *PublicQuestion `json:"question,omitempty"`
	LastAnswer    *AnswerResult   `json:"lastAnswer,omitempty"`
	Outcome       *Outcome        `json:"outcome,omitempty"`
}
