package model

import (
	"time"
)

// SessionState enumerates the per-session state machine. Instance
// selection and serving happen in one operation, so a started session
// moves straight from GENERATED to IN_PROGRESS.
type SessionState string

const (
	SessionStateGenerated  SessionState = "GENERATED"
	SessionStateInProgress SessionState = "IN_PROGRESS"
	SessionStateSubmitted  SessionState = "SUBMITTED"
)

// QuizInstance is the specific subset and ordering of questions served for
// one attempt. At most one instance is active per session, so it lives
// inside the bank record rather than in its own store.
type QuizInstance struct {
	QuestionIDs     []string  `json:"question_ids"`
	Count           int       `json:"count"`
	TimePerQuestion int       `json:"time_per_question"`
	SelectedAt      time.Time `json:"selected_at"`
}

// QuestionBank is the full set of questions generated from one document,
// plus provenance metadata. Read-only after creation; the session store is
// its sole owner and the only component permitted to evict it.
type QuestionBank struct {
	SessionID   string        `json:"session_id"`
	OwnerID     string        `json:"owner_id"`
	FileName    string        `json:"file_name"`
	FileSize    int64         `json:"file_size"`
	GeneratedAt time.Time     `json:"generated_at"`
	Questions   []Question    `json:"questions"`
	State       SessionState  `json:"state"`
	Instance    *QuizInstance `json:"instance,omitempty"`
}

// QuestionByID looks up a bank question by identifier.
func (b *QuestionBank) QuestionByID(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
