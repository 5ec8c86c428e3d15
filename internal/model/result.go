package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerDetail is one row of the per-question breakdown stored in a Result.
// The correct index and explanation are safe to reveal here: the session is
// terminal by the time a Result exists.
type AnswerDetail struct {
	QuestionID    string   `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	UserAnswer    int      `json:"userAnswer"` // Unanswered (-1) if skipped
	CorrectAnswer int      `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Explanation   string   `json:"explanation"`
}

// Result is the durable, immutable record of one completed attempt.
// Created exactly once per submission; never updated.
type Result struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"user_id"`
	FileName       string         `json:"fileName"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	WrongAnswers   int            `json:"wrongAnswers"`
	Percentage     int            `json:"percentage"`
	TimeSpent      int            `json:"timeSpent"` // seconds
	CompletedAt    time.Time      `json:"completedAt"`
	Details        []AnswerDetail `json:"detailedAnswers"`
}

// ResultSummary is the compact history-listing view of a Result.
type ResultSummary struct {
	ID             uuid.UUID `json:"id"`
	FileName       string    `json:"fileName"`
	CompletedAt    time.Time `json:"completedAt"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	TimeSpent      int       `json:"timeSpent"`
}

// Statistics are the per-user aggregates computed over stored Results.
type Statistics struct {
	TotalQuizzes int `json:"totalQuizzes"`
	AverageScore int `json:"averageScore"`
	BestScore    int `json:"bestScore"`
}
