package model

// Wire shapes for the quiz endpoints. Field names follow the external
// contract (camelCase) rather than the internal snake_case convention.

// GenerateResponse is the payload returned after a successful bank generation.
type GenerateResponse struct {
	SessionID      string `json:"sessionId"`
	FileName       string `json:"fileName"`
	FileSize       int64  `json:"fileSize"`
	TotalQuestions int    `json:"totalQuestions"`
}

// StartQuizRequest commits the user to an attempt of a given size.
type StartQuizRequest struct {
	SessionID         string `json:"sessionId" binding:"required,uuid"`
	NumberOfQuestions int    `json:"numberOfQuestions" binding:"required,oneof=30 60 90 100"`
}

// StartQuizResponse serves the selected instance with the answer key stripped.
type StartQuizResponse struct {
	SessionID       string              `json:"sessionId"`
	FileName        string              `json:"fileName"`
	Questions       []QuestionForClient `json:"questions"`
	TotalQuestions  int                 `json:"totalQuestions"`
	TimePerQuestion int                 `json:"timePerQuestion"`
}

// SubmittedAnswer is one answer in a submission. A nil SelectedAnswer (or an
// explicit -1) means the question was left unanswered.
type SubmittedAnswer struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedAnswer *int   `json:"selectedAnswer"`
}

// Index normalizes the selected answer to an option index or Unanswered.
func (a SubmittedAnswer) Index() int {
	if a.SelectedAnswer == nil {
		return Unanswered
	}
	return *a.SelectedAnswer
}

// SubmitQuizRequest is the full answer set for one attempt.
type SubmitQuizRequest struct {
	SessionID string            `json:"sessionId" binding:"required,uuid"`
	Answers   []SubmittedAnswer `json:"answers" binding:"dive"`
	TimeSpent int               `json:"timeSpent" binding:"min=0"`
}

// SubmitQuizResponse is the scored outcome returned to the client.
type SubmitQuizResponse struct {
	ResultID        string         `json:"resultId"`
	TotalQuestions  int            `json:"totalQuestions"`
	CorrectAnswers  int            `json:"correctAnswers"`
	WrongAnswers    int            `json:"wrongAnswers"`
	Percentage      int            `json:"percentage"`
	TimeSpent       int            `json:"timeSpent"`
	DetailedAnswers []AnswerDetail `json:"detailedAnswers"`
}

// HistoryResponse combines the listing and aggregates for one user.
type HistoryResponse struct {
	Results    []ResultSummary `json:"results"`
	Statistics Statistics      `json:"statistics"`
}
