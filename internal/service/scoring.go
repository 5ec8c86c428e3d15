package service

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/quizdeck-backend/internal/model"
)

// scoreSubmission grades a submission against the bank's answer key. It is
// a pure function of its inputs: answers are matched to questions by ID so
// ordering in the payload never affects the result, and any question of
// the active instance with no answer entry (or a nil selection) counts as
// wrong with userAnswer recorded as the unanswered sentinel.
func scoreSubmission(
	bank *model.QuestionBank,
	answers []model.SubmittedAnswer,
	timeSpent int,
	now time.Time,
) *model.Result {
	byID := make(map[string]int, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Index()
	}

	instance := bank.Instance
	details := make([]model.AnswerDetail, 0, instance.Count)
	correct := 0

	for _, qid := range instance.QuestionIDs {
		q, ok := bank.QuestionByID(qid)
		if !ok {
			continue
		}

		selected, answered := byID[qid]
		if !answered {
			selected = model.Unanswered
		}

		isCorrect := selected == q.CorrectIndex
		if isCorrect {
			correct++
		}

		details = append(details, model.AnswerDetail{
			QuestionID:    q.ID,
			Question:      q.Text,
			Options:       q.Options,
			UserAnswer:    selected,
			CorrectAnswer: q.CorrectIndex,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	total := len(details)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return &model.Result{
		ID:             uuid.New(),
		UserID:         bank.OwnerID,
		FileName:       bank.FileName,
		TotalQuestions: total,
		CorrectAnswers: correct,
		WrongAnswers:   total - correct,
		Percentage:     percentage,
		TimeSpent:      timeSpent,
		CompletedAt:    now,
		Details:        details,
	}
}
