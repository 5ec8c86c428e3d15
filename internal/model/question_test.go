package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValid(t *testing.T) {
	base := Question{
		ID:           "q1",
		Text:         "Which planet is largest?",
		Options:      []string{"Mars", "Jupiter", "Venus", "Earth"},
		CorrectIndex: 1,
		Explanation:  "Jupiter has the greatest mass and volume.",
	}

	tests := []struct {
		name   string
		mutate func(q *Question)
		want   bool
	}{
		{"well formed", func(q *Question) {}, true},
		{"empty text", func(q *Question) { q.Text = "" }, false},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, false},
		{"five options", func(q *Question) { q.Options = append(q.Options, "Saturn") }, false},
		{"empty option", func(q *Question) { q.Options[2] = "" }, false},
		{"negative index", func(q *Question) { q.CorrectIndex = -1 }, false},
		{"index out of range", func(q *Question) { q.CorrectIndex = 4 }, false},
		{"missing explanation still valid", func(q *Question) { q.Explanation = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			q.Options = append([]string(nil), base.Options...)
			tt.mutate(&q)
			assert.Equal(t, tt.want, q.Valid())
		})
	}
}

func TestQuestionForClient_StripsAnswerKey(t *testing.T) {
	q := Question{
		ID:           "q7",
		Text:         "What does DNA stand for?",
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 2,
		Explanation:  "spelled out in the text",
	}

	client := q.ForClient()
	require.Equal(t, "q7", client.ID)
	assert.Equal(t, q.Text, client.Question)
	assert.Equal(t, q.Options, client.Options)
}

func TestSubmittedAnswerIndex(t *testing.T) {
	two := 2
	assert.Equal(t, 2, SubmittedAnswer{QuestionID: "q1", SelectedAnswer: &two}.Index())
	assert.Equal(t, Unanswered, SubmittedAnswer{QuestionID: "q1"}.Index())
}
