package service

import (
	"github.com/studyhall/quizdeck-backend/internal/llm"
	"github.com/studyhall/quizdeck-backend/internal/model"
)

// generatedQuestion is the wire shape one question takes in the model
// response, before validation into model.Question.
type generatedQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// generatedBank is the full model response shape.
type generatedBank struct {
	Questions []generatedQuestion `json:"questions"`
}

// questionBankSchema constrains model output to the question-bank shape.
// Per-question invariants (exactly four options, in-range correct index)
// are still re-checked in Go: schema conformance is necessary, not trusted.
var questionBankSchema = &llm.Schema{
	Name:        "question-bank",
	Description: "A bank of four-option multiple-choice questions grounded in a document",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"question", "options", "correctIndex", "explanation"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": model.OptionCount,
							"maxItems": model.OptionCount,
						},
						"correctIndex": map[string]any{
							"type":    "integer",
							"minimum": 0,
							"maximum": model.OptionCount - 1,
						},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}
