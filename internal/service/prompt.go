package service

import (
	"fmt"
	"strings"
)

// generationSystemPrompt pins the model to the quiz-writing role and the
// grounding rule: questions must come from the supplied text only.
const generationSystemPrompt = `You are a quiz author for a study platform.
You write multiple-choice questions that test understanding of a document.
Rules you must follow exactly:
- Base every question strictly on the supplied document text. Never use outside knowledge.
- Every question has exactly 4 answer options and exactly one correct option.
- correctIndex is the zero-based index of the correct option.
- Each question includes a short explanation of why the correct option is correct, grounded in the document.
- Cover as much of the document as possible; do not cluster questions on one section.
- Output JSON only, matching the requested schema. No prose, no markdown.`

// buildGenerationPrompt renders the user-turn instruction for a target
// question count over the given document text.
func buildGenerationPrompt(text string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create exactly %d multiple-choice questions from the document below.\n", count)
	b.WriteString("If the document does not support that many distinct questions, produce as many well-grounded questions as it supports.\n\n")
	b.WriteString("DOCUMENT:\n")
	b.WriteString(text)
	return b.String()
}

// truncateRunes bounds s to at most max runes, cutting at a rune boundary.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
