package service

import (
	"strings"
	"testing"
)

func TestBuildGenerationPrompt(t *testing.T) {
	prompt := buildGenerationPrompt("The cell membrane is selectively permeable.", 100)

	if !strings.Contains(prompt, "exactly 100 multiple-choice questions") {
		t.Errorf("target count missing from prompt")
	}
	if !strings.Contains(prompt, "selectively permeable") {
		t.Errorf("document text missing from prompt")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncated", "hello world", 5, "hello"},
		{"zero max passes through", "hello", 0, "hello"},
		{"multibyte boundary", "héllо wörld", 4, "héll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.max); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
