package model

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// Unanswered is the sentinel answer index meaning the user skipped a question.
const Unanswered = -1

// Question is the atomic unit of assessment. Immutable once created and
// owned exclusively by its QuestionBank.
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Valid reports whether the question satisfies the bank invariant:
// non-empty text, exactly four options, and an in-range correct index.
func (q Question) Valid() bool {
	if q.Text == "" || len(q.Options) != OptionCount {
		return false
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	return true
}

// QuestionForClient is a question with the answer key stripped.
// This is the only question shape that crosses the trust boundary before
// submission.
type QuestionForClient struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ForClient strips the correct index and explanation for serving.
func (q Question) ForClient() QuestionForClient {
	return QuestionForClient{
		ID:       q.ID,
		Question: q.Text,
		Options:  q.Options,
	}
}
