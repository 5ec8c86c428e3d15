package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/model"
	"github.com/studyhall/quizdeck-backend/internal/store"
)

// fakeResultStore is an in-memory ResultStore for service tests.
type fakeResultStore struct {
	created []*model.Result
	failing bool
}

func (f *fakeResultStore) Create(_ context.Context, result *model.Result) error {
	if f.failing {
		return errors.New("db down")
	}
	f.created = append(f.created, result)
	return nil
}

func (f *fakeResultStore) GetByID(_ context.Context, userID string, id uuid.UUID) (*model.Result, error) {
	for _, r := range f.created {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeResultStore) ListByUser(_ context.Context, userID string, limit, offset int) ([]model.ResultSummary, int, error) {
	var all []model.ResultSummary
	for _, r := range f.created {
		if r.UserID != userID {
			continue
		}
		all = append(all, model.ResultSummary{
			ID:             r.ID,
			FileName:       r.FileName,
			CompletedAt:    r.CompletedAt,
			TotalQuestions: r.TotalQuestions,
			Percentage:     r.Percentage,
			TimeSpent:      r.TimeSpent,
		})
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeResultStore) StatsByUser(_ context.Context, userID string) (*model.Statistics, error) {
	stats := &model.Statistics{}
	sum := 0
	for _, r := range f.created {
		if r.UserID != userID {
			continue
		}
		stats.TotalQuizzes++
		sum += r.Percentage
		if r.Percentage > stats.BestScore {
			stats.BestScore = r.Percentage
		}
	}
	if stats.TotalQuizzes > 0 {
		stats.AverageScore = sum / stats.TotalQuizzes
	}
	return stats, nil
}

func newQuizFixture(t *testing.T, questionCount int) (*QuizService, *store.MemoryBankStore, *fakeResultStore, *model.QuestionBank) {
	t.Helper()

	banks := store.NewMemoryBankStore(time.Minute)
	results := &fakeResultStore{}
	svc := NewQuizService(banks, results, 60, zerolog.Nop())

	bank := bankWithQuestions(questionCount)
	bank.State = model.SessionStateGenerated
	bank.Instance = nil
	if err := banks.Put(context.Background(), bank); err != nil {
		t.Fatalf("seed bank: %v", err)
	}
	return svc, banks, results, bank
}

func TestStartQuiz_SelectsInstance(t *testing.T) {
	svc, banks, _, bank := newQuizFixture(t, 100)

	resp, err := svc.StartQuiz(context.Background(), "alice", &model.StartQuizRequest{
		SessionID:         bank.SessionID,
		NumberOfQuestions: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TotalQuestions != 30 || len(resp.Questions) != 30 {
		t.Fatalf("got %d questions, want 30", len(resp.Questions))
	}
	if resp.TimePerQuestion != 60 {
		t.Errorf("timePerQuestion = %d, want 60", resp.TimePerQuestion)
	}

	stored, err := banks.Get(context.Background(), "alice", bank.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.State != model.SessionStateInProgress {
		t.Errorf("state = %q, want IN_PROGRESS", stored.State)
	}
	if stored.Instance == nil || stored.Instance.Count != 30 {
		t.Errorf("instance not persisted: %+v", stored.Instance)
	}
}

func TestStartQuiz_ClampsToBankSize(t *testing.T) {
	svc, _, _, bank := newQuizFixture(t, 45)

	resp, err := svc.StartQuiz(context.Background(), "alice", &model.StartQuizRequest{
		SessionID:         bank.SessionID,
		NumberOfQuestions: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalQuestions != 45 {
		t.Errorf("total = %d, want 45 (clamped)", resp.TotalQuestions)
	}
}

func TestStartQuiz_StripsAnswerKey(t *testing.T) {
	svc, _, _, bank := newQuizFixture(t, 30)

	resp, err := svc.StartQuiz(context.Background(), "alice", &model.StartQuizRequest{
		SessionID:         bank.SessionID,
		NumberOfQuestions: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, q := range resp.Questions {
		if q.ID == "" || q.Question == "" || len(q.Options) != 4 {
			t.Fatalf("malformed client question: %+v", q)
		}
	}
}

func TestStartQuiz_RestartReplacesInstance(t *testing.T) {
	svc, banks, _, bank := newQuizFixture(t, 100)
	ctx := context.Background()

	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 90}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30}); err != nil {
		t.Fatalf("second start: %v", err)
	}

	stored, _ := banks.Get(ctx, "alice", bank.SessionID)
	if stored.Instance.Count != 30 {
		t.Errorf("instance count = %d, want 30 after replacement", stored.Instance.Count)
	}
}

func TestStartQuiz_ForeignSessionForbidden(t *testing.T) {
	svc, _, _, bank := newQuizFixture(t, 30)

	_, err := svc.StartQuiz(context.Background(), "mallory", &model.StartQuizRequest{
		SessionID:         bank.SessionID,
		NumberOfQuestions: 30,
	})
	if !errors.Is(err, store.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestStartQuiz_UnknownSessionNotFound(t *testing.T) {
	svc, _, _, _ := newQuizFixture(t, 30)

	_, err := svc.StartQuiz(context.Background(), "alice", &model.StartQuizRequest{
		SessionID:         uuid.New().String(),
		NumberOfQuestions: 30,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSubmitQuiz_FullFlow(t *testing.T) {
	svc, banks, results, bank := newQuizFixture(t, 30)
	ctx := context.Background()

	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30}); err != nil {
		t.Fatalf("start: %v", err)
	}

	fresh, _ := banks.Get(ctx, "alice", bank.SessionID)
	answers := make([]model.SubmittedAnswer, 0, 30)
	for i, id := range fresh.Instance.QuestionIDs {
		answers = append(answers, answerFor(fresh, id, i%2 == 0))
	}

	result, err := svc.SubmitQuiz(ctx, "alice", &model.SubmitQuizRequest{
		SessionID: bank.SessionID,
		Answers:   answers,
		TimeSpent: 300,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if result.CorrectAnswers != 15 || result.Percentage != 50 {
		t.Errorf("correct=%d pct=%d, want 15/50", result.CorrectAnswers, result.Percentage)
	}
	if len(results.created) != 1 {
		t.Fatalf("results persisted = %d, want 1", len(results.created))
	}

	// Session downgraded: still present, but terminal and stripped.
	stored, err := banks.Get(ctx, "alice", bank.SessionID)
	if err != nil {
		t.Fatalf("get after submit: %v", err)
	}
	if stored.State != model.SessionStateSubmitted {
		t.Errorf("state = %q, want SUBMITTED", stored.State)
	}
	if len(stored.Questions) != 0 || stored.Instance != nil {
		t.Errorf("submitted session not stripped")
	}
}

func TestSubmitQuiz_ResubmitConflicts(t *testing.T) {
	svc, banks, results, bank := newQuizFixture(t, 30)
	ctx := context.Background()

	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fresh, _ := banks.Get(ctx, "alice", bank.SessionID)
	answers := []model.SubmittedAnswer{answerFor(fresh, "q1", true)}

	first, err := svc.SubmitQuiz(ctx, "alice", &model.SubmitQuizRequest{SessionID: bank.SessionID, Answers: answers, TimeSpent: 10})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err = svc.SubmitQuiz(ctx, "alice", &model.SubmitQuizRequest{SessionID: bank.SessionID, Answers: answers, TimeSpent: 10})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("got %v, want ErrAlreadySubmitted", err)
	}

	// The original result is untouched.
	if len(results.created) != 1 || results.created[0].ID != first.ID {
		t.Errorf("resubmission altered persisted results")
	}
}

func TestSubmitQuiz_NoInstance(t *testing.T) {
	svc, _, _, bank := newQuizFixture(t, 30)

	_, err := svc.SubmitQuiz(context.Background(), "alice", &model.SubmitQuizRequest{
		SessionID: bank.SessionID,
		Answers:   nil,
		TimeSpent: 0,
	})
	if !errors.Is(err, ErrNoInstance) {
		t.Errorf("got %v, want ErrNoInstance", err)
	}
}

func TestSubmitQuiz_PersistFailureKeepsSessionLive(t *testing.T) {
	svc, banks, results, bank := newQuizFixture(t, 30)
	ctx := context.Background()
	results.failing = true

	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fresh, _ := banks.Get(ctx, "alice", bank.SessionID)

	_, err := svc.SubmitQuiz(ctx, "alice", &model.SubmitQuizRequest{
		SessionID: bank.SessionID,
		Answers:   []model.SubmittedAnswer{answerFor(fresh, "q1", true)},
		TimeSpent: 10,
	})
	if err == nil {
		t.Fatal("expected persist error")
	}

	// Submission can be retried: session still in progress with questions.
	stored, gerr := banks.Get(ctx, "alice", bank.SessionID)
	if gerr != nil {
		t.Fatalf("get: %v", gerr)
	}
	if stored.State != model.SessionStateInProgress || stored.Instance == nil {
		t.Errorf("session should remain in progress after persist failure")
	}
}

// faultyBankStore fails writes on demand so post-persist teardown paths
// can be exercised.
type faultyBankStore struct {
	*store.MemoryBankStore
	failPuts bool
}

func (f *faultyBankStore) Put(ctx context.Context, bank *model.QuestionBank) error {
	if f.failPuts {
		return errors.New("redis down")
	}
	return f.MemoryBankStore.Put(ctx, bank)
}

func TestSubmitQuiz_DowngradeFailureEvictsSession(t *testing.T) {
	banks := &faultyBankStore{MemoryBankStore: store.NewMemoryBankStore(time.Minute)}
	results := &fakeResultStore{}
	svc := NewQuizService(banks, results, 60, zerolog.Nop())
	ctx := context.Background()

	bank := bankWithQuestions(30)
	bank.State = model.SessionStateGenerated
	bank.Instance = nil
	if err := banks.Put(ctx, bank); err != nil {
		t.Fatalf("seed bank: %v", err)
	}
	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fresh, _ := banks.Get(ctx, "alice", bank.SessionID)
	req := &model.SubmitQuizRequest{
		SessionID: bank.SessionID,
		Answers:   []model.SubmittedAnswer{answerFor(fresh, "q1", true)},
		TimeSpent: 10,
	}

	banks.failPuts = true
	result, err := svc.SubmitQuiz(ctx, "alice", req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result == nil || len(results.created) != 1 {
		t.Fatalf("result not persisted despite successful grade")
	}

	// The live session is gone, so retrying cannot mint a second result.
	if _, err := banks.Get(ctx, "alice", bank.SessionID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get after failed downgrade = %v, want ErrNotFound", err)
	}
	if _, err := svc.SubmitQuiz(ctx, "alice", req); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("resubmit = %v, want ErrNotFound", err)
	}
	if len(results.created) != 1 {
		t.Errorf("resubmission minted a duplicate result")
	}
}

func TestStartQuiz_AfterSubmitConflicts(t *testing.T) {
	svc, banks, _, bank := newQuizFixture(t, 30)
	ctx := context.Background()

	if _, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30}); err != nil {
		t.Fatalf("start: %v", err)
	}
	fresh, _ := banks.Get(ctx, "alice", bank.SessionID)
	if _, err := svc.SubmitQuiz(ctx, "alice", &model.SubmitQuizRequest{
		SessionID: bank.SessionID,
		Answers:   []model.SubmittedAnswer{answerFor(fresh, "q1", true)},
		TimeSpent: 10,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := svc.StartQuiz(ctx, "alice", &model.StartQuizRequest{SessionID: bank.SessionID, NumberOfQuestions: 30})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("got %v, want ErrAlreadySubmitted", err)
	}
}
