package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/model"
	"github.com/studyhall/quizdeck-backend/internal/store"
)

var (
	// ErrAlreadySubmitted means the session has a final result; no further
	// quiz operations are accepted for it.
	ErrAlreadySubmitted = errors.New("session already submitted")
	// ErrNoInstance means submission arrived for a session that never
	// selected a quiz instance.
	ErrNoInstance = errors.New("no active quiz instance")
)

// QuizService owns the session state machine: instance selection from a
// generated bank, and grading plus persistence on submission. All writes
// to a session are serialized through a per-session lock so concurrent
// requests against the same session observe a consistent state.
type QuizService struct {
	banks           store.BankStore
	results         ResultStore
	locks           *store.KeyLock
	timePerQuestion int
	log             zerolog.Logger
}

// NewQuizService creates a QuizService.
func NewQuizService(
	banks store.BankStore,
	results ResultStore,
	timePerQuestion int,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		banks:           banks,
		results:         results,
		locks:           store.NewKeyLock(),
		timePerQuestion: timePerQuestion,
		log:             log.With().Str("component", "quiz").Logger(),
	}
}

// StartQuiz selects a quiz instance of the requested size from the
// session's bank and returns the client-facing questions with answer keys
// stripped. Starting again replaces any previous instance wholesale;
// answers are only ever graded against the instance active at submit time.
func (s *QuizService) StartQuiz(ctx context.Context, userID string, req *model.StartQuizRequest) (*model.StartQuizResponse, error) {
	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	bank, err := s.banks.Get(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if bank.State == model.SessionStateSubmitted {
		return nil, ErrAlreadySubmitted
	}

	count := req.NumberOfQuestions
	if count > len(bank.Questions) {
		count = len(bank.Questions)
	}

	ids := make([]string, count)
	for i := 0; i < count; i++ {
		ids[i] = bank.Questions[i].ID
	}

	bank.Instance = &model.QuizInstance{
		QuestionIDs:     ids,
		Count:           count,
		TimePerQuestion: s.timePerQuestion,
		SelectedAt:      time.Now().UTC(),
	}
	bank.State = model.SessionStateInProgress

	if err := s.banks.Put(ctx, bank); err != nil {
		return nil, fmt.Errorf("store instance: %w", err)
	}

	questions := make([]model.QuestionForClient, count)
	for i, id := range ids {
		q, _ := bank.QuestionByID(id)
		questions[i] = q.ForClient()
	}

	return &model.StartQuizResponse{
		SessionID:       bank.SessionID,
		FileName:        bank.FileName,
		Questions:       questions,
		TotalQuestions:  count,
		TimePerQuestion: s.timePerQuestion,
	}, nil
}

// SubmitQuiz grades the submission against the active instance, persists
// the result, and marks the session submitted. The result row is the
// durable record; once it is written, resubmission is rejected even if
// the session entry later expires from the hot store.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID string, req *model.SubmitQuizRequest) (*model.Result, error) {
	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	bank, err := s.banks.Get(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if bank.State == model.SessionStateSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if bank.Instance == nil {
		return nil, ErrNoInstance
	}

	result := scoreSubmission(bank, req.Answers, req.TimeSpent, time.Now().UTC())

	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}

	// Downgrade rather than evict: the stripped bank keeps resubmissions
	// answerable with a conflict instead of a not-found until it ages out.
	// If the downgrade cannot be written the session must still leave the
	// live state, otherwise a retry would grade and persist a second result
	// for the same attempt. Deleting it degrades the resubmit answer from
	// 409 to 404 but keeps the result unique.
	bank.State = model.SessionStateSubmitted
	bank.Questions = nil
	bank.Instance = nil
	if err := s.banks.Put(ctx, bank); err != nil {
		s.log.Warn().Err(err).Str("session_id", bank.SessionID).Msg("Failed to downgrade submitted session, deleting it")
		if err := s.banks.Delete(ctx, userID, bank.SessionID); err != nil {
			s.log.Error().Err(err).Str("session_id", bank.SessionID).Msg("Failed to delete submitted session")
		}
	}

	s.log.Info().
		Str("session_id", req.SessionID).
		Str("result_id", result.ID.String()).
		Int("score", result.Percentage).
		Msg("Quiz submitted")
	return result, nil
}
