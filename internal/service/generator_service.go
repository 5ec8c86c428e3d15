package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/config"
	"github.com/studyhall/quizdeck-backend/internal/extract"
	"github.com/studyhall/quizdeck-backend/internal/llm"
	"github.com/studyhall/quizdeck-backend/internal/model"
	"github.com/studyhall/quizdeck-backend/internal/store"
)

// Generation-stage sentinel errors.
var (
	// ErrGenerationEmpty means the model responded with parseable output
	// that contained zero valid questions. Not retried automatically.
	ErrGenerationEmpty = errors.New("generation produced no valid questions")
	// ErrGenerationMalformed means the model output could not be parsed
	// even after the single shortened-input retry.
	ErrGenerationMalformed = errors.New("generation response malformed")
)

// GeneratorService runs the document → question bank pipeline: extraction,
// one structured generation call, validation into the strict question
// schema, and storage under a freshly minted session identifier.
type GeneratorService struct {
	extractor *extract.Service
	provider  llm.Provider
	banks     store.BankStore
	cfg       *config.Config
	log       zerolog.Logger
}

// NewGeneratorService creates a GeneratorService.
func NewGeneratorService(
	extractor *extract.Service,
	provider llm.Provider,
	banks store.BankStore,
	cfg *config.Config,
	log zerolog.Logger,
) *GeneratorService {
	return &GeneratorService{
		extractor: extractor,
		provider:  provider,
		banks:     banks,
		cfg:       cfg,
		log:       log.With().Str("component", "generator").Logger(),
	}
}

// GenerateFromDocument extracts text from the uploaded document, generates
// a validated question bank, stores it, and returns it. The upload bytes
// are never persisted; they go out of scope when this returns.
func (s *GeneratorService) GenerateFromDocument(
	ctx context.Context,
	userID, filename, declaredType string,
	size int64,
	data []byte,
) (*model.QuestionBank, error) {
	text, err := s.extractor.Extract(data, declaredType, filename)
	if err != nil {
		return nil, err
	}

	// The generation call is the only externally-blocking step in the
	// pipeline; bound it explicitly.
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenTimeout)
	defer cancel()

	questions, err := s.requestQuestions(genCtx, text)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrGenerationEmpty
	}

	bank := &model.QuestionBank{
		SessionID:   uuid.New().String(),
		OwnerID:     userID,
		FileName:    filename,
		FileSize:    size,
		GeneratedAt: time.Now().UTC(),
		Questions:   questions,
		State:       model.SessionStateGenerated,
	}

	if err := s.banks.Put(ctx, bank); err != nil {
		return nil, fmt.Errorf("store bank: %w", err)
	}

	s.log.Info().
		Str("session_id", bank.SessionID).
		Str("file", filename).
		Int("questions", len(bank.Questions)).
		Msg("Question bank generated")
	return bank, nil
}

// requestQuestions performs the structured generation call and validates
// the output. A malformed response (unparseable or schema-violating) earns
// exactly one retry with the input shortened by half; an empty-but-valid
// response does not, to bound latency and cost.
func (s *GeneratorService) requestQuestions(ctx context.Context, text string) ([]model.Question, error) {
	prompt := truncateRunes(text, s.cfg.MaxPromptChars)

	resp, err := s.generate(ctx, prompt)
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if !errors.As(err, &invalid) {
			return nil, err
		}

		s.log.Warn().Err(err).Msg("Malformed generation response, retrying with shortened input")
		resp, err = s.generate(ctx, truncateRunes(prompt, s.cfg.MaxPromptChars/2))
		if err != nil {
			if errors.As(err, &invalid) {
				return nil, fmt.Errorf("%w: %v", ErrGenerationMalformed, err)
			}
			return nil, err
		}
	}

	var parsed generatedBank
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationMalformed, err)
	}

	return s.validateQuestions(parsed.Questions), nil
}

func (s *GeneratorService) generate(ctx context.Context, text string) (*llm.Response, error) {
	return s.provider.Generate(ctx, llm.Request{
		System:    generationSystemPrompt,
		User:      buildGenerationPrompt(text, s.cfg.TargetQuestions),
		Schema:    questionBankSchema,
		MaxTokens: 16384,
	})
}

// validateQuestions shapes raw model output into bank questions. Questions
// violating the invariant are dropped, never repaired: a wrong answer key
// is worse than a smaller bank.
func (s *GeneratorService) validateQuestions(raw []generatedQuestion) []model.Question {
	questions := make([]model.Question, 0, len(raw))
	dropped := 0

	for _, g := range raw {
		q := model.Question{
			Text:         g.Question,
			Options:      g.Options,
			CorrectIndex: g.CorrectIndex,
			Explanation:  g.Explanation,
		}
		if !q.Valid() {
			dropped++
			continue
		}
		q.ID = fmt.Sprintf("q%d", len(questions)+1)
		questions = append(questions, q)

		if len(questions) == s.cfg.TargetQuestions {
			break
		}
	}

	if dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Int("kept", len(questions)).Msg("Dropped invalid generated questions")
	}
	return questions
}
