package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/model"
)

// ErrResultNotFound means no result with that id belongs to the user.
var ErrResultNotFound = errors.New("result not found")

const (
	defaultHistoryPerPage = 20
	maxHistoryPerPage     = 100
)

// HistoryService reads completed results and per-user aggregates.
type HistoryService struct {
	results ResultStore
	log     zerolog.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(results ResultStore, log zerolog.Logger) *HistoryService {
	return &HistoryService{
		results: results,
		log:     log.With().Str("component", "history").Logger(),
	}
}

// HistoryPage is the effective pagination window after normalization,
// reported back so callers render metadata from the values actually used.
type HistoryPage struct {
	Page    int
	PerPage int
	Total   int
}

// GetHistory returns one page of the user's results, newest first, with
// the aggregate statistics computed over the user's entire history.
func (s *HistoryService) GetHistory(ctx context.Context, userID string, page, perPage int) (*model.HistoryResponse, HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultHistoryPerPage
	}
	if perPage > maxHistoryPerPage {
		perPage = maxHistoryPerPage
	}
	window := HistoryPage{Page: page, PerPage: perPage}

	results, total, err := s.results.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, window, err
	}
	window.Total = total

	stats, err := s.results.StatsByUser(ctx, userID)
	if err != nil {
		return nil, window, err
	}

	return &model.HistoryResponse{
		Results:    results,
		Statistics: *stats,
	}, window, nil
}

// GetResult returns a single result owned by the user, with full answer
// details. An existing result owned by someone else reads as not found so
// result ids cannot be probed across users.
func (s *HistoryService) GetResult(ctx context.Context, userID string, id uuid.UUID) (*model.Result, error) {
	result, err := s.results.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrResultNotFound
	}
	return result, nil
}
