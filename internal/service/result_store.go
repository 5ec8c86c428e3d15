package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyhall/quizdeck-backend/internal/model"
)

// ResultStore is the persistence surface the quiz and history services
// need. The repository package provides the Postgres implementation.
type ResultStore interface {
	Create(ctx context.Context, result *model.Result) error
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*model.Result, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ResultSummary, int, error)
	StatsByUser(ctx context.Context, userID string) (*model.Statistics, error)
}
