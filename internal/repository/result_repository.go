package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyhall/quizdeck-backend/internal/model"
)

// ResultRepository handles quiz result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create inserts a completed result with its per-question breakdown.
func (r *ResultRepository) Create(ctx context.Context, result *model.Result) error {
	details, err := json.Marshal(result.Details)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, user_id, file_name, total_questions,
		        correct_answers, wrong_answers, percentage, time_spent,
		        completed_at, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		result.ID, result.UserID, result.FileName, result.TotalQuestions,
		result.CorrectAnswers, result.WrongAnswers, result.Percentage,
		result.TimeSpent, result.CompletedAt, details,
	)
	return err
}

// GetByID retrieves one result scoped to its owner. Returns (nil, nil)
// when no matching row exists, including when the id belongs to another
// user.
func (r *ResultRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*model.Result, error) {
	result := &model.Result{}
	var details []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, file_name, total_questions, correct_answers,
		        wrong_answers, percentage, time_spent, completed_at, details
		 FROM quiz_results WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&result.ID, &result.UserID, &result.FileName, &result.TotalQuestions,
		&result.CorrectAnswers, &result.WrongAnswers, &result.Percentage,
		&result.TimeSpent, &result.CompletedAt, &details)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(details, &result.Details); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser retrieves one page of a user's results, newest first, plus
// the total row count for pagination metadata.
func (r *ResultRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ResultSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, file_name, completed_at, total_questions, percentage, time_spent
		 FROM quiz_results
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := make([]model.ResultSummary, 0, limit)
	for rows.Next() {
		var s model.ResultSummary
		if err := rows.Scan(&s.ID, &s.FileName, &s.CompletedAt,
			&s.TotalQuestions, &s.Percentage, &s.TimeSpent); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// StatsByUser computes the aggregate statistics over a user's history.
// A user with no results gets all-zero statistics.
func (r *ResultRepository) StatsByUser(ctx context.Context, userID string) (*model.Statistics, error) {
	stats := &model.Statistics{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(ROUND(AVG(percentage)), 0),
		        COALESCE(MAX(percentage), 0)
		 FROM quiz_results WHERE user_id = $1`, userID,
	).Scan(&stats.TotalQuizzes, &stats.AverageScore, &stats.BestScore)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
