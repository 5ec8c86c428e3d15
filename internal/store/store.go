package store

import (
	"context"
	"errors"

	"github.com/studyhall/quizdeck-backend/internal/model"
)

// Sentinel errors for bank lookups.
var (
	// ErrNotFound means no live bank exists for the session (never created,
	// expired, or evicted after submission).
	ErrNotFound = errors.New("session not found")
	// ErrForbidden means the session exists but belongs to another user.
	// Bank contents are never returned in this case.
	ErrForbidden = errors.New("session belongs to another user")
)

// BankStore owns live question banks keyed by session identifier,
// namespaced by owning user. It is the only component permitted to evict
// them; eviction after the idle window (or after a terminal submission) is
// a normal outcome, not an error.
type BankStore interface {
	// Put creates or replaces the bank for its session and resets the
	// idle timer.
	Put(ctx context.Context, bank *model.QuestionBank) error

	// Get returns the bank and refreshes its idle timer. Fails with
	// ErrNotFound for unknown/expired sessions and ErrForbidden when the
	// caller is not the owner.
	Get(ctx context.Context, userID, sessionID string) (*model.QuestionBank, error)

	// Touch refreshes the idle timer without reading the bank.
	Touch(ctx context.Context, userID, sessionID string) error

	// Delete evicts the bank.
	Delete(ctx context.Context, userID, sessionID string) error
}
