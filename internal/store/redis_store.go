package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/config"
	"github.com/studyhall/quizdeck-backend/internal/model"
)

// RedisBankStore keeps live question banks in Redis with a TTL that
// implements the idle-eviction window. Bank keys are namespaced by owning
// user; an owner marker keyed by session id alone lets foreign lookups be
// distinguished from expired ones.
type RedisBankStore struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisBankStore creates a Redis-backed BankStore with the given idle TTL.
func NewRedisBankStore(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisBankStore {
	return &RedisBankStore{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "bank_store").Logger(),
	}
}

// Put creates or replaces the bank and resets its idle timer.
func (s *RedisBankStore) Put(ctx context.Context, bank *model.QuestionBank) error {
	raw, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}

	bankKey := config.CacheKey.SessionBankKey(bank.OwnerID, bank.SessionID)
	ownerKey := config.CacheKey.SessionOwnerKey(bank.SessionID)
	indexKey := config.CacheKey.UserSessionIndexKey(bank.OwnerID)

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, bankKey, raw, s.ttl)
	pipe.Set(ctx, ownerKey, bank.OwnerID, s.ttl)
	pipe.SAdd(ctx, indexKey, bank.SessionID)
	pipe.Expire(ctx, indexKey, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store bank: %w", err)
	}

	s.log.Debug().
		Str("session_id", bank.SessionID).
		Int("questions", len(bank.Questions)).
		Msg("Bank stored")
	return nil
}

// Get returns the bank and refreshes its idle timer.
func (s *RedisBankStore) Get(ctx context.Context, userID, sessionID string) (*model.QuestionBank, error) {
	bankKey := config.CacheKey.SessionBankKey(userID, sessionID)

	raw, err := s.rdb.Get(ctx, bankKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, s.classifyMiss(ctx, userID, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get bank: %w", err)
	}

	var bank model.QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("unmarshal bank: %w", err)
	}

	// Any read counts as activity.
	s.refresh(ctx, userID, sessionID)

	return &bank, nil
}

// Touch refreshes the idle timer without reading the bank.
func (s *RedisBankStore) Touch(ctx context.Context, userID, sessionID string) error {
	ok, err := s.rdb.Expire(ctx, config.CacheKey.SessionBankKey(userID, sessionID), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("touch bank: %w", err)
	}
	if !ok {
		return s.classifyMiss(ctx, userID, sessionID)
	}
	s.refresh(ctx, userID, sessionID)
	return nil
}

// Delete evicts the bank and its owner marker.
func (s *RedisBankStore) Delete(ctx context.Context, userID, sessionID string) error {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.SessionBankKey(userID, sessionID))
	pipe.Del(ctx, config.CacheKey.SessionOwnerKey(sessionID))
	pipe.SRem(ctx, config.CacheKey.UserSessionIndexKey(userID), sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	return nil
}

// classifyMiss distinguishes a foreign session from an expired one using
// the owner marker. Contents are never leaked either way.
func (s *RedisBankStore) classifyMiss(ctx context.Context, userID, sessionID string) error {
	owner, err := s.rdb.Get(ctx, config.CacheKey.SessionOwnerKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get session owner: %w", err)
	}
	if owner != userID {
		return ErrForbidden
	}
	return ErrNotFound
}

// refresh pushes the idle window forward on all keys tied to a session.
// Failures are not fatal: the next activity retries.
func (s *RedisBankStore) refresh(ctx context.Context, userID, sessionID string) {
	pipe := s.rdb.Pipeline()
	pipe.Expire(ctx, config.CacheKey.SessionBankKey(userID, sessionID), s.ttl)
	pipe.Expire(ctx, config.CacheKey.SessionOwnerKey(sessionID), s.ttl)
	pipe.Expire(ctx, config.CacheKey.UserSessionIndexKey(userID), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("TTL refresh failed")
	}
}
