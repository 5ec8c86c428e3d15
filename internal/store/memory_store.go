package store

import (
	"context"
	"sync"
	"time"

	"github.com/studyhall/quizdeck-backend/internal/model"
)

// MemoryBankStore is an in-process BankStore with the same idle-eviction
// semantics as the Redis implementation. It backs tests and single-node
// deployments that run without Redis.
type MemoryBankStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry // keyed by session id
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	bank      model.QuestionBank
	expiresAt time.Time
}

// NewMemoryBankStore creates an in-memory BankStore with the given idle TTL.
func NewMemoryBankStore(ttl time.Duration) *MemoryBankStore {
	return &MemoryBankStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put creates or replaces the bank and resets its idle timer.
func (s *MemoryBankStore) Put(_ context.Context, bank *model.QuestionBank) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deep-enough copy: the caller keeps mutating its own bank value.
	cp := *bank
	s.entries[bank.SessionID] = &memoryEntry{
		bank:      cp,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get returns a copy of the bank and refreshes its idle timer.
func (s *MemoryBankStore) Get(_ context.Context, userID, sessionID string) (*model.QuestionBank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	entry.expiresAt = s.now().Add(s.ttl)
	bank := entry.bank
	return &bank, nil
}

// Touch refreshes the idle timer without reading the bank.
func (s *MemoryBankStore) Touch(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	entry.expiresAt = s.now().Add(s.ttl)
	return nil
}

// Delete evicts the bank.
func (s *MemoryBankStore) Delete(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[sessionID]; ok && entry.bank.OwnerID == userID {
		delete(s.entries, sessionID)
	}
	return nil
}

// Sweep drops expired entries and returns how many were evicted.
func (s *MemoryBankStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// lookup must be called with the mutex held.
func (s *MemoryBankStore) lookup(userID, sessionID string) (*memoryEntry, error) {
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return nil, ErrNotFound
	}
	if entry.bank.OwnerID != userID {
		return nil, ErrForbidden
	}
	return entry, nil
}
