package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionBankKey returns the cache key holding a user's live question bank.
// Keys are namespaced by the owning user so session identifiers cannot be
// enumerated across users.
func (r *CacheKeyStruct) SessionBankKey(userID, sessionID string) string {
	return fmt.Sprintf("quiz:user:%s:session:%s", userID, sessionID)
}

// SessionOwnerKey returns the cache key mapping a session identifier to its
// owning user. Used to distinguish a foreign session (forbidden) from an
// expired one (not found).
func (r *CacheKeyStruct) SessionOwnerKey(sessionID string) string {
	return fmt.Sprintf("quiz:session:%s:owner", sessionID)
}

// UserSessionIndexKey returns the cache key of the set indexing a user's
// live session identifiers.
func (r *CacheKeyStruct) UserSessionIndexKey(userID string) string {
	return fmt.Sprintf("quiz:user:%s:sessions", userID)
}

var CacheKey = NewCacheKeyStruct()
