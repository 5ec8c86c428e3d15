package worker

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/config"
)

// SessionSweeper prunes per-user session index sets. Bank and owner keys
// expire on their own TTLs, but set members do not, so without the sweeper
// the index sets would accumulate identifiers of long-gone sessions.
type SessionSweeper struct {
	rdb      *redis.Client
	interval time.Duration
	log      zerolog.Logger
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(rdb *redis.Client, interval time.Duration, log zerolog.Logger) *SessionSweeper {
	return &SessionSweeper{
		rdb:      rdb,
		interval: interval,
		log:      log.With().Str("component", "session_sweeper").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *SessionSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	pruned := 0

	iter := w.rdb.Scan(ctx, 0, config.CacheKey.UserSessionIndexKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		indexKey := iter.Val()
		userID := userIDFromIndexKey(indexKey)
		if userID == "" {
			continue
		}

		sessionIDs, err := w.rdb.SMembers(ctx, indexKey).Result()
		if err != nil {
			w.log.Error().Err(err).Str("key", indexKey).Msg("SMembers error")
			continue
		}

		for _, sessionID := range sessionIDs {
			exists, err := w.rdb.Exists(ctx, config.CacheKey.SessionBankKey(userID, sessionID)).Result()
			if err != nil {
				w.log.Error().Err(err).Str("session_id", sessionID).Msg("Exists error")
				continue
			}
			if exists == 0 {
				if err := w.rdb.SRem(ctx, indexKey, sessionID).Err(); err == nil {
					pruned++
				}
			}
		}
	}
	if err := iter.Err(); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Msg("Scan error")
		return
	}

	if pruned > 0 {
		w.log.Info().Int("pruned", pruned).Msg("Swept stale session index entries")
	}
}

// userIDFromIndexKey extracts the user id out of "quiz:user:{id}:sessions".
func userIDFromIndexKey(key string) string {
	trimmed, found := strings.CutPrefix(key, "quiz:user:")
	if !found {
		return ""
	}
	trimmed, found = strings.CutSuffix(trimmed, ":sessions")
	if !found {
		return ""
	}
	return trimmed
}
