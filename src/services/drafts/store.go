package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	DB "franchise-intake-api/src/database"
	"franchise-intake-api/src/models"

	"github.com/redis/go-redis/v9"
)

// Persistence is the draft side of the persistence collaborator. The
// engine treats it as an opaque remote call.
type Persistence interface {
	SaveDraft(ctx context.Context, draft *models.SessionDraft, ttl time.Duration) error
	LoadDraft(ctx context.Context, sessionID string) (*models.SessionDraft, error) // nil, nil when absent
	DeleteDraft(ctx context.Context, sessionID string) error
}

// RedisPersistence stores drafts as JSON under draft:{sessionId} with a
// TTL equal to the session timeout, so Redis expires what the sweep
// misses.
type RedisPersistence struct{}

func draftKey(sessionID string) string {
	return fmt.Sprintf("draft:%s", sessionID)
}

func (RedisPersistence) SaveDraft(ctx context.Context, draft *models.SessionDraft, ttl time.Duration) error {
	if DB.RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return DB.RedisClient.Set(ctx, draftKey(draft.SessionID), payload, ttl).Err()
}

func (RedisPersistence) LoadDraft(ctx context.Context, sessionID string) (*models.SessionDraft, error) {
	if DB.RedisClient == nil {
		return nil, nil
	}
	raw, err := DB.RedisClient.Get(ctx, draftKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var draft models.SessionDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (RedisPersistence) DeleteDraft(ctx context.Context, sessionID string) error {
	if DB.RedisClient == nil {
		return nil
	}
	return DB.RedisClient.Del(ctx, draftKey(sessionID)).Err()
}

// Store debounces autosaves per session and restores drafts on resume.
// Saving is best-effort: a failed save retries with backoff a bounded
// number of times and then surfaces a non-fatal warning through the
// onResult callback; it never blocks user interaction. The debounce
// interval and expiry come from the caller on every operation, so a
// newly published form's settings apply without a restart.
type Store struct {
	persistence Persistence
	maxAttempts int
	retryDelay  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewStore builds a draft store on top of a persistence backend.
func NewStore(p Persistence) *Store {
	return &Store{
		persistence: p,
		maxAttempts: 3,
		retryDelay:  time.Second,
		timers:      make(map[string]*time.Timer),
	}
}

// ScheduleSave arms the session's debounce timer: a burst of edits
// collapses into one save that fires interval after the last edit.
// snapshot is called at fire time so the saved state is the latest one;
// a nil snapshot (the session stopped editing) skips the save. A
// pending timer is stopped and replaced, never Reset: Reset on an
// already-fired AfterFunc would re-arm it and fire the stale callback
// a second time. The callback removes only its own map entry, so a
// fire racing a fresh edit cannot cancel the newer timer.
func (s *Store) ScheduleSave(sessionID string, interval, ttl time.Duration, snapshot func() *models.SessionDraft, onResult func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[sessionID]; ok {
		old.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(interval, func() {
		s.mu.Lock()
		if s.timers[sessionID] == timer {
			delete(s.timers, sessionID)
		}
		s.mu.Unlock()

		err := s.saveWithRetry(snapshot(), ttl)
		if onResult != nil {
			onResult(err)
		}
	})
	s.timers[sessionID] = timer
}

func (s *Store) saveWithRetry(draft *models.SessionDraft, ttl time.Duration) error {
	if draft == nil {
		return nil
	}
	backoff := s.retryDelay
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		draft.LastSavedAt = time.Now().UTC()
		err = s.persistence.SaveDraft(context.Background(), draft, ttl)
		if err == nil {
			return nil
		}
		log.Printf("⚠️ Draft save attempt %d/%d failed for %s: %v", attempt, s.maxAttempts, draft.SessionID, err)
		if attempt < s.maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return err
}

// SaveNow persists immediately, bypassing the debounce (used on
// explicit "save and exit").
func (s *Store) SaveNow(ctx context.Context, draft *models.SessionDraft, ttl time.Duration) error {
	s.cancelTimer(draft.SessionID)
	draft.LastSavedAt = time.Now().UTC()
	return s.persistence.SaveDraft(ctx, draft, ttl)
}

// Restore loads a session's draft. A draft older than the session
// timeout is expired: it is discarded, not resumed.
func (s *Store) Restore(ctx context.Context, sessionID string, timeout time.Duration) (*models.SessionDraft, error) {
	draft, err := s.persistence.LoadDraft(ctx, sessionID)
	if err != nil || draft == nil {
		return nil, err
	}
	if time.Since(draft.LastSavedAt) > timeout {
		if delErr := s.persistence.DeleteDraft(ctx, sessionID); delErr != nil {
			log.Println("⚠️ Failed to discard expired draft:", delErr)
		}
		return nil, nil
	}
	return draft, nil
}

// Discard cancels any pending save and deletes the stored draft (on
// submission or explicit abandon).
func (s *Store) Discard(ctx context.Context, sessionID string) error {
	s.cancelTimer(sessionID)
	return s.persistence.DeleteDraft(ctx, sessionID)
}

func (s *Store) cancelTimer(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
		delete(s.timers, sessionID)
	}
}
