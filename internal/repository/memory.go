package repository

import (
	"context"
	"sync"
	"time"

	"salonbot/internal/models"
)

type MemoryDraftRepository struct {
	drafts     sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{
		ttl: ttl,
	}
}

func (r *MemoryDraftRepository) Get(ctx context.Context, userID int64) (*models.Draft, error) {
	val, ok := r.drafts.Load(userID)
	if !ok {
		return nil, nil
	}
	return val.(*models.Draft), nil
}

func (r *MemoryDraftRepository) Set(ctx context.Context, draft *models.Draft) error {
	r.drafts.Store(draft.UserID, draft)
	return nil
}

func (r *MemoryDraftRepository) Clear(ctx context.Context, userID int64) error {
	r.drafts.Delete(userID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryDraftRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(userID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(userID, entry)
	return entry.count <= limit, nil
}
