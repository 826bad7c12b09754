package repository

import (
	"context"
	"testing"
	"time"

	"salonbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDraftRepository(t *testing.T) {
	repo := NewMemoryDraftRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		draft := &models.Draft{UserID: 1, Step: models.StepSelectService, CategoryID: "c1"}
		require.NoError(t, repo.Set(ctx, draft))

		got, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, draft.Step, got.Step)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		got, err := repo.Get(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Clear", func(t *testing.T) {
		draft := &models.Draft{UserID: 2, Step: models.StepSelectDate}
		repo.Set(ctx, draft)

		require.NoError(t, repo.Clear(ctx, 2))

		got, _ := repo.Get(ctx, 2)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(3)
		window := 50 * time.Millisecond

		allowed, err := repo.CheckRateLimit(ctx, userID, 2, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, window)
		assert.True(t, allowed)

		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, window)
		assert.False(t, allowed)

		time.Sleep(window + 10*time.Millisecond)

		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, window)
		assert.True(t, allowed)
	})
}
