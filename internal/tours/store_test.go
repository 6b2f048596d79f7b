package tours

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightbeginnings/daycare/internal/storage"
	"github.com/brightbeginnings/daycare/internal/storage/memory"
)

func TestUpdateProgress(t *testing.T) {
	clock := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := New(memory.New(), storage.Options{Now: func() time.Time { return clock }})
	ctx := context.Background()

	p, err := s.UpdateProgress(ctx, "staff-onboarding", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "staff-onboarding", p.ID)
	assert.Equal(t, 2, p.LastStepReached)
	assert.Nil(t, p.CompletedAt)

	t.Run("never regresses", func(t *testing.T) {
		p, err := s.UpdateProgress(ctx, "staff-onboarding", 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, p.LastStepReached)
	})

	t.Run("total follows latest", func(t *testing.T) {
		p, err := s.UpdateProgress(ctx, "staff-onboarding", 3, 6)
		require.NoError(t, err)
		assert.Equal(t, 3, p.LastStepReached)
		assert.Equal(t, 6, p.TotalSteps)
	})

	t.Run("completes once", func(t *testing.T) {
		p, err := s.UpdateProgress(ctx, "staff-onboarding", 6, 6)
		require.NoError(t, err)
		require.NotNil(t, p.CompletedAt)
		first := *p.CompletedAt

		clock = clock.Add(time.Hour)
		p, err = s.UpdateProgress(ctx, "staff-onboarding", 6, 6)
		require.NoError(t, err)
		assert.Equal(t, first, *p.CompletedAt)
	})

	done, err := s.Completed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-onboarding"}, done)

	_, err = s.UpdateProgress(ctx, " ", 1, 1)
	assert.True(t, storage.IsValidation(err))
}

func TestProgressAndReset(t *testing.T) {
	s := New(memory.New(), storage.Options{})
	ctx := context.Background()

	p, err := s.Progress(ctx, "parent-portal")
	require.NoError(t, err)
	assert.Equal(t, "parent-portal", p.ID)
	assert.Zero(t, p.LastStepReached)

	_, err = s.UpdateProgress(ctx, "parent-portal", 3, 4)
	require.NoError(t, err)
	p, err = s.Progress(ctx, "parent-portal")
	require.NoError(t, err)
	assert.Equal(t, 3, p.LastStepReached)

	require.NoError(t, s.Reset(ctx, "parent-portal"))
	require.NoError(t, s.Reset(ctx, "parent-portal"))
	p, err = s.Progress(ctx, "parent-portal")
	require.NoError(t, err)
	assert.Zero(t, p.LastStepReached)
}
