package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
	"github.com/brightbeginnings/daycare/internal/storage/memory"
)

func TestPublished(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := New(memory.New(), storage.Options{Now: func() time.Time { return now }})
	ctx := context.Background()
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	for _, u := range []models.NewsUpdate{
		{Title: "old", PublishedAt: at(-72 * time.Hour)},
		{Title: "pinned old", Pinned: true, PublishedAt: at(-96 * time.Hour)},
		{Title: "new", PublishedAt: at(-1 * time.Hour)},
		{Title: "scheduled", PublishedAt: at(24 * time.Hour)},
		{Title: "draft"},
	} {
		_, err := s.Updates.Create(ctx, u)
		require.NoError(t, err)
	}

	live, err := s.Published(ctx, now)
	require.NoError(t, err)
	titles := make([]string, 0, len(live))
	for _, u := range live {
		titles = append(titles, u.Title)
	}
	assert.Equal(t, []string{"pinned old", "new", "old"}, titles)
}

func TestPublish(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := New(memory.New(), storage.Options{Now: func() time.Time { return now }})
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	drafts, err := s.Updates.Find(ctx, func(u models.NewsUpdate) bool { return u.PublishedAt == nil })
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	published, err := s.Publish(ctx, drafts[0].ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, now, *published.PublishedAt)

	live, err := s.Published(ctx, now)
	require.NoError(t, err)
	assert.Len(t, live, 4)
	assert.True(t, live[0].Pinned)
	assert.Equal(t, drafts[0].ID, live[1].ID)

	_, err = s.Publish(ctx, "news_missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Updates.Create(ctx, models.NewsUpdate{Body: "no title"})
	assert.True(t, storage.IsValidation(err))
}
