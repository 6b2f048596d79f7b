// Package news stores announcements for the public site and parent dashboard.
package news

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// KeyNewsUpdates is the collection key for announcements.
const KeyNewsUpdates = "news_updates"

// Store wraps the news collection.
type Store struct {
	Updates *storage.Collection[models.NewsUpdate, *models.NewsUpdate]

	now    func() time.Time
	logger *slog.Logger
}

// New creates the news store on top of kv.
func New(kv storage.KV, opts storage.Options) *Store {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
		opts.Now = now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Updates: storage.NewCollection[models.NewsUpdate](kv, storage.Key(KeyNewsUpdates), "news", opts).WithValidator(validateUpdate),
		now:     now,
		logger:  logger,
	}
}

func validateUpdate(u *models.NewsUpdate) error {
	u.Title = strings.TrimSpace(u.Title)
	if u.Title == "" {
		return storage.Invalid("title", "is required")
	}
	return nil
}

// Published returns updates published at or before now, pinned first, then
// newest first.
func (s *Store) Published(ctx context.Context, now time.Time) ([]models.NewsUpdate, error) {
	live, err := s.Updates.Find(ctx, func(u models.NewsUpdate) bool {
		return u.PublishedAt != nil && !u.PublishedAt.After(now)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].Pinned != live[j].Pinned {
			return live[i].Pinned
		}
		return live[i].PublishedAt.After(*live[j].PublishedAt)
	})
	return live, nil
}

// Publish sets the publication time of a draft to now. Already published
// updates keep their original time.
func (s *Store) Publish(ctx context.Context, id string) (models.NewsUpdate, error) {
	update, err := s.Updates.Update(ctx, id, func(u *models.NewsUpdate) error {
		if u.PublishedAt == nil {
			now := s.now()
			u.PublishedAt = &now
		}
		return nil
	})
	if err != nil {
		return models.NewsUpdate{}, err
	}
	s.logger.Info("News update published", "news_id", id)
	return update, nil
}

// Seed populates an empty news collection.
func (s *Store) Seed(ctx context.Context) error {
	now := s.now()
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	_, err := s.Updates.SeedIfEmpty(ctx, []models.NewsUpdate{
		{Title: "Welcome to the new parent portal", Body: "Check menus, progress reports and announcements in one place.", Author: "Dana Whitfield", Category: "announcement", Pinned: true, PublishedAt: ago(14 * 24 * time.Hour)},
		{Title: "Fall harvest festival", Body: "Join us Friday at 4pm for pumpkin painting and cider.", Author: "Dana Whitfield", Category: "event", PublishedAt: ago(2 * 24 * time.Hour)},
		{Title: "Flu shot clinic", Body: "A pediatric nurse will be on site next Tuesday.", Author: "Dana Whitfield", Category: "health", PublishedAt: ago(5 * 24 * time.Hour)},
		{Title: "Winter closure dates", Body: "Draft: confirm dates with the board.", Author: "Dana Whitfield", Category: "announcement"},
	})
	return err
}
