// Package tours records how far users got through guided onboarding tours.
package tours

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// KeyTourProgress is the collection key for tour progress.
const KeyTourProgress = "tour_progress"

// Store wraps the tour progress collection. Records are keyed by tour id.
type Store struct {
	Records *storage.Collection[models.TourProgress, *models.TourProgress]
	now     func() time.Time

	mu sync.Mutex
}

// New creates the tour store on top of kv.
func New(kv storage.KV, opts storage.Options) *Store {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
		opts.Now = now
	}
	return &Store{
		Records: storage.NewCollection[models.TourProgress](kv, storage.Key(KeyTourProgress), "tour", opts),
		now:     now,
	}
}

// UpdateProgress records that the user reached step of total. The furthest
// step reached never goes backwards. Reaching the last step marks the tour
// completed; the first completion time is kept.
func (s *Store) UpdateProgress(ctx context.Context, tourID string, step, total int) (models.TourProgress, error) {
	tourID = strings.TrimSpace(tourID)
	if tourID == "" {
		return models.TourProgress{}, storage.Invalid("tourId", "is required")
	}
	if step < 0 || total < 0 {
		return models.TourProgress{}, storage.Invalid("step", "step and total cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Records.Get(ctx, tourID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.TourProgress{}, err
	}
	p.ID = tourID
	if step > p.LastStepReached {
		p.LastStepReached = step
	}
	if total > 0 {
		p.TotalSteps = total
	}
	if p.CompletedAt == nil && p.TotalSteps > 0 && p.LastStepReached >= p.TotalSteps {
		now := s.now()
		p.CompletedAt = &now
	}
	return s.Records.Put(ctx, p)
}

// Progress returns the progress for one tour, or a zero record when the tour
// was never started.
func (s *Store) Progress(ctx context.Context, tourID string) (models.TourProgress, error) {
	p, err := s.Records.Get(ctx, tourID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.TourProgress{Meta: models.Meta{ID: tourID}}, nil
	}
	return p, err
}

// Reset forgets a tour so it starts over.
func (s *Store) Reset(ctx context.Context, tourID string) error {
	return s.Records.Remove(ctx, tourID)
}

// Completed returns the ids of finished tours.
func (s *Store) Completed(ctx context.Context) ([]string, error) {
	done, err := s.Records.Find(ctx, func(p models.TourProgress) bool { return p.CompletedAt != nil })
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(done))
	for _, p := range done {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
