// Package lessons stores the curriculum library.
package lessons

import (
	"context"
	"strings"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// KeyLessons is the collection key for lesson plans.
const KeyLessons = "lessons"

// Store wraps the lessons collection.
type Store struct {
	Lessons *storage.Collection[models.Lesson, *models.Lesson]
}

// New creates the lesson store on top of kv.
func New(kv storage.KV, opts storage.Options) *Store {
	return &Store{
		Lessons: storage.NewCollection[models.Lesson](kv, storage.Key(KeyLessons), "lesson", opts).WithValidator(Validate),
	}
}

// Validate checks a lesson before it is written. It is exported so remixed
// lessons can be checked before they are previewed.
func Validate(l *models.Lesson) error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return storage.Invalid("title", "is required")
	}
	if l.AgeGroup != "" && !l.AgeGroup.Valid() {
		return storage.Invalid("ageGroup", "unknown age group %q", l.AgeGroup)
	}
	if l.DurationMinutes < 0 {
		return storage.Invalid("durationMinutes", "cannot be negative")
	}
	if l.DurationMinutes == 0 {
		for _, a := range l.Activities {
			l.DurationMinutes += a.Minutes
		}
	}
	return nil
}

// Filter narrows a lesson listing. Empty fields match everything.
type Filter struct {
	AgeGroup models.AgeGroup
	Domain   string

	// Query matches title and objectives, ignoring case.
	Query string
}

// Match reports whether l passes the filter.
func (f Filter) Match(l models.Lesson) bool {
	if f.AgeGroup != "" && l.AgeGroup != f.AgeGroup {
		return false
	}
	if f.Domain != "" && !strings.EqualFold(l.Domain, f.Domain) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(l.Title), q) {
		return true
	}
	for _, o := range l.Objectives {
		if strings.Contains(strings.ToLower(o), q) {
			return true
		}
	}
	return false
}

// Search returns the lessons matching f.
func (s *Store) Search(ctx context.Context, f Filter) ([]models.Lesson, error) {
	return s.Lessons.Find(ctx, f.Match)
}

// Get returns one lesson.
func (s *Store) Get(ctx context.Context, id string) (models.Lesson, error) {
	return s.Lessons.Get(ctx, id)
}

// Save stores a new lesson and returns it with its id and timestamps.
func (s *Store) Save(ctx context.Context, l models.Lesson) (models.Lesson, error) {
	l.ID = ""
	return s.Lessons.Create(ctx, l)
}
