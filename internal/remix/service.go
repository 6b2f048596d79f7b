// Package remix adapts existing lesson plans with a generative model.
package remix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brightbeginnings/daycare/internal/lessons"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

var (
	// ErrBaseNotFound is returned when baseLessonId names no stored lesson.
	ErrBaseNotFound = errors.New("Base lesson not found")

	// ErrNotConfigured is returned when no generator credentials are set.
	ErrNotConfigured = errors.New("AI service is not configured")

	// ErrUpstream wraps every generator failure.
	ErrUpstream = errors.New("Failed to generate lesson")
)

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 60 * time.Second

// Service validates remix requests and runs them through a Generator.
type Service struct {
	lessons *lessons.Store
	gen     Generator
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each generator call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock overrides the clock used for preview timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a remix service. gen may be nil when no credentials are
// configured; Remix then fails with ErrNotConfigured.
func NewService(store *lessons.Store, gen Generator, opts ...Option) *Service {
	s := &Service{
		lessons: store,
		gen:     gen,
		timeout: DefaultTimeout,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Remix adapts the base lesson. With Save set the result is stored in the
// lesson library; otherwise a preview is returned and nothing is written.
func (s *Service) Remix(ctx context.Context, req Request) (Result, error) {
	if !req.hasBase() {
		return Result{}, storage.Invalid("", "Base lesson is required")
	}

	base, err := s.resolveBase(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := req.validateParams(); err != nil {
		return Result{}, err
	}
	if s.gen == nil {
		return Result{}, ErrNotConfigured
	}

	prompt, err := buildPrompt(base, req)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("Lesson remix request received",
		"base_lesson", base.Title,
		"new_age_group", req.NewAgeGroup,
		"new_duration", req.NewDuration,
		"save", req.Save,
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	reply, err := s.gen.Generate(callCtx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error("Lesson remix failed", "error", err, "duration", time.Since(start))
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	lesson, err := parseLesson(reply)
	if err != nil {
		s.logger.Error("Lesson remix reply unusable", "error", err)
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.applyDefaults(&lesson, base, req)
	if err := lessons.Validate(&lesson); err != nil {
		s.logger.Error("Lesson remix reply invalid", "error", err)
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if req.Save {
		saved, err := s.lessons.Save(ctx, lesson)
		if err != nil {
			return Result{}, fmt.Errorf("failed to save remixed lesson: %w", err)
		}
		s.logger.Info("Lesson remix successful", "lesson_id", saved.ID, "saved", true)
		return Result{Lesson: saved, Saved: true}, nil
	}

	now := s.now()
	lesson.ID = storage.NewID("preview")
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	s.logger.Info("Lesson remix successful", "lesson_id", lesson.ID, "saved", false)
	return Result{Lesson: lesson, Saved: false}, nil
}

func (s *Service) resolveBase(ctx context.Context, req Request) (models.Lesson, error) {
	if strings.TrimSpace(req.BaseLessonID) == "" {
		if strings.TrimSpace(req.BaseLesson.Title) == "" {
			return models.Lesson{}, storage.Invalid("baseLesson", "title is required")
		}
		return *req.BaseLesson, nil
	}
	base, err := s.lessons.Get(ctx, req.BaseLessonID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Lesson{}, ErrBaseNotFound
	}
	if err != nil {
		return models.Lesson{}, err
	}
	return base, nil
}

// applyDefaults fills fields the model left out from the request and base.
func (s *Service) applyDefaults(l *models.Lesson, base models.Lesson, req Request) {
	if req.NewAgeGroup != "" {
		l.AgeGroup = req.NewAgeGroup
	} else if l.AgeGroup == "" || !l.AgeGroup.Valid() {
		l.AgeGroup = base.AgeGroup
	}
	if req.NewDuration > 0 {
		l.DurationMinutes = req.NewDuration
	} else if l.DurationMinutes <= 0 {
		l.DurationMinutes = base.DurationMinutes
	}
	if req.NewDomain != "" {
		l.Domain = req.NewDomain
	} else if l.Domain == "" {
		l.Domain = base.Domain
	}
	l.RemixedFrom = base.ID
}
