package remix

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightbeginnings/daycare/internal/lessons"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
	"github.com/brightbeginnings/daycare/internal/storage/memory"
)

type fakeGenerator struct {
	reply   string
	err     error
	calls   int
	prompt  string
	hasDead bool
}

func (f *fakeGenerator) Generate(ctx context.Context, _, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	_, f.hasDead = ctx.Deadline()
	return f.reply, f.err
}

const toddlerReply = `{
  "title": "Little Color Mixers",
  "ageGroup": "toddler",
  "durationMinutes": 15,
  "domain": "science",
  "objectives": ["Notice colors changing"],
  "materials": ["Finger paint"],
  "activities": [{"name": "Squish bags", "description": "Mix paint in sealed bags.", "minutes": 15}]
}`

var previewNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T, gen Generator) (*Service, *lessons.Store) {
	t.Helper()
	store := lessons.New(memory.New(), storage.Options{})
	require.NoError(t, store.Seed(context.Background()))
	return NewService(store, gen, WithClock(func() time.Time { return previewNow })), store
}

func countLessons(t *testing.T, store *lessons.Store) int {
	t.Helper()
	n, err := store.Lessons.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestRemixValidation(t *testing.T) {
	gen := &fakeGenerator{reply: toddlerReply}
	svc, _ := setup(t, gen)
	ctx := context.Background()

	t.Run("no base lesson", func(t *testing.T) {
		_, err := svc.Remix(ctx, Request{NewAgeGroup: models.AgeToddler})
		require.True(t, storage.IsValidation(err))
		assert.Equal(t, "Base lesson is required", err.Error())
	})

	t.Run("unknown base id", func(t *testing.T) {
		_, err := svc.Remix(ctx, Request{BaseLessonID: "lesson_missing", NewAgeGroup: models.AgeToddler})
		assert.ErrorIs(t, err, ErrBaseNotFound)
	})

	t.Run("no adaptation parameters", func(t *testing.T) {
		_, err := svc.Remix(ctx, Request{BaseLessonID: "lesson_colors"})
		assert.True(t, storage.IsValidation(err))
	})

	t.Run("invalid age group", func(t *testing.T) {
		_, err := svc.Remix(ctx, Request{BaseLessonID: "lesson_colors", NewAgeGroup: "teen"})
		assert.True(t, storage.IsValidation(err))
	})

	t.Run("inline base needs a title", func(t *testing.T) {
		_, err := svc.Remix(ctx, Request{BaseLesson: &models.Lesson{}, NewDuration: 10})
		assert.True(t, storage.IsValidation(err))
	})

	assert.Zero(t, gen.calls)
}

func TestRemixNotConfigured(t *testing.T) {
	svc, _ := setup(t, nil)
	_, err := svc.Remix(context.Background(), Request{BaseLessonID: "lesson_colors", NewAgeGroup: models.AgeToddler})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRemixPreview(t *testing.T) {
	gen := &fakeGenerator{reply: toddlerReply}
	svc, store := setup(t, gen)
	before := countLessons(t, store)

	res, err := svc.Remix(context.Background(), Request{
		BaseLessonID:    "lesson_colors",
		NewAgeGroup:     models.AgeToddler,
		AdaptationNotes: "Keep paint contained",
		Save:            false,
	})
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.True(t, strings.HasPrefix(res.Lesson.ID, "preview_"))
	assert.Equal(t, previewNow, res.Lesson.CreatedAt)
	assert.Equal(t, "lesson_colors", res.Lesson.RemixedFrom)
	assert.Equal(t, models.AgeToddler, res.Lesson.AgeGroup)
	assert.Equal(t, before, countLessons(t, store))

	assert.Equal(t, 1, gen.calls)
	assert.True(t, gen.hasDead)
	assert.Contains(t, gen.prompt, "Color Mixing Discovery")
	assert.Contains(t, gen.prompt, "Keep paint contained")
}

func TestRemixSave(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + toddlerReply + "\n```"}
	svc, store := setup(t, gen)
	before := countLessons(t, store)

	res, err := svc.Remix(context.Background(), Request{
		BaseLesson:  &models.Lesson{Title: "Inline base", AgeGroup: models.AgePreschool, Domain: "art"},
		NewDuration: 20,
		Save:        true,
	})
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, 20, res.Lesson.DurationMinutes)
	assert.Equal(t, before+1, countLessons(t, store))

	stored, err := store.Get(context.Background(), res.Lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Little Color Mixers", stored.Title)
}

func TestRemixUpstreamFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"generator error", &fakeGenerator{err: errors.New("connection reset")}},
		{"not json", &fakeGenerator{reply: "Sure! Here is your lesson."}},
		{"missing title", &fakeGenerator{reply: `{"ageGroup": "toddler"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setup(t, tt.gen)
			before := countLessons(t, store)
			_, err := svc.Remix(context.Background(), Request{BaseLessonID: "lesson_story", NewDomain: "math", Save: true})
			assert.ErrorIs(t, err, ErrUpstream)
			assert.Equal(t, before, countLessons(t, store))
		})
	}
}
