package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
)

// Record is satisfied by pointers to record types that embed models.Meta.
type Record[T any] interface {
	*T
	Base() *models.Meta
}

// Options configures a Collection.
type Options struct {
	// Strict makes unreadable blobs fail with ErrCorrupt instead of being
	// logged and treated as an empty collection.
	Strict bool

	// Now returns the current time. Defaults to time.Now in UTC.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Collection persists records of one type as a single JSON object
// {id: record} under one key. Every write rewrites the whole blob.
//
// Read-modify-write cycles are serialised within the process. Separate
// processes sharing a backend still race and the last writer wins.
type Collection[T any, P Record[T]] struct {
	kv       KV
	key      string
	prefix   string
	strict   bool
	now      func() time.Time
	logger   *slog.Logger
	validate func(P) error
	unique   []uniqueField[T]

	mu sync.Mutex
}

// NewCollection creates a collection stored under key whose generated ids
// start with idPrefix.
func NewCollection[T any, P Record[T]](kv KV, key, idPrefix string, opts Options) *Collection[T, P] {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T, P]{
		kv:     kv,
		key:    key,
		prefix: idPrefix,
		strict: opts.Strict,
		now:    now,
		logger: logger,
	}
}

// WithValidator installs a hook run on every record before it is written by
// Create, Update, Patch or Put. The hook may also fill derived fields.
func (c *Collection[T, P]) WithValidator(fn func(P) error) *Collection[T, P] {
	c.validate = fn
	return c
}

type uniqueField[T any] struct {
	name string
	key  func(T) string
}

// WithUnique rejects writes whose key(rec) matches another record's with
// ErrExists. Empty keys never conflict. The check runs after the validator,
// so keys may rely on normalised fields.
func (c *Collection[T, P]) WithUnique(field string, key func(T) string) *Collection[T, P] {
	c.unique = append(c.unique, uniqueField[T]{name: field, key: key})
	return c
}

// Key returns the backend key the collection is stored under.
func (c *Collection[T, P]) Key() string { return c.key }

// Now returns the collection clock's current time.
func (c *Collection[T, P]) Now() time.Time { return c.now() }

// List returns every record ordered by creation time, then id.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	records, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return sorted[T, P](records), nil
}

// Find returns the records matching keep, in List order.
func (c *Collection[T, P]) Find(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, rec := range all {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (c *Collection[T, P]) Count(ctx context.Context) (int, error) {
	records, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Get returns the record with the given id, or ErrNotFound.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	records, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	rec, ok := records[id]
	if !ok {
		return zero, c.notFound(id)
	}
	return rec, nil
}

// Create assigns an id (unless one is set) and timestamps, validates, and
// stores rec. It returns the stored record.
func (c *Collection[T, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	meta := P(&rec).Base()
	if meta.ID == "" {
		meta.ID = NewID(c.prefix)
	} else if _, taken := records[meta.ID]; taken {
		return zero, fmt.Errorf("%s %s: %w", c.key, meta.ID, ErrExists)
	}
	now := c.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := c.check(P(&rec), records); err != nil {
		return zero, err
	}

	records[meta.ID] = rec
	if err := c.save(ctx, records); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update applies mutate to the stored record and rewrites the collection.
// The id and CreatedAt cannot be changed by mutate. When id is absent the
// collection is left untouched and ErrNotFound is returned.
func (c *Collection[T, P]) Update(ctx context.Context, id string, mutate func(P) error) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	rec, ok := records[id]
	if !ok {
		return zero, c.notFound(id)
	}
	original := *P(&rec).Base()

	if err := mutate(P(&rec)); err != nil {
		return zero, err
	}

	meta := P(&rec).Base()
	meta.ID = original.ID
	meta.CreatedAt = original.CreatedAt
	meta.UpdatedAt = c.now()

	if err := c.check(P(&rec), records); err != nil {
		return zero, err
	}

	records[id] = rec
	if err := c.save(ctx, records); err != nil {
		return zero, err
	}
	return rec, nil
}

// Patch merges the fields present in a JSON object onto the stored record.
func (c *Collection[T, P]) Patch(ctx context.Context, id string, patch json.RawMessage) (T, error) {
	return c.Update(ctx, id, func(rec P) error {
		if err := json.Unmarshal(patch, rec); err != nil {
			return &ValidationError{Field: "body", Message: fmt.Sprintf("invalid patch: %v", err)}
		}
		return nil
	})
}

// Put stores rec under its own id, creating or replacing. CreatedAt of an
// existing record is preserved.
func (c *Collection[T, P]) Put(ctx context.Context, rec T) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	meta := P(&rec).Base()
	if meta.ID == "" {
		return zero, &ValidationError{Field: "id", Message: "id is required"}
	}

	records, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	now := c.now()
	if existing, ok := records[meta.ID]; ok {
		meta.CreatedAt = P(&existing).Base().CreatedAt
	} else {
		meta.CreatedAt = now
	}
	meta.UpdatedAt = now

	if err := c.check(P(&rec), records); err != nil {
		return zero, err
	}

	records[meta.ID] = rec
	if err := c.save(ctx, records); err != nil {
		return zero, err
	}
	return rec, nil
}

// Remove deletes the record with id. Removing an absent id is a no-op.
func (c *Collection[T, P]) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return c.save(ctx, records)
}

// SeedIfEmpty stores samples only when the collection holds no records. It
// reports whether anything was written. Samples without ids get generated ones.
func (c *Collection[T, P]) SeedIfEmpty(ctx context.Context, samples []T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	if len(records) > 0 || len(samples) == 0 {
		return false, nil
	}

	now := c.now()
	for i := range samples {
		rec := samples[i]
		meta := P(&rec).Base()
		if meta.ID == "" {
			meta.ID = NewID(c.prefix)
		}
		if meta.CreatedAt.IsZero() {
			// Offset keeps seed order stable when sorted by creation time.
			meta.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		if meta.UpdatedAt.IsZero() {
			meta.UpdatedAt = meta.CreatedAt
		}
		records[meta.ID] = rec
	}
	if err := c.save(ctx, records); err != nil {
		return false, err
	}
	c.logger.Info("Seeded collection", "key", c.key, "count", len(samples))
	return true, nil
}

func (c *Collection[T, P]) check(rec P, records map[string]T) error {
	if c.validate != nil {
		if err := c.validate(rec); err != nil {
			return err
		}
	}
	id := rec.Base().ID
	for _, u := range c.unique {
		k := u.key(*rec)
		if k == "" {
			continue
		}
		for otherID, other := range records {
			if otherID != id && u.key(other) == k {
				return fmt.Errorf("%s %q is already in use: %w", u.name, k, ErrExists)
			}
		}
	}
	return nil
}

func (c *Collection[T, P]) notFound(id string) error {
	return fmt.Errorf("%s %s: %w", c.key, id, ErrNotFound)
}

func (c *Collection[T, P]) load(ctx context.Context) (map[string]T, error) {
	data, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	if !ok || len(data) == 0 {
		return map[string]T{}, nil
	}

	var records map[string]T
	if err := json.Unmarshal(data, &records); err != nil {
		if c.strict {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.key, err)
		}
		c.logger.Warn("Discarding unreadable collection", "key", c.key, "error", err)
		return map[string]T{}, nil
	}
	if records == nil {
		records = map[string]T{}
	}
	return records, nil
}

func (c *Collection[T, P]) save(ctx context.Context, records map[string]T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return nil
}

func sorted[T any, P Record[T]](records map[string]T) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := P(&out[i]).Base(), P(&out[j]).Base()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// ValidationError reports malformed or incomplete input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Invalid is shorthand for a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
