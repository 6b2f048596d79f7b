// Package app assembles the domain stores on one storage backend.
package app

import (
	"context"
	"fmt"

	"github.com/brightbeginnings/daycare/internal/employees"
	"github.com/brightbeginnings/daycare/internal/families"
	"github.com/brightbeginnings/daycare/internal/food"
	"github.com/brightbeginnings/daycare/internal/lessons"
	"github.com/brightbeginnings/daycare/internal/news"
	"github.com/brightbeginnings/daycare/internal/storage"
	"github.com/brightbeginnings/daycare/internal/tours"
)

// Stores is every domain store, sharing one backend.
type Stores struct {
	Employees *employees.Store
	Families  *families.Store
	Food      *food.Store
	Lessons   *lessons.Store
	News      *news.Store
	Tours     *tours.Store
}

// NewStores creates the domain stores on kv.
func NewStores(kv storage.KV, opts storage.Options) *Stores {
	return &Stores{
		Employees: employees.New(kv, opts),
		Families:  families.New(kv, opts),
		Food:      food.New(kv, opts),
		Lessons:   lessons.New(kv, opts),
		News:      news.New(kv, opts),
		Tours:     tours.New(kv, opts),
	}
}

// Seed fills every empty collection with demo data. Collections that already
// hold records are left alone, so Seed is safe to run on every start.
func (s *Stores) Seed(ctx context.Context) error {
	seeders := []struct {
		name string
		seed func(context.Context) error
	}{
		{"employees", s.Employees.Seed},
		{"families", s.Families.Seed},
		{"food", s.Food.Seed},
		{"lessons", s.Lessons.Seed},
		{"news", s.News.Seed},
	}
	for _, sd := range seeders {
		if err := sd.seed(ctx); err != nil {
			return fmt.Errorf("failed to seed %s: %w", sd.name, err)
		}
	}
	return nil
}
