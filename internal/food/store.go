// Package food tracks CACFP meal counts, pantry inventory and menus.
package food

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// Collection keys.
const (
	KeyFoodCounts  = "food_counts"
	KeyInventory   = "inventory"
	KeyMenuItems   = "menu_items"
	KeyWeeklyMenus = "weekly_menus"
)

// DefaultLookahead is how far ahead an expiration date raises expiring_soon.
const DefaultLookahead = 7 * 24 * time.Hour

// Store groups the food-domain collections.
type Store struct {
	Counts    *storage.Collection[models.FoodCount, *models.FoodCount]
	Inventory *storage.Collection[models.InventoryItem, *models.InventoryItem]
	MenuItems *storage.Collection[models.MenuItem, *models.MenuItem]
	Menus     *storage.Collection[models.WeeklyMenu, *models.WeeklyMenu]

	// Lookahead is the expiring_soon window used by Alerts.
	Lookahead time.Duration

	now    func() time.Time
	logger *slog.Logger
}

// New creates the food store on top of kv.
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
		Counts:    storage.NewCollection[models.FoodCount](kv, storage.Key(KeyFoodCounts), "fc", opts).WithValidator(validateCount),
		Inventory: storage.NewCollection[models.InventoryItem](kv, storage.Key(KeyInventory), "inv", opts).WithValidator(validateItem),
		MenuItems: storage.NewCollection[models.MenuItem](kv, storage.Key(KeyMenuItems), "menu", opts).WithValidator(validateMenuItem),
		Menus:     storage.NewCollection[models.WeeklyMenu](kv, storage.Key(KeyWeeklyMenus), "week", opts).WithValidator(validateMenu),
		Lookahead: DefaultLookahead,
		now:       now,
		logger:    logger,
	}
}

func validateCount(c *models.FoodCount) error {
	if c.Date.IsZero() {
		return storage.Invalid("date", "is required")
	}
	if !c.MealType.Valid() {
		return storage.Invalid("mealType", "unknown meal type %q", c.MealType)
	}
	if c.ChildrenServed < 0 || c.AdultsServed < 0 {
		return storage.Invalid("childrenServed", "counts cannot be negative")
	}
	return nil
}

func validateItem(i *models.InventoryItem) error {
	i.Name = strings.TrimSpace(i.Name)
	if i.Name == "" {
		return storage.Invalid("name", "is required")
	}
	if i.CurrentValue < 0 {
		return storage.Invalid("currentValue", "cannot be negative")
	}
	if i.ReorderThreshold < 0 {
		return storage.Invalid("reorderThreshold", "cannot be negative")
	}
	return nil
}

func validateMenuItem(m *models.MenuItem) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return storage.Invalid("name", "is required")
	}
	if m.MealType != "" && !m.MealType.Valid() {
		return storage.Invalid("mealType", "unknown meal type %q", m.MealType)
	}
	return nil
}

func validateMenu(w *models.WeeklyMenu) error {
	if w.WeekStart.IsZero() {
		return storage.Invalid("weekStart", "is required")
	}
	w.WeekStart = models.WeekStart(w.WeekStart)
	for day, meals := range w.Days {
		for meal := range meals {
			if !meal.Valid() {
				return storage.Invalid("days."+day, "unknown meal type %q", meal)
			}
		}
	}
	return nil
}

// AdjustQuantity adds delta to an item's quantity on hand. The result never
// drops below zero.
func (s *Store) AdjustQuantity(ctx context.Context, id string, delta float64) (models.InventoryItem, error) {
	item, err := s.Inventory.Update(ctx, id, func(i *models.InventoryItem) error {
		i.CurrentValue += delta
		if i.CurrentValue < 0 {
			i.CurrentValue = 0
		}
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("failed to adjust quantity: %w", err)
	}
	s.logger.Debug("Inventory adjusted", "item_id", id, "delta", delta, "current", item.CurrentValue)
	return item, nil
}

// MenuForWeek returns the menu for the week containing weekStart.
func (s *Store) MenuForWeek(ctx context.Context, weekStart time.Time) (models.WeeklyMenu, error) {
	monday := models.WeekStart(weekStart)
	menus, err := s.Menus.Find(ctx, func(w models.WeeklyMenu) bool { return w.WeekStart.Equal(monday) })
	if err != nil {
		return models.WeeklyMenu{}, err
	}
	if len(menus) == 0 {
		return models.WeeklyMenu{}, fmt.Errorf("menu for week of %s: %w", monday.Format(time.DateOnly), storage.ErrNotFound)
	}
	return menus[len(menus)-1], nil
}
