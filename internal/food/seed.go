package food

import (
	"context"
	"fmt"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
)

// Seed populates empty food collections with demo data relative to the
// store clock, so a fresh install shows a few alerts.
func (s *Store) Seed(ctx context.Context) error {
	today := models.StartOfDay(s.now())
	in := func(days int) *time.Time {
		t := today.AddDate(0, 0, days)
		return &t
	}

	if _, err := s.Inventory.SeedIfEmpty(ctx, []models.InventoryItem{
		{Name: "Whole milk", Category: "dairy", Unit: "gallons", CurrentValue: 6, ReorderThreshold: 4, ExpirationDate: in(3)},
		{Name: "Rolled oats", Category: "grains", Unit: "lbs", CurrentValue: 2, ReorderThreshold: 5},
		{Name: "Bananas", Category: "produce", Unit: "bunches", CurrentValue: 5, ReorderThreshold: 2, ExpirationDate: in(-1)},
		{Name: "Whole wheat bread", Category: "grains", Unit: "loaves", CurrentValue: 8, ReorderThreshold: 3, ExpirationDate: in(12)},
		{Name: "Shredded cheddar", Category: "dairy", Unit: "lbs", CurrentValue: 1, ReorderThreshold: 2, ExpirationDate: in(5)},
	}); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	items := []models.MenuItem{
		{Meta: models.Meta{ID: "menu_oatmeal"}, Name: "Oatmeal with bananas", MealType: models.MealBreakfast, Components: []string{"grain", "fruit", "milk"}, Allergens: []string{"milk"}},
		{Meta: models.Meta{ID: "menu_apples"}, Name: "Apple slices and cheese", MealType: models.MealAMSnack, Components: []string{"fruit", "meat_alternate"}, Allergens: []string{"milk"}},
		{Meta: models.Meta{ID: "menu_chicken"}, Name: "Baked chicken, rice and peas", MealType: models.MealLunch, Components: []string{"meat", "grain", "vegetable", "milk"}, Allergens: []string{"milk"}},
		{Meta: models.Meta{ID: "menu_pasta"}, Name: "Turkey pasta with carrots", MealType: models.MealLunch, Components: []string{"meat", "grain", "vegetable", "milk"}, Allergens: []string{"wheat", "milk"}},
		{Meta: models.Meta{ID: "menu_crackers"}, Name: "Crackers and hummus", MealType: models.MealPMSnack, Components: []string{"grain", "meat_alternate"}, Allergens: []string{"wheat", "sesame"}},
	}
	if _, err := s.MenuItems.SeedIfEmpty(ctx, items); err != nil {
		return fmt.Errorf("failed to seed menu items: %w", err)
	}

	days := map[string]map[models.MealType]string{}
	for i, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		lunch := "menu_chicken"
		if i%2 == 1 {
			lunch = "menu_pasta"
		}
		days[day] = map[models.MealType]string{
			models.MealBreakfast: "menu_oatmeal",
			models.MealAMSnack:   "menu_apples",
			models.MealLunch:     lunch,
			models.MealPMSnack:   "menu_crackers",
		}
	}
	if _, err := s.Menus.SeedIfEmpty(ctx, []models.WeeklyMenu{
		{WeekStart: models.WeekStart(today), Days: days},
	}); err != nil {
		return fmt.Errorf("failed to seed weekly menus: %w", err)
	}

	var counts []models.FoodCount
	for back := 3; back >= 1; back-- {
		day := today.AddDate(0, 0, -back)
		for _, room := range []struct {
			name     string
			children int
		}{{"Sunflowers", 6}, {"Bluebirds", 9}} {
			for _, meal := range []models.MealType{models.MealBreakfast, models.MealLunch, models.MealPMSnack} {
				counts = append(counts, models.FoodCount{Date: day, MealType: meal, Classroom: room.name, ChildrenServed: room.children, AdultsServed: 2})
			}
		}
	}
	if _, err := s.Counts.SeedIfEmpty(ctx, counts); err != nil {
		return fmt.Errorf("failed to seed food counts: %w", err)
	}
	return nil
}
