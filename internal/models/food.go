package models

import "time"

// MealType is a CACFP reimbursable meal service.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealAMSnack   MealType = "am_snack"
	MealLunch     MealType = "lunch"
	MealPMSnack   MealType = "pm_snack"
	MealSupper    MealType = "supper"
)

// MealTypes lists meal services in serving order.
var MealTypes = []MealType{MealBreakfast, MealAMSnack, MealLunch, MealPMSnack, MealSupper}

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if t == m {
			return true
		}
	}
	return false
}

// FoodCount records how many meals one classroom was served at one service.
type FoodCount struct {
	Meta

	Date           time.Time `json:"date"`
	MealType       MealType  `json:"mealType"`
	Classroom      string    `json:"classroom"`
	ChildrenServed int       `json:"childrenServed"`
	AdultsServed   int       `json:"adultsServed"`
}

// InventoryItem is a stocked pantry or supply item.
type InventoryItem struct {
	Meta

	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`

	// CurrentValue is the quantity on hand, in Unit.
	CurrentValue float64 `json:"currentValue"`

	// ReorderThreshold triggers a low_stock alert when CurrentValue is at or below it.
	ReorderThreshold float64 `json:"reorderThreshold"`

	// ExpirationDate is nil for non-perishables.
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// MenuItem is a dish that can be placed on a weekly menu.
type MenuItem struct {
	Meta

	Name       string   `json:"name"`
	MealType   MealType `json:"mealType"`
	Components []string `json:"components"`
	Allergens  []string `json:"allergens,omitempty"`
}

// WeeklyMenu maps weekday ("monday".."friday") and meal type to a menu item id.
type WeeklyMenu struct {
	Meta

	WeekStart time.Time                      `json:"weekStart"`
	Days      map[string]map[MealType]string `json:"days"`
}
