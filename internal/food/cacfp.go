package food

import (
	"context"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// MealTotal is the month's count for one meal service.
type MealTotal struct {
	MealType       models.MealType `json:"mealType"`
	ChildrenServed int             `json:"childrenServed"`
	AdultsServed   int             `json:"adultsServed"`
	DaysServed     int             `json:"daysServed"`
}

// CACFPReport is the monthly meal count claimed for reimbursement.
type CACFPReport struct {
	Year            int         `json:"year"`
	Month           time.Month  `json:"month"`
	Meals           []MealTotal `json:"meals"`
	TotalChildren   int         `json:"totalChildren"`
	TotalAdults     int         `json:"totalAdults"`
	DaysWithService int         `json:"daysWithService"`
}

// CACFPReport totals the month's food counts per meal type. Every meal type
// is listed, in serving order, even when nothing was served.
func (s *Store) CACFPReport(ctx context.Context, year int, month time.Month) (CACFPReport, error) {
	if month < time.January || month > time.December {
		return CACFPReport{}, storage.Invalid("month", "must be between 1 and 12")
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	counts, err := s.Counts.Find(ctx, func(c models.FoodCount) bool {
		d := c.Date.UTC()
		return !d.Before(start) && d.Before(end)
	})
	if err != nil {
		return CACFPReport{}, err
	}

	totals := make(map[models.MealType]*MealTotal, len(models.MealTypes))
	mealDays := make(map[models.MealType]map[string]bool, len(models.MealTypes))
	for _, m := range models.MealTypes {
		totals[m] = &MealTotal{MealType: m}
		mealDays[m] = make(map[string]bool)
	}
	days := make(map[string]bool)

	report := CACFPReport{Year: year, Month: month}
	for _, c := range counts {
		t, ok := totals[c.MealType]
		if !ok {
			continue
		}
		day := c.Date.UTC().Format(time.DateOnly)
		t.ChildrenServed += c.ChildrenServed
		t.AdultsServed += c.AdultsServed
		mealDays[c.MealType][day] = true
		days[day] = true
		report.TotalChildren += c.ChildrenServed
		report.TotalAdults += c.AdultsServed
	}

	for _, m := range models.MealTypes {
		t := totals[m]
		t.DaysServed = len(mealDays[m])
		report.Meals = append(report.Meals, *t)
	}
	report.DaysWithService = len(days)
	return report, nil
}
