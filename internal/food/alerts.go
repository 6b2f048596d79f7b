package food

import (
	"context"
	"sort"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
)

// AlertKind identifies why an inventory item needs attention.
type AlertKind string

const (
	AlertExpired      AlertKind = "expired"
	AlertExpiringSoon AlertKind = "expiring_soon"
	AlertLowStock     AlertKind = "low_stock"
)

var alertRank = map[AlertKind]int{
	AlertExpired:      0,
	AlertExpiringSoon: 1,
	AlertLowStock:     2,
}

// Alert is derived from an inventory item on every read and never stored.
type Alert struct {
	Kind     AlertKind  `json:"kind"`
	ItemID   string     `json:"itemId"`
	ItemName string     `json:"itemName"`
	Message  string     `json:"message"`
	Current  float64    `json:"currentValue"`
	Unit     string     `json:"unit,omitempty"`
	Expires  *time.Time `json:"expirationDate,omitempty"`
}

// Summary counts alerts by kind.
type Summary struct {
	Total        int `json:"total"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiringSoon"`
	LowStock     int `json:"lowStock"`
}

// Report is the full alert listing for the inventory.
type Report struct {
	Alerts  []Alert `json:"alerts"`
	Summary Summary `json:"summary"`
}

// Classify returns the alerts for one item. An item can be both low on stock
// and expired (or expiring), but never both expired and expiring_soon.
func Classify(item models.InventoryItem, now time.Time, lookahead time.Duration) []Alert {
	var out []Alert
	if item.ExpirationDate != nil {
		exp := *item.ExpirationDate
		switch {
		case exp.Before(now):
			out = append(out, newAlert(AlertExpired, item, "Expired on "+exp.Format(time.DateOnly)))
		case !exp.After(now.Add(lookahead)):
			out = append(out, newAlert(AlertExpiringSoon, item, "Expires on "+exp.Format(time.DateOnly)))
		}
	}
	if item.CurrentValue <= item.ReorderThreshold {
		out = append(out, newAlert(AlertLowStock, item, "Stock at or below reorder threshold"))
	}
	return out
}

func newAlert(kind AlertKind, item models.InventoryItem, msg string) Alert {
	return Alert{
		Kind:     kind,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message:  msg,
		Current:  item.CurrentValue,
		Unit:     item.Unit,
		Expires:  item.ExpirationDate,
	}
}

// Summarize counts alerts by kind.
func Summarize(alerts []Alert) Summary {
	s := Summary{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Kind {
		case AlertExpired:
			s.Expired++
		case AlertExpiringSoon:
			s.ExpiringSoon++
		case AlertLowStock:
			s.LowStock++
		}
	}
	return s
}

// SortAlerts orders alerts expired, then expiring_soon, then low_stock,
// keeping item order within a kind.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alertRank[alerts[i].Kind] < alertRank[alerts[j].Kind]
	})
}

// Alerts classifies every inventory item against the store clock.
func (s *Store) Alerts(ctx context.Context) (Report, error) {
	items, err := s.Inventory.List(ctx)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	alerts := make([]Alert, 0)
	for _, item := range items {
		alerts = append(alerts, Classify(item, now, s.Lookahead)...)
	}
	SortAlerts(alerts)
	return Report{Alerts: alerts, Summary: Summarize(alerts)}, nil
}
