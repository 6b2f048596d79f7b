// Package jobs runs scheduled background work: the daily inventory alert
// digest and overdue training reminders.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightbeginnings/daycare/internal/employees"
	"github.com/brightbeginnings/daycare/internal/food"
)

// maxListed is how many alerts a digest spells out before "+N more".
const maxListed = 5

// Digest turns inventory alerts and overdue training into staff notifications.
type Digest struct {
	food   *food.Store
	staff  *employees.Store
	logger *slog.Logger
	alerts *prometheus.GaugeVec
}

// NewDigest creates the digest job. When reg is non-nil an alert gauge is
// registered with it.
func NewDigest(foodStore *food.Store, staff *employees.Store, reg prometheus.Registerer, logger *slog.Logger) *Digest {
	d := &Digest{
		food:   foodStore,
		staff:  staff,
		logger: logger,
		alerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "daycare",
			Subsystem: "inventory",
			Name:      "alerts",
			Help:      "Inventory alerts by kind at the last digest run.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(d.alerts)
	}
	return d
}

// Run computes the current alerts, broadcasts a summary notification when
// there are any, and reminds staff of overdue training. It returns the
// alert report it used.
func (d *Digest) Run(ctx context.Context) (food.Report, error) {
	report, err := d.food.Alerts(ctx)
	if err != nil {
		return food.Report{}, fmt.Errorf("failed to compute alerts: %w", err)
	}
	d.alerts.WithLabelValues(string(food.AlertExpired)).Set(float64(report.Summary.Expired))
	d.alerts.WithLabelValues(string(food.AlertExpiringSoon)).Set(float64(report.Summary.ExpiringSoon))
	d.alerts.WithLabelValues(string(food.AlertLowStock)).Set(float64(report.Summary.LowStock))

	if report.Summary.Total > 0 {
		title := fmt.Sprintf("Inventory: %d alert(s)", report.Summary.Total)
		if _, err := d.staff.Notify(ctx, "", title, FormatDigest(report)); err != nil {
			return report, fmt.Errorf("failed to send inventory digest: %w", err)
		}
	}

	overdue, err := d.staff.OverdueTraining(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list overdue training: %w", err)
	}
	for _, m := range overdue {
		body := fmt.Sprintf("%q was due %s.", m.Title, m.DueDate.Format("Jan 2"))
		if _, err := d.staff.Notify(ctx, m.EmployeeID, "Training overdue", body); err != nil {
			return report, fmt.Errorf("failed to send training reminder: %w", err)
		}
	}

	d.logger.Info("Digest sent",
		"alerts", report.Summary.Total,
		"expired", report.Summary.Expired,
		"overdue_training", len(overdue),
	)
	return report, nil
}

// FormatDigest renders alerts one per line, listing at most five.
func FormatDigest(report food.Report) string {
	var b strings.Builder
	for i, a := range report.Alerts {
		if i == maxListed {
			fmt.Fprintf(&b, "+%d more", len(report.Alerts)-maxListed)
			break
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", a.ItemName, a.Message, strings.ReplaceAll(string(a.Kind), "_", " "))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
