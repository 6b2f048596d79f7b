package employees

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// GeneratePayStub computes and stores the pay stub for [periodStart, periodEnd).
// Hourly staff are paid hours × rate; salaried staff receive their allocation's
// per-period amount.
func (s *Store) GeneratePayStub(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (models.PayStub, error) {
	if !periodEnd.After(periodStart) {
		return models.PayStub{}, storage.Invalid("periodEnd", "must be after periodStart")
	}
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return models.PayStub{}, err
	}
	hours, err := s.HoursWorked(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return models.PayStub{}, err
	}

	stub := models.PayStub{
		EmployeeID:  employeeID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Hours:       hours,
	}
	if emp.Salaried {
		allocs, err := s.Allocations.Find(ctx, func(a models.SalariedAllocation) bool { return a.EmployeeID == employeeID })
		if err != nil {
			return models.PayStub{}, err
		}
		if len(allocs) == 0 {
			return models.PayStub{}, fmt.Errorf("%s: %w", employeeID, ErrNoAllocation)
		}
		stub.GrossPay = roundCents(allocs[len(allocs)-1].PerPeriod())
	} else {
		stub.Rate = emp.HourlyRate
		stub.GrossPay = roundCents(hours * emp.HourlyRate)
	}

	created, err := s.PayStubs.Create(ctx, stub)
	if err != nil {
		return models.PayStub{}, fmt.Errorf("failed to create pay stub: %w", err)
	}
	s.logger.Info("Pay stub generated", "employee_id", employeeID, "gross", created.GrossPay)
	return created, nil
}

// PayStubsFor returns the employee's pay stubs, most recent period first.
func (s *Store) PayStubsFor(ctx context.Context, employeeID string) ([]models.PayStub, error) {
	stubs, err := s.PayStubs.Find(ctx, func(p models.PayStub) bool { return p.EmployeeID == employeeID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stubs, func(i, j int) bool { return stubs[i].PeriodEnd.After(stubs[j].PeriodEnd) })
	return stubs, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
