package employees

import (
	"context"
	"fmt"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
)

// ClockIn opens a time entry for the employee in their assigned classroom.
func (s *Store) ClockIn(ctx context.Context, employeeID string) (models.TimeEntry, error) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if !emp.Active {
		return models.TimeEntry{}, fmt.Errorf("%s: %w", employeeID, ErrInactive)
	}

	open, err := s.openEntry(ctx, employeeID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if open != nil {
		return models.TimeEntry{}, fmt.Errorf("%s since %s: %w", employeeID, open.ClockIn.Format(time.Kitchen), ErrAlreadyClockedIn)
	}

	entry, err := s.TimeEntries.Create(ctx, models.TimeEntry{
		EmployeeID: employeeID,
		Classroom:  emp.Classroom,
		ClockIn:    s.now(),
	})
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("failed to clock in: %w", err)
	}
	s.logger.Info("Employee clocked in", "employee_id", employeeID, "classroom", emp.Classroom)
	return entry, nil
}

// ClockOut closes the employee's open time entry.
func (s *Store) ClockOut(ctx context.Context, employeeID string) (models.TimeEntry, error) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	open, err := s.openEntry(ctx, employeeID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if open == nil {
		return models.TimeEntry{}, fmt.Errorf("%s: %w", employeeID, ErrNotClockedIn)
	}

	entry, err := s.TimeEntries.Update(ctx, open.ID, func(e *models.TimeEntry) error {
		now := s.now()
		e.ClockOut = &now
		return nil
	})
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("failed to clock out: %w", err)
	}
	s.logger.Info("Employee clocked out",
		"employee_id", employeeID,
		"hours", roundHours(entry.Duration(s.now())),
	)
	return entry, nil
}

// OpenEntries returns the time entries of everyone currently on the clock.
func (s *Store) OpenEntries(ctx context.Context) ([]models.TimeEntry, error) {
	return s.TimeEntries.Find(ctx, func(e models.TimeEntry) bool { return e.Open() })
}

// EntriesFor returns the employee's entries that started in [from, to).
func (s *Store) EntriesFor(ctx context.Context, employeeID string, from, to time.Time) ([]models.TimeEntry, error) {
	return s.TimeEntries.Find(ctx, func(e models.TimeEntry) bool {
		return e.EmployeeID == employeeID && !e.ClockIn.Before(from) && e.ClockIn.Before(to)
	})
}

// HoursWorked sums the employee's entries started in [from, to). Open entries
// count up to now.
func (s *Store) HoursWorked(ctx context.Context, employeeID string, from, to time.Time) (float64, error) {
	entries, err := s.EntriesFor(ctx, employeeID, from, to)
	if err != nil {
		return 0, err
	}
	now := s.now()
	var total time.Duration
	for _, e := range entries {
		total += e.Duration(now)
	}
	return roundHours(total), nil
}

func (s *Store) openEntry(ctx context.Context, employeeID string) (*models.TimeEntry, error) {
	open, err := s.TimeEntries.Find(ctx, func(e models.TimeEntry) bool {
		return e.EmployeeID == employeeID && e.Open()
	})
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}
	return &open[len(open)-1], nil
}

// roundHours converts to hours rounded to two decimals.
func roundHours(d time.Duration) float64 {
	return float64(d.Round(36*time.Second)) / float64(time.Hour)
}
