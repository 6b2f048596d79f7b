// Package employees holds staff records and everything hung off them: time
// clock entries, pay stubs, time off, schedules, training, notifications and
// classroom ratio monitoring.
package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// Collection keys.
const (
	KeyEmployees           = "employees"
	KeyTimeEntries         = "time_entries"
	KeyPayStubs            = "pay_stubs"
	KeyTimeOffRequests     = "time_off_requests"
	KeySchedules           = "schedules"
	KeyTrainingModules     = "training_modules"
	KeyScheduleRequests    = "schedule_requests"
	KeySalariedAllocations = "salaried_allocations"
	KeyNotifications       = "notifications"
)

var (
	ErrAlreadyClockedIn = errors.New("employee is already clocked in")
	ErrNotClockedIn     = errors.New("employee is not clocked in")
	ErrInactive         = errors.New("employee is inactive")
	ErrAlreadyDecided   = errors.New("request has already been decided")
	ErrNoAllocation     = errors.New("salaried employee has no allocation")
	ErrPINInUse         = errors.New("PIN is already in use")
	ErrNotOwner         = errors.New("record belongs to another employee")
)

// Store groups the employee-domain collections.
type Store struct {
	Employees        *storage.Collection[models.Employee, *models.Employee]
	TimeEntries      *storage.Collection[models.TimeEntry, *models.TimeEntry]
	PayStubs         *storage.Collection[models.PayStub, *models.PayStub]
	TimeOff          *storage.Collection[models.TimeOffRequest, *models.TimeOffRequest]
	Shifts           *storage.Collection[models.Shift, *models.Shift]
	Training         *storage.Collection[models.TrainingModule, *models.TrainingModule]
	ScheduleRequests *storage.Collection[models.ScheduleRequest, *models.ScheduleRequest]
	Allocations      *storage.Collection[models.SalariedAllocation, *models.SalariedAllocation]
	Notifications    *storage.Collection[models.Notification, *models.Notification]

	now    func() time.Time
	logger *slog.Logger

	// clockMu makes the open-entry check and the insert in ClockIn atomic.
	clockMu sync.Mutex
	// pinMu makes the uniqueness check and the write in SetPIN atomic.
	pinMu sync.Mutex
	// decideMu serialises schedule request decisions.
	decideMu sync.Mutex
}

// New creates the employee store on top of kv.
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
		Employees:        storage.NewCollection[models.Employee](kv, storage.Key(KeyEmployees), "emp", opts).WithValidator(validateEmployee),
		TimeEntries:      storage.NewCollection[models.TimeEntry](kv, storage.Key(KeyTimeEntries), "te", opts),
		PayStubs:         storage.NewCollection[models.PayStub](kv, storage.Key(KeyPayStubs), "pay", opts),
		TimeOff:          storage.NewCollection[models.TimeOffRequest](kv, storage.Key(KeyTimeOffRequests), "pto", opts).WithValidator(validateTimeOff),
		Shifts:           storage.NewCollection[models.Shift](kv, storage.Key(KeySchedules), "shift", opts).WithValidator(validateShift),
		Training:         storage.NewCollection[models.TrainingModule](kv, storage.Key(KeyTrainingModules), "trn", opts),
		ScheduleRequests: storage.NewCollection[models.ScheduleRequest](kv, storage.Key(KeyScheduleRequests), "sreq", opts),
		Allocations:      storage.NewCollection[models.SalariedAllocation](kv, storage.Key(KeySalariedAllocations), "alloc", opts),
		Notifications:    storage.NewCollection[models.Notification](kv, storage.Key(KeyNotifications), "note", opts),
		now:              now,
		logger:           logger,
	}
}

func validateEmployee(e *models.Employee) error {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.Email = strings.TrimSpace(strings.ToLower(e.Email))
	if e.FirstName == "" {
		return storage.Invalid("firstName", "is required")
	}
	if e.Email != "" {
		if _, err := mail.ParseAddress(e.Email); err != nil {
			return storage.Invalid("email", "is not a valid address")
		}
	}
	if e.Role == "" {
		e.Role = models.RoleTeacher
	}
	if e.HourlyRate < 0 {
		return storage.Invalid("hourlyRate", "cannot be negative")
	}
	return nil
}

func validateTimeOff(r *models.TimeOffRequest) error {
	if r.EmployeeID == "" {
		return storage.Invalid("employeeId", "is required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return storage.Invalid("startDate", "start and end dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return storage.Invalid("endDate", "must not be before startDate")
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	return nil
}

func validateShift(s *models.Shift) error {
	if s.EmployeeID == "" {
		return storage.Invalid("employeeId", "is required")
	}
	if !s.End.After(s.Start) {
		return storage.Invalid("end", "must be after start")
	}
	return nil
}

// ActiveEmployees returns employees allowed to clock in.
func (s *Store) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.Employees.Find(ctx, func(e models.Employee) bool { return e.Active })
}

// SetPIN stores the bcrypt hash of a new time clock PIN. A PIN identifies
// its employee at the PIN pad, so no two employees may share one, inactive
// employees included.
func (s *Store) SetPIN(ctx context.Context, employeeID, pin string) error {
	if err := auth.ValidatePIN(pin); err != nil {
		return storage.Invalid("pin", "%v", err)
	}

	s.pinMu.Lock()
	defer s.pinMu.Unlock()

	staff, err := s.Employees.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range staff {
		if e.ID != employeeID && auth.CheckSecret(e.PINHash, pin) {
			s.logger.Warn("Rejected duplicate PIN", "employee_id", employeeID)
			return ErrPINInUse
		}
	}

	hash, err := auth.HashSecret(pin)
	if err != nil {
		return err
	}
	_, err = s.Employees.Update(ctx, employeeID, func(e *models.Employee) error {
		e.PINHash = hash
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set PIN: %w", err)
	}
	s.logger.Info("Employee PIN updated", "employee_id", employeeID)
	return nil
}

// OverdueTraining returns incomplete training modules whose due date has passed.
func (s *Store) OverdueTraining(ctx context.Context) ([]models.TrainingModule, error) {
	now := s.now()
	return s.Training.Find(ctx, func(m models.TrainingModule) bool {
		return m.CompletedAt == nil && m.DueDate.Before(now)
	})
}

// CompleteTraining marks a module completed now. Completing twice keeps the
// first completion time. A non-empty employeeID must own the module.
func (s *Store) CompleteTraining(ctx context.Context, id, employeeID string) (models.TrainingModule, error) {
	return s.Training.Update(ctx, id, func(m *models.TrainingModule) error {
		if employeeID != "" && m.EmployeeID != employeeID {
			return ErrNotOwner
		}
		if m.CompletedAt == nil {
			now := s.now()
			m.CompletedAt = &now
		}
		return nil
	})
}

// Notify stores a notification. An empty employeeID addresses all staff.
func (s *Store) Notify(ctx context.Context, employeeID, title, body string) (models.Notification, error) {
	return s.Notifications.Create(ctx, models.Notification{
		EmployeeID: employeeID,
		Title:      title,
		Body:       body,
	})
}

// Unread returns unread notifications addressed to the employee or to everyone,
// newest first.
func (s *Store) Unread(ctx context.Context, employeeID string) ([]models.Notification, error) {
	notes, err := s.Notifications.Find(ctx, func(n models.Notification) bool {
		return !n.Read && (n.EmployeeID == "" || n.EmployeeID == employeeID)
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
	return notes, nil
}

// MarkRead flags a notification as read. A non-empty employeeID may only
// clear its own notifications and broadcasts.
func (s *Store) MarkRead(ctx context.Context, id, employeeID string) error {
	_, err := s.Notifications.Update(ctx, id, func(n *models.Notification) error {
		if employeeID != "" && n.EmployeeID != "" && n.EmployeeID != employeeID {
			return ErrNotOwner
		}
		n.Read = true
		return nil
	})
	return err
}
