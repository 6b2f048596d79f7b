package employees

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// RequestTimeOff files a pending time-off request for an existing employee.
func (s *Store) RequestTimeOff(ctx context.Context, req models.TimeOffRequest) (models.TimeOffRequest, error) {
	if _, err := s.Employees.Get(ctx, req.EmployeeID); err != nil {
		return models.TimeOffRequest{}, err
	}
	req.Status = models.StatusPending
	req.ReviewedBy = ""
	req.ReviewedAt = nil
	return s.TimeOff.Create(ctx, req)
}

// DecideTimeOff approves or denies a pending request.
func (s *Store) DecideTimeOff(ctx context.Context, id string, approve bool, reviewer string) (models.TimeOffRequest, error) {
	return s.TimeOff.Update(ctx, id, func(r *models.TimeOffRequest) error {
		if r.Status != models.StatusPending {
			return fmt.Errorf("%s is %s: %w", id, r.Status, ErrAlreadyDecided)
		}
		now := s.now()
		r.Status = decision(approve)
		r.ReviewedBy = reviewer
		r.ReviewedAt = &now
		return nil
	})
}

// PendingTimeOff returns requests awaiting review, earliest start first.
func (s *Store) PendingTimeOff(ctx context.Context) ([]models.TimeOffRequest, error) {
	pending, err := s.TimeOff.Find(ctx, func(r models.TimeOffRequest) bool { return r.Status == models.StatusPending })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].StartDate.Before(pending[j].StartDate) })
	return pending, nil
}

// ShiftsForWeek returns shifts starting within the seven days from weekStart,
// ordered by start time.
func (s *Store) ShiftsForWeek(ctx context.Context, weekStart time.Time) ([]models.Shift, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)
	shifts, err := s.Shifts.Find(ctx, func(sh models.Shift) bool {
		return !sh.Start.Before(weekStart) && sh.Start.Before(weekEnd)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(shifts, func(i, j int) bool { return shifts[i].Start.Before(shifts[j].Start) })
	return shifts, nil
}

// RequestScheduleChange files a swap or cover request against a shift owned
// by the requester.
func (s *Store) RequestScheduleChange(ctx context.Context, req models.ScheduleRequest) (models.ScheduleRequest, error) {
	if req.Kind != models.RequestSwap && req.Kind != models.RequestCover {
		return models.ScheduleRequest{}, storage.Invalid("kind", "must be swap or cover")
	}
	shift, err := s.Shifts.Get(ctx, req.ShiftID)
	if err != nil {
		return models.ScheduleRequest{}, err
	}
	if shift.EmployeeID != req.RequesterID {
		return models.ScheduleRequest{}, storage.Invalid("shiftId", "shift is not assigned to the requester")
	}
	if req.Kind == models.RequestSwap && req.TargetID == "" {
		return models.ScheduleRequest{}, storage.Invalid("targetId", "is required for a swap")
	}
	if req.TargetID != "" {
		if err := s.checkTarget(ctx, req.TargetID); err != nil {
			return models.ScheduleRequest{}, err
		}
	}
	req.Status = models.StatusPending
	return s.ScheduleRequests.Create(ctx, req)
}

// DecideScheduleRequest approves or denies a pending schedule request.
// Approving a request with a target reassigns the shift to the target before
// the request is marked approved, so a failed reassignment leaves it pending.
func (s *Store) DecideScheduleRequest(ctx context.Context, id string, approve bool) (models.ScheduleRequest, error) {
	s.decideMu.Lock()
	defer s.decideMu.Unlock()

	req, err := s.ScheduleRequests.Get(ctx, id)
	if err != nil {
		return models.ScheduleRequest{}, err
	}
	if req.Status != models.StatusPending {
		return models.ScheduleRequest{}, fmt.Errorf("%s is %s: %w", id, req.Status, ErrAlreadyDecided)
	}

	var previousOwner string
	reassign := approve && req.TargetID != ""
	if reassign {
		if err := s.checkTarget(ctx, req.TargetID); err != nil {
			return models.ScheduleRequest{}, err
		}
		if _, err := s.Shifts.Update(ctx, req.ShiftID, func(sh *models.Shift) error {
			previousOwner = sh.EmployeeID
			sh.EmployeeID = req.TargetID
			return nil
		}); err != nil {
			return models.ScheduleRequest{}, fmt.Errorf("failed to reassign shift: %w", err)
		}
	}

	decided, err := s.ScheduleRequests.Update(ctx, id, func(r *models.ScheduleRequest) error {
		r.Status = decision(approve)
		return nil
	})
	if err != nil {
		if reassign {
			if _, rbErr := s.Shifts.Update(ctx, req.ShiftID, func(sh *models.Shift) error {
				sh.EmployeeID = previousOwner
				return nil
			}); rbErr != nil {
				s.logger.Error("Failed to restore shift owner", "shift_id", req.ShiftID, "error", rbErr)
			}
		}
		return models.ScheduleRequest{}, err
	}
	if reassign {
		s.logger.Info("Shift reassigned", "shift_id", req.ShiftID, "employee_id", req.TargetID)
	}
	return decided, nil
}

// checkTarget verifies a swap or cover target is an active employee.
func (s *Store) checkTarget(ctx context.Context, targetID string) error {
	target, err := s.Employees.Get(ctx, targetID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Invalid("targetId", "unknown employee %q", targetID)
	}
	if err != nil {
		return err
	}
	if !target.Active {
		return storage.Invalid("targetId", "employee %q is inactive", targetID)
	}
	return nil
}

func decision(approve bool) models.RequestStatus {
	if approve {
		return models.StatusApproved
	}
	return models.StatusDenied
}
