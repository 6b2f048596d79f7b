package employees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
	"github.com/brightbeginnings/daycare/internal/storage/memory"
)

func init() {
	auth.HashCost = bcrypt.MinCost
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)} // a Monday
	return New(memory.New(), storage.Options{Now: c.now}), c
}

func createEmployee(t *testing.T, s *Store, emp models.Employee) models.Employee {
	t.Helper()
	created, err := s.Employees.Create(context.Background(), emp)
	require.NoError(t, err)
	return created
}

func TestEmployeeValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Employees.Create(ctx, models.Employee{})
	assert.True(t, storage.IsValidation(err))

	_, err = s.Employees.Create(ctx, models.Employee{FirstName: "Ann", Email: "not an email"})
	assert.True(t, storage.IsValidation(err))

	emp, err := s.Employees.Create(ctx, models.Employee{FirstName: " Ann ", Email: "ANN@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", emp.FirstName)
	assert.Equal(t, "ann@example.com", emp.Email)
	assert.Equal(t, models.RoleTeacher, emp.Role)
}

func TestTimeClock(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	emp := createEmployee(t, s, models.Employee{FirstName: "Tia", Classroom: "Bluebirds", HourlyRate: 20, Active: true})

	entry, err := s.ClockIn(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bluebirds", entry.Classroom)
	assert.True(t, entry.Open())

	_, err = s.ClockIn(ctx, emp.ID)
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	onDuty, err := s.StaffOnDuty(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Bluebirds": 1}, onDuty)

	c.t = c.t.Add(8*time.Hour + 30*time.Minute)
	closed, err := s.ClockOut(ctx, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClockOut)
	assert.Equal(t, c.t, *closed.ClockOut)

	_, err = s.ClockOut(ctx, emp.ID)
	assert.ErrorIs(t, err, ErrNotClockedIn)

	day := models.StartOfDay(c.t)
	hours, err := s.HoursWorked(ctx, emp.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 8.5, hours, 0.001)

	open, err := s.OpenEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestClockInRejectsInactiveAndUnknown(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	emp := createEmployee(t, s, models.Employee{FirstName: "Former", Active: false})

	_, err := s.ClockIn(ctx, emp.ID)
	assert.ErrorIs(t, err, ErrInactive)

	_, err = s.ClockIn(ctx, "emp_missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGeneratePayStub(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	hourly := createEmployee(t, s, models.Employee{FirstName: "Hal", HourlyRate: 18, Active: true})
	salaried := createEmployee(t, s, models.Employee{FirstName: "Sal", Salaried: true, Active: true})

	start := models.WeekStart(c.t)
	for day := 0; day < 2; day++ {
		c.t = start.AddDate(0, 0, day).Add(8 * time.Hour)
		_, err := s.ClockIn(ctx, hourly.ID)
		require.NoError(t, err)
		c.t = c.t.Add(7*time.Hour + 30*time.Minute)
		_, err = s.ClockOut(ctx, hourly.ID)
		require.NoError(t, err)
	}
	end := start.AddDate(0, 0, 14)

	stub, err := s.GeneratePayStub(ctx, hourly.ID, start, end)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, stub.Hours, 0.001)
	assert.InDelta(t, 270.0, stub.GrossPay, 0.001)

	_, err = s.GeneratePayStub(ctx, salaried.ID, start, end)
	assert.ErrorIs(t, err, ErrNoAllocation)

	_, err = s.Allocations.Create(ctx, models.SalariedAllocation{EmployeeID: salaried.ID, AnnualSalary: 52000, PeriodsPerYear: 26})
	require.NoError(t, err)
	stub, err = s.GeneratePayStub(ctx, salaried.ID, start, end)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, stub.GrossPay, 0.001)

	_, err = s.GeneratePayStub(ctx, hourly.ID, end, start)
	assert.True(t, storage.IsValidation(err))

	later, err := s.GeneratePayStub(ctx, hourly.ID, end, end.AddDate(0, 0, 14))
	require.NoError(t, err)
	stubs, err := s.PayStubsFor(ctx, hourly.ID)
	require.NoError(t, err)
	require.Len(t, stubs, 2)
	assert.Equal(t, later.ID, stubs[0].ID)
}

func TestTimeOffWorkflow(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	emp := createEmployee(t, s, models.Employee{FirstName: "Pat", Active: true})

	_, err := s.RequestTimeOff(ctx, models.TimeOffRequest{
		EmployeeID: emp.ID,
		StartDate:  c.t.AddDate(0, 0, 5),
		EndDate:    c.t.AddDate(0, 0, 2),
	})
	assert.True(t, storage.IsValidation(err))

	req, err := s.RequestTimeOff(ctx, models.TimeOffRequest{
		EmployeeID: emp.ID,
		StartDate:  c.t.AddDate(0, 0, 5),
		EndDate:    c.t.AddDate(0, 0, 6),
		Status:     models.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)

	pending, err := s.PendingTimeOff(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	decided, err := s.DecideTimeOff(ctx, req.ID, true, "Dana")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, decided.Status)
	assert.Equal(t, "Dana", decided.ReviewedBy)
	require.NotNil(t, decided.ReviewedAt)

	_, err = s.DecideTimeOff(ctx, req.ID, false, "Dana")
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	pending, err = s.PendingTimeOff(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestScheduleRequests(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	a := createEmployee(t, s, models.Employee{FirstName: "Ana", Active: true})
	b := createEmployee(t, s, models.Employee{FirstName: "Ben", Active: true})

	week := models.WeekStart(c.t)
	shift, err := s.Shifts.Create(ctx, models.Shift{EmployeeID: a.ID, Classroom: "Oak Room", Start: week.Add(7 * time.Hour), End: week.Add(15 * time.Hour)})
	require.NoError(t, err)
	_, err = s.Shifts.Create(ctx, models.Shift{EmployeeID: a.ID, Start: week.AddDate(0, 0, 8), End: week.AddDate(0, 0, 8).Add(time.Hour)})
	require.NoError(t, err)

	_, err = s.Shifts.Create(ctx, models.Shift{EmployeeID: a.ID, Start: week, End: week})
	assert.True(t, storage.IsValidation(err))

	shifts, err := s.ShiftsForWeek(ctx, week)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)

	_, err = s.RequestScheduleChange(ctx, models.ScheduleRequest{ShiftID: shift.ID, RequesterID: b.ID, Kind: models.RequestCover})
	assert.True(t, storage.IsValidation(err))

	_, err = s.RequestScheduleChange(ctx, models.ScheduleRequest{ShiftID: shift.ID, RequesterID: a.ID, Kind: models.RequestSwap})
	assert.True(t, storage.IsValidation(err))

	req, err := s.RequestScheduleChange(ctx, models.ScheduleRequest{ShiftID: shift.ID, RequesterID: a.ID, TargetID: b.ID, Kind: models.RequestCover})
	require.NoError(t, err)

	_, err = s.DecideScheduleRequest(ctx, req.ID, true)
	require.NoError(t, err)

	reassigned, err := s.Shifts.Get(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, reassigned.EmployeeID)

	_, err = s.DecideScheduleRequest(ctx, req.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestScheduleRequestTargetChecks(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	a := createEmployee(t, s, models.Employee{FirstName: "Ana", Active: true})
	b := createEmployee(t, s, models.Employee{FirstName: "Ben", Active: true})

	week := models.WeekStart(c.t)
	shift, err := s.Shifts.Create(ctx, models.Shift{EmployeeID: a.ID, Start: week.Add(7 * time.Hour), End: week.Add(15 * time.Hour)})
	require.NoError(t, err)

	_, err = s.RequestScheduleChange(ctx, models.ScheduleRequest{ShiftID: shift.ID, RequesterID: a.ID, TargetID: "emp_ghost", Kind: models.RequestSwap})
	assert.True(t, storage.IsValidation(err))

	req, err := s.RequestScheduleChange(ctx, models.ScheduleRequest{ShiftID: shift.ID, RequesterID: a.ID, TargetID: b.ID, Kind: models.RequestCover})
	require.NoError(t, err)

	// The target leaves before the decision.
	require.NoError(t, s.Employees.Remove(ctx, b.ID))
	_, err = s.DecideScheduleRequest(ctx, req.ID, true)
	assert.True(t, storage.IsValidation(err))

	stored, err := s.ScheduleRequests.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	unchanged, err := s.Shifts.Get(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, unchanged.EmployeeID)

	// Denying needs no valid target.
	denied, err := s.DecideScheduleRequest(ctx, req.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDenied, denied.Status)
}

func TestTrainingAndNotifications(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()

	overdue, err := s.Training.Create(ctx, models.TrainingModule{EmployeeID: "emp_1", Title: "CPR", DueDate: c.t.AddDate(0, 0, -1)})
	require.NoError(t, err)
	_, err = s.Training.Create(ctx, models.TrainingModule{EmployeeID: "emp_1", Title: "Safe Sleep", DueDate: c.t.AddDate(0, 0, 10)})
	require.NoError(t, err)

	list, err := s.OverdueTraining(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, overdue.ID, list[0].ID)

	_, err = s.CompleteTraining(ctx, overdue.ID, "emp_2")
	assert.ErrorIs(t, err, ErrNotOwner)

	done, err := s.CompleteTraining(ctx, overdue.ID, "emp_1")
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	list, err = s.OverdueTraining(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	broadcast, err := s.Notify(ctx, "", "Drill", "Fire drill at 10")
	require.NoError(t, err)
	c.t = c.t.Add(time.Minute)
	direct, err := s.Notify(ctx, "emp_1", "Schedule", "You are covering Friday")
	require.NoError(t, err)
	_, err = s.Notify(ctx, "emp_2", "Other", "Not for emp_1")
	require.NoError(t, err)

	unread, err := s.Unread(ctx, "emp_1")
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, direct.ID, unread[0].ID)
	assert.Equal(t, broadcast.ID, unread[1].ID)

	assert.ErrorIs(t, s.MarkRead(ctx, direct.ID, "emp_2"), ErrNotOwner)
	require.NoError(t, s.MarkRead(ctx, direct.ID, "emp_1"))
	unread, err = s.Unread(ctx, "emp_1")
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	// Broadcasts can be cleared by any employee; admins pass no owner.
	require.NoError(t, s.MarkRead(ctx, broadcast.ID, "emp_2"))
	other, err := s.Notify(ctx, "emp_2", "Other again", "")
	require.NoError(t, err)
	require.NoError(t, s.MarkRead(ctx, other.ID, ""))
}

func TestSetPINAndSeed(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	staff, err := s.ActiveEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, staff, len(demoStaff))

	pin := auth.NewPINAuthenticator(s)
	session, emp, err := pin.Authenticate(ctx, "2002")
	require.NoError(t, err)
	assert.Equal(t, "emp_infants", emp.ID)
	assert.Equal(t, auth.RoleEmployee, session.Role)

	require.NoError(t, s.SetPIN(ctx, "emp_infants", "5678"))
	_, _, err = pin.Authenticate(ctx, "2002")
	assert.ErrorIs(t, err, auth.ErrInvalidPIN)
	_, _, err = pin.Authenticate(ctx, "5678")
	assert.NoError(t, err)

	err = s.SetPIN(ctx, "emp_infants", "12")
	assert.True(t, storage.IsValidation(err))

	// Re-setting your own PIN is not a clash.
	require.NoError(t, s.SetPIN(ctx, "emp_infants", "5678"))

	shifts, err := s.ShiftsForWeek(ctx, models.WeekStart(s.now()))
	require.NoError(t, err)
	assert.Len(t, shifts, 10)
}

func TestSetPINRejectsDuplicate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	err := s.SetPIN(ctx, "emp_cook", "1001")
	assert.ErrorIs(t, err, ErrPINInUse)

	pin := auth.NewPINAuthenticator(s)
	session, emp, err := pin.Authenticate(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "emp_director", emp.ID)
	assert.Equal(t, auth.RoleAdmin, session.Role)

	_, emp, err = pin.Authenticate(ctx, "4004")
	require.NoError(t, err)
	assert.Equal(t, "emp_cook", emp.ID)

	t.Run("inactive employees keep their PIN reserved", func(t *testing.T) {
		_, err := s.Employees.Update(ctx, "emp_toddlers", func(e *models.Employee) error {
			e.Active = false
			return nil
		})
		require.NoError(t, err)
		assert.ErrorIs(t, s.SetPIN(ctx, "emp_cook", "3003"), ErrPINInUse)
	})
}
