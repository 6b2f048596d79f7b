package models

import "time"

// Role is a staff member's position at the center.
type Role string

const (
	RoleDirector  Role = "director"
	RoleTeacher   Role = "teacher"
	RoleAssistant Role = "assistant"
	RoleCook      Role = "cook"
	RoleAdmin     Role = "admin"
)

// Employee is a staff member.
type Employee struct {
	Meta

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`

	// Classroom is the room the employee is normally assigned to. Used to
	// attribute clocked-in staff to rooms for ratio monitoring.
	Classroom string `json:"classroom,omitempty"`

	// HourlyRate applies when Salaried is false.
	HourlyRate float64 `json:"hourlyRate"`
	Salaried   bool    `json:"salaried"`

	// PINHash is the bcrypt hash of the time clock PIN. Never rendered to clients.
	PINHash string `json:"pinHash,omitempty"`

	Active bool `json:"active"`
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// TimeEntry is one clock-in/clock-out pair. ClockOut is nil while the
// employee is on the clock.
type TimeEntry struct {
	Meta

	EmployeeID string     `json:"employeeId"`
	Classroom  string     `json:"classroom,omitempty"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
}

// Open reports whether the entry has not been clocked out yet.
func (t TimeEntry) Open() bool { return t.ClockOut == nil }

// Duration returns the worked duration, measuring open entries up to now.
func (t TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if t.ClockOut != nil {
		end = *t.ClockOut
	}
	if end.Before(t.ClockIn) {
		return 0
	}
	return end.Sub(t.ClockIn)
}

// PayStub summarises one pay period for an employee.
type PayStub struct {
	Meta

	EmployeeID  string    `json:"employeeId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Hours       float64   `json:"hours"`
	Rate        float64   `json:"rate"`
	GrossPay    float64   `json:"grossPay"`
}

// RequestStatus is the review state of a time-off or schedule request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// TimeOffRequest asks for leave between two dates (inclusive).
type TimeOffRequest struct {
	Meta

	EmployeeID string        `json:"employeeId"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	Reason     string        `json:"reason,omitempty"`
	Status     RequestStatus `json:"status"`
	ReviewedBy string        `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time    `json:"reviewedAt,omitempty"`
}

// Shift is one scheduled block of work.
type Shift struct {
	Meta

	EmployeeID string    `json:"employeeId"`
	Classroom  string    `json:"classroom"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// ScheduleRequestKind distinguishes swap and cover requests.
type ScheduleRequestKind string

const (
	RequestSwap  ScheduleRequestKind = "swap"
	RequestCover ScheduleRequestKind = "cover"
)

// ScheduleRequest asks for a shift to be swapped with or covered by a colleague.
type ScheduleRequest struct {
	Meta

	ShiftID     string              `json:"shiftId"`
	RequesterID string              `json:"requesterId"`
	TargetID    string              `json:"targetId,omitempty"`
	Kind        ScheduleRequestKind `json:"kind"`
	Note        string              `json:"note,omitempty"`
	Status      RequestStatus       `json:"status"`
}

// TrainingModule is a required training course assigned to an employee.
type TrainingModule struct {
	Meta

	EmployeeID  string     `json:"employeeId"`
	Title       string     `json:"title"`
	Hours       float64    `json:"hours"`
	DueDate     time.Time  `json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SalariedAllocation splits a salaried employee's annual salary across pay periods.
type SalariedAllocation struct {
	Meta

	EmployeeID     string  `json:"employeeId"`
	AnnualSalary   float64 `json:"annualSalary"`
	PeriodsPerYear int     `json:"periodsPerYear"`
}

// PerPeriod returns the gross amount paid each period.
func (a SalariedAllocation) PerPeriod() float64 {
	if a.PeriodsPerYear <= 0 {
		return 0
	}
	return a.AnnualSalary / float64(a.PeriodsPerYear)
}

// Notification is a message for one employee, or for all staff when
// EmployeeID is empty.
type Notification struct {
	Meta

	EmployeeID string `json:"employeeId,omitempty"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Read       bool   `json:"read"`
}
