package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/employees"
	"github.com/brightbeginnings/daycare/internal/middleware"
	"github.com/brightbeginnings/daycare/internal/models"
)

type decisionRequest struct {
	Approve bool `json:"approve"`
}

type payPeriodRequest struct {
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// clockSubject resolves who is using the time clock: the owner of the PIN in
// the body, or else the staff member signed in.
func (s *Server) clockSubject(r *http.Request) (string, error) {
	var req pinRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			return "", err
		}
	}
	if req.PIN != "" {
		_, emp, err := s.pins.Authenticate(r.Context(), req.PIN)
		if err != nil {
			return "", err
		}
		return emp.ID, nil
	}
	session, ok := middleware.GetSession(r.Context())
	if !ok || !session.IsStaff() {
		return "", auth.ErrMissingToken
	}
	return session.SubjectID, nil
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, err := s.clockSubject(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.Employees.ClockIn(r.Context(), employeeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "entry", entry)
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := s.clockSubject(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.Employees.ClockOut(r.Context(), employeeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "entry", entry)
}

// handleRatios reports staff-to-child compliance for every occupied room.
func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.Families.ChildrenByClassroom(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	onDuty, err := s.Employees.StaffOnDuty(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for i := range rooms {
		rooms[i].Staff = onDuty[rooms[i].Classroom]
	}
	ok(w, http.StatusOK, "rooms", employees.CheckRatios(rooms))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	week, err := dateParam(r, "week", s.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	weekStart := models.WeekStart(week)
	shifts, err := s.Employees.ShiftsForWeek(r.Context(), weekStart)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "weekStart": weekStart, "shifts": shifts})
}

// actingEmployee returns the employee a staff request is filed for. Admins
// may act for anyone; employees only for themselves.
func actingEmployee(r *http.Request, requested string) string {
	session, _ := middleware.GetSession(r.Context())
	if session.Role == auth.RoleAdmin && requested != "" {
		return requested
	}
	return session.SubjectID
}

func (s *Server) handleRequestTimeOff(w http.ResponseWriter, r *http.Request) {
	var req models.TimeOffRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.EmployeeID = actingEmployee(r, req.EmployeeID)
	created, err := s.Employees.RequestTimeOff(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "request", created)
}

func (s *Server) handlePendingTimeOff(w http.ResponseWriter, r *http.Request) {
	pending, err := s.Employees.PendingTimeOff(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "requests", pending)
}

func (s *Server) handleDecideTimeOff(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, _ := middleware.GetSession(r.Context())
	decided, err := s.Employees.DecideTimeOff(r.Context(), chi.URLParam(r, "id"), req.Approve, session.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "request", decided)
}

func (s *Server) handleScheduleRequest(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.RequesterID = actingEmployee(r, req.RequesterID)
	created, err := s.Employees.RequestScheduleChange(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "request", created)
}

func (s *Server) handleDecideScheduleRequest(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	decided, err := s.Employees.DecideScheduleRequest(r.Context(), chi.URLParam(r, "id"), req.Approve)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "request", decided)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	notes, err := s.Employees.Unread(r.Context(), session.SubjectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "notifications", notes)
}

// ownerFilter is the employee a staff session is limited to, or "" for admins.
func ownerFilter(r *http.Request) string {
	session, _ := middleware.GetSession(r.Context())
	if session.Role == auth.RoleAdmin {
		return ""
	}
	return session.SubjectID
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.Employees.MarkRead(r.Context(), chi.URLParam(r, "id"), ownerFilter(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (s *Server) handleCompleteTraining(w http.ResponseWriter, r *http.Request) {
	module, err := s.Employees.CompleteTraining(r.Context(), chi.URLParam(r, "id"), ownerFilter(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "training", module)
}

func (s *Server) handleSetPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Employees.SetPIN(r.Context(), chi.URLParam(r, "id"), req.PIN); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (s *Server) handlePayStubs(w http.ResponseWriter, r *http.Request) {
	stubs, err := s.Employees.PayStubsFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "payStubs", stubs)
}

func (s *Server) handleGeneratePayStub(w http.ResponseWriter, r *http.Request) {
	var req payPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	stub, err := s.Employees.GeneratePayStub(r.Context(), chi.URLParam(r, "id"), req.PeriodStart, req.PeriodEnd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "payStub", stub)
}
