package api

import (
	"net/http"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pinRequest struct {
	PIN string `json:"pin"`
}

// handleLogin signs a family in with email and password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.Families.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issueToken(w, r, session, nil)
}

// handlePINLogin signs an employee in with their time clock PIN.
func (s *Server) handlePINLogin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, emp, err := s.pins.Authenticate(r.Context(), req.PIN)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	emp.PINHash = ""
	s.issueToken(w, r, session, emp)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, session auth.Session, subject any) {
	token, err := s.JWT.Generate(session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Login successful", "role", session.Role, "subject_id", session.SubjectID)
	body := envelope{"success": true, "token": token, "session": session}
	if subject != nil {
		body["employee"] = subject
	}
	writeJSON(w, http.StatusOK, body)
}

// handleLogout acknowledges a logout. Tokens are stateless, so the client
// discarding it ends the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session, ok := middleware.GetSession(r.Context()); ok {
		s.logger.Info("Logout", "role", session.Role, "subject_id", session.SubjectID)
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	ok(w, http.StatusOK, "session", session)
}
