package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/middleware"
	"github.com/brightbeginnings/daycare/internal/models"
)

type passwordRequest struct {
	Password string `json:"password"`
}

// handleOwnFamily returns the signed-in family's account.
func (s *Server) handleOwnFamily(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	if session.Role != auth.RoleFamily {
		writeErrorMessage(w, http.StatusForbidden, "family session required")
		return
	}
	family, err := s.Families.Families.Get(r.Context(), session.SubjectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	family.PasswordHash = ""
	ok(w, http.StatusOK, "family", family)
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	var child models.Child
	if err := decodeJSON(r, &child); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.Families.AddChild(r.Context(), chi.URLParam(r, "id"), child)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "child", created)
}

func (s *Server) handleAddReport(w http.ResponseWriter, r *http.Request) {
	var report models.ProgressReport
	if err := decodeJSON(r, &report); err != nil {
		s.writeError(w, r, err)
		return
	}
	if report.Author == "" {
		session, _ := middleware.GetSession(r.Context())
		report.Author = session.Name
	}
	created, err := s.Families.AddProgressReport(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "childId"), report)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "report", created)
}

func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Families.SetPassword(r.Context(), chi.URLParam(r, "id"), req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}
