package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightbeginnings/daycare/internal/lessons"
	"github.com/brightbeginnings/daycare/internal/middleware"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/remix"
)

type tourProgressRequest struct {
	Step  int `json:"step"`
	Total int `json:"total"`
}

// handleRemix adapts a lesson with the AI generator. The response carries
// the lesson and whether it was saved to the library.
func (s *Server) handleRemix(w http.ResponseWriter, r *http.Request) {
	var req remix.Request
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.Remix.Remix(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"lesson":  result.Lesson,
		"saved":   result.Saved,
	})
}

func (s *Server) handleSearchLessons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	found, err := s.Lessons.Search(r.Context(), lessons.Filter{
		AgeGroup: models.AgeGroup(q.Get("ageGroup")),
		Domain:   q.Get("domain"),
		Query:    q.Get("q"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "lessons", found)
}

func (s *Server) handlePublishedNews(w http.ResponseWriter, r *http.Request) {
	updates, err := s.News.Published(r.Context(), s.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "news", updates)
}

func (s *Server) handlePublishNews(w http.ResponseWriter, r *http.Request) {
	update, err := s.News.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "record", update)
}

// tourKey scopes a tour id to the signed-in user so each user has their own
// progress.
func tourKey(r *http.Request, tourID string) string {
	session, _ := middleware.GetSession(r.Context())
	return session.SubjectID + ":" + tourID
}

func (s *Server) handleTourProgress(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "id")
	progress, err := s.Tours.Progress(r.Context(), tourKey(r, tourID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	progress.ID = tourID
	ok(w, http.StatusOK, "progress", progress)
}

func (s *Server) handleUpdateTourProgress(w http.ResponseWriter, r *http.Request) {
	var req tourProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tourID := chi.URLParam(r, "id")
	progress, err := s.Tours.UpdateProgress(r.Context(), tourKey(r, tourID), req.Step, req.Total)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	progress.ID = tourID
	ok(w, http.StatusOK, "progress", progress)
}

func (s *Server) handleResetTour(w http.ResponseWriter, r *http.Request) {
	if err := s.Tours.Reset(r.Context(), tourKey(r, chi.URLParam(r, "id"))); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

// handleCompletedTours lists the signed-in user's finished tours.
func (s *Server) handleCompletedTours(w http.ResponseWriter, r *http.Request) {
	done, err := s.Tours.Completed(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prefix := tourKey(r, "")
	mine := make([]string, 0, len(done))
	for _, id := range done {
		if tourID, found := strings.CutPrefix(id, prefix); found && tourID != "" {
			mine = append(mine, tourID)
		}
	}
	ok(w, http.StatusOK, "completed", mine)
}
