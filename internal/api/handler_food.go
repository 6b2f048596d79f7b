package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brightbeginnings/daycare/internal/storage"
)

type adjustRequest struct {
	Delta float64 `json:"delta"`
}

// handleInventoryAlerts returns the derived expiry and low-stock alerts.
func (s *Server) handleInventoryAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := s.Food.Alerts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"alerts":  report.Alerts,
		"summary": report.Summary,
	})
}

func (s *Server) handleAdjustInventory(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.Food.AdjustQuantity(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "record", item)
}

// handleCACFP returns the monthly meal count report. Year and month default
// to the current month.
func (s *Server) handleCACFP(w http.ResponseWriter, r *http.Request) {
	now := s.Now()
	year, err := intParam(r, "year", now.Year())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := intParam(r, "month", int(now.Month()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if year < 2000 || year > 9999 {
		s.writeError(w, r, storage.Invalid("year", "out of range"))
		return
	}
	report, err := s.Food.CACFPReport(r.Context(), year, time.Month(month))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "report", report)
}

func (s *Server) handleMenuForWeek(w http.ResponseWriter, r *http.Request) {
	week, err := dateParam(r, "week", s.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	menu, err := s.Food.MenuForWeek(r.Context(), week)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "menu", menu)
}
