// Package api exposes the daycare stores over a JSON HTTP API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/employees"
	"github.com/brightbeginnings/daycare/internal/families"
	"github.com/brightbeginnings/daycare/internal/food"
	"github.com/brightbeginnings/daycare/internal/lessons"
	"github.com/brightbeginnings/daycare/internal/middleware"
	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/news"
	"github.com/brightbeginnings/daycare/internal/remix"
	"github.com/brightbeginnings/daycare/internal/tours"
)

// Deps are the stores and services the API serves.
type Deps struct {
	Employees *employees.Store
	Families  *families.Store
	Food      *food.Store
	Lessons   *lessons.Store
	News      *news.Store
	Tours     *tours.Store
	Remix     *remix.Service
	JWT       *auth.JWTManager

	// Registry receives the HTTP collectors and is served on /metrics.
	// A fresh registry is used when nil.
	Registry *prometheus.Registry

	CORSOrigins []string
	RemixLimit  middleware.RateLimitConfig
	PINLimit    middleware.RateLimitConfig
	Logger      *slog.Logger

	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

// Server holds the handler dependencies.
type Server struct {
	Deps
	pins   *auth.PINAuthenticator
	logger *slog.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}
	if deps.RemixLimit.RequestsPerSecond <= 0 {
		deps.RemixLimit = middleware.RateLimitConfig{RequestsPerSecond: 1, Burst: 5}
	}
	if deps.PINLimit.RequestsPerSecond <= 0 {
		deps.PINLimit = middleware.RateLimitConfig{RequestsPerSecond: 0.2, Burst: 10}
	}

	s := &Server{
		Deps:   deps,
		pins:   auth.NewPINAuthenticator(deps.Employees),
		logger: deps.Logger,
	}
	metrics := middleware.NewMetrics(deps.Registry)
	// One bucket per client across every route that checks a PIN.
	pinLimit := middleware.RateLimiter(deps.PINLimit)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.OptionalAuth(deps.JWT))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"success": true, "status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.With(pinLimit).Post("/pin", s.handlePINLogin)
			r.Post("/logout", s.handleLogout)
			r.With(middleware.RequireAuth(deps.JWT)).Get("/session", s.handleSession)
		})

		// The PIN pad works without a session; a staff session may clock itself.
		r.With(pinLimit).Post("/timeclock/in", s.handleClockIn)
		r.With(pinLimit).Post("/timeclock/out", s.handleClockOut)

		r.Route("/lessons", func(r chi.Router) {
			r.With(middleware.RateLimiter(deps.RemixLimit)).Post("/remix", s.handleRemix)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Get("/search", s.handleSearchLessons)
				resource[models.Lesson, *models.Lesson]{name: "lessons", coll: deps.Lessons.Lessons}.mount(s, r)
			})
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/published", s.handlePublishedNews)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Post("/{id}/publish", s.handlePublishNews)
				resource[models.NewsUpdate, *models.NewsUpdate]{name: "news", coll: deps.News.Updates}.mount(s, r)
			})
		})

		// Any signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireFamily)
			r.Route("/tours", func(r chi.Router) {
				r.Get("/", s.handleCompletedTours)
				r.Get("/{id}", s.handleTourProgress)
				r.Delete("/{id}", s.handleResetTour)
				r.Put("/{id}/progress", s.handleUpdateTourProgress)
			})
			r.Get("/family", s.handleOwnFamily)
			r.Get("/menus/week", s.handleMenuForWeek)
		})

		// Staff.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/alerts", s.handleInventoryAlerts)
				r.Post("/{id}/adjust", s.handleAdjustInventory)
				resource[models.InventoryItem, *models.InventoryItem]{name: "inventory", coll: deps.Food.Inventory}.mount(s, r)
			})
			r.Route("/food-counts", resource[models.FoodCount, *models.FoodCount]{name: "foodCounts", coll: deps.Food.Counts}.routes(s))
			r.Route("/menu-items", resource[models.MenuItem, *models.MenuItem]{name: "menuItems", coll: deps.Food.MenuItems}.routes(s))
			r.Route("/weekly-menus", resource[models.WeeklyMenu, *models.WeeklyMenu]{name: "weeklyMenus", coll: deps.Food.Menus}.routes(s))
			r.Get("/food/cacfp", s.handleCACFP)
			r.Get("/ratios", s.handleRatios)
			r.Get("/schedules", s.handleSchedule)
			r.Get("/notifications", s.handleNotifications)
			r.Post("/notifications/{id}/read", s.handleMarkRead)
			r.Post("/training/{id}/complete", s.handleCompleteTraining)

			r.Route("/time-off", func(r chi.Router) {
				r.Post("/", s.handleRequestTimeOff)
				r.With(middleware.RequireAdmin).Get("/pending", s.handlePendingTimeOff)
				r.With(middleware.RequireAdmin).Post("/{id}/decision", s.handleDecideTimeOff)
			})
			r.Route("/schedule-requests", func(r chi.Router) {
				r.Post("/", s.handleScheduleRequest)
				r.With(middleware.RequireAdmin).Post("/{id}/decision", s.handleDecideScheduleRequest)
			})

			r.Route("/families", func(r chi.Router) {
				r.Post("/{id}/children", s.handleAddChild)
				r.Post("/{id}/children/{childId}/reports", s.handleAddReport)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/{id}/password", s.handleSetPassword)
					resource[models.Family, *models.Family]{
						name:      "families",
						coll:      deps.Families.Families,
						protected: []string{"passwordHash"},
						redact:    func(f *models.Family) { f.PasswordHash = "" },
					}.mount(s, r)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Put("/{id}/pin", s.handleSetPIN)
				r.Get("/{id}/pay-stubs", s.handlePayStubs)
				r.Post("/{id}/pay-stubs", s.handleGeneratePayStub)
				resource[models.Employee, *models.Employee]{
					name:      "employees",
					coll:      deps.Employees.Employees,
					protected: []string{"pinHash"},
					redact:    func(e *models.Employee) { e.PINHash = "" },
				}.mount(s, r)
			})
		})
	})

	return r
}

// routes adapts mount for chi's Route.
func (res resource[T, P]) routes(s *Server) func(chi.Router) {
	return func(r chi.Router) { res.mount(s, r) }
}
