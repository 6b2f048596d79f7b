package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightbeginnings/daycare/internal/auth"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	if s, ok := GetSession(r.Context()); ok {
		_, _ = w.Write([]byte(s.SubjectID))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func tokenFor(t *testing.T, m *auth.JWTManager, role auth.Role) string {
	t.Helper()
	token, err := m.Generate(auth.Session{Role: role, SubjectID: string(role) + "_1", Name: "Test"})
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	handler := RequireAuth(m)(http.HandlerFunc(okHandler))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, auth.ErrMissingToken.Error(), body["error"])
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, m, auth.RoleFamily))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "family_1", rec.Body.String())
	})
}

func TestOptionalAuthAndRoles(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	staffOnly := OptionalAuth(m)(RequireStaff(http.HandlerFunc(okHandler)))
	familyOnly := OptionalAuth(m)(RequireFamily(http.HandlerFunc(okHandler)))
	adminOnly := OptionalAuth(m)(RequireAdmin(http.HandlerFunc(okHandler)))

	call := func(h http.Handler, token string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	family := tokenFor(t, m, auth.RoleFamily)
	employee := tokenFor(t, m, auth.RoleEmployee)
	admin := tokenFor(t, m, auth.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, call(staffOnly, ""))
	assert.Equal(t, http.StatusUnauthorized, call(staffOnly, "garbage"))
	assert.Equal(t, http.StatusForbidden, call(staffOnly, family))
	assert.Equal(t, http.StatusOK, call(staffOnly, employee))
	assert.Equal(t, http.StatusOK, call(familyOnly, family))
	assert.Equal(t, http.StatusOK, call(familyOnly, admin))
	assert.Equal(t, http.StatusForbidden, call(adminOnly, employee))
	assert.Equal(t, http.StatusOK, call(adminOnly, admin))
}

func TestLoggingRecordsSession(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := auth.NewJWTManager("secret", time.Hour)
	handler := Logging(logger)(OptionalAuth(m)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/things", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, m, auth.RoleEmployee))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/things", entry["path"])
	assert.InDelta(t, float64(http.StatusTeapot), entry["status"], 0.001)
	assert.Equal(t, "employee_1", entry["subject_id"])
}

func TestRateLimiter(t *testing.T) {
	handler := RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2})(http.HandlerFunc(okHandler))

	for range 2 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.9:4242"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsUseRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(metrics.Handler)
	r.Get("/items/{id}", okHandler)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	expected := `
# HELP daycare_http_requests_total HTTP requests by method, route and status code.
# TYPE daycare_http_requests_total counter
daycare_http_requests_total{method="GET",route="/items/{id}",status="200"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "daycare_http_requests_total"))
}
