package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/brightbeginnings/daycare/internal/auth"
)

// sessionKey is the context key for the authenticated session.
type sessionKey struct{}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s auth.Session) context.Context {
	if h, ok := ctx.Value(holderKey{}).(*sessionHolder); ok {
		h.session, h.set = s, true
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession extracts the session from the context.
// Returns false if the request is unauthenticated.
func GetSession(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(auth.Session)
	return s, ok
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// OptionalAuth decodes a bearer token when present and valid, adding the
// session to the request context. Requests without a usable token pass
// through unauthenticated.
func OptionalAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, err := bearerToken(r); err == nil {
				if session, err := jwtManager.Validate(token); err == nil {
					r = r.WithContext(WithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			session, err := jwtManager.Validate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireStaff allows employee and admin sessions. It must run after
// OptionalAuth or RequireAuth.
func RequireStaff(next http.Handler) http.Handler {
	return requireRole(next, auth.Session.IsStaff)
}

// RequireAdmin allows admin sessions only.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, func(s auth.Session) bool { return s.Role == auth.RoleAdmin })
}

// RequireFamily allows family sessions, and staff who manage family records.
func RequireFamily(next http.Handler) http.Handler {
	return requireRole(next, func(s auth.Session) bool { return s.Role == auth.RoleFamily || s.IsStaff() })
}

func requireRole(next http.Handler, allowed func(auth.Session) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !allowed(session) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError writes the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}
