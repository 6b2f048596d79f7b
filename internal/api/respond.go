package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/brightbeginnings/daycare/internal/storage"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// envelope is the JSON shape of every API response.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ok writes {"success": true, key: value}.
func ok(w http.ResponseWriter, status int, key string, value any) {
	writeJSON(w, status, envelope{"success": true, key: value})
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": false, "error": msg})
}

// decodeJSON reads the request body into dst. Malformed bodies become
// validation errors.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return storage.Invalid("body", "request body too large")
	}
	if len(body) == 0 {
		return storage.Invalid("body", "request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return storage.Invalid("body", "malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return storage.Invalid(typeErr.Field, "must be %s", typeErr.Type)
		default:
			return storage.Invalid("body", "%v", err)
		}
	}
	return nil
}

// dateLayout is the format of date query parameters.
const dateLayout = "2006-01-02"

// dateParam parses the named query parameter as a UTC date, returning def
// when it is absent.
func dateParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, storage.Invalid(name, "must be a date like %s", dateLayout)
	}
	return t, nil
}

// intParam parses the named query parameter, returning def when it is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, storage.Invalid(name, "must be a whole number")
	}
	return n, nil
}
