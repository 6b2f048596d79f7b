package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightbeginnings/daycare/internal/storage"
)

// metaKeys are assigned by storage and never accepted from clients.
var metaKeys = []string{"id", "createdAt", "updatedAt"}

// resource describes how one collection is exposed over HTTP.
type resource[T any, P storage.Record[T]] struct {
	name string
	coll *storage.Collection[T, P]

	// protected lists JSON keys clients may not write, such as credential hashes.
	protected []string

	// redact clears fields that must not be rendered. May be nil.
	redact func(P)
}

// mount registers GET list, GET one, POST, PATCH and DELETE for the resource.
func (res resource[T, P]) mount(s *Server, r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		records, err := res.coll.List(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		for i := range records {
			res.clean(&records[i])
		}
		ok(w, http.StatusOK, res.name, records)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		body, err := res.readBody(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var rec T
		if err := json.Unmarshal(body, &rec); err != nil {
			s.writeError(w, r, storage.Invalid("body", "%v", err))
			return
		}
		created, err := res.coll.Create(r.Context(), rec)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.logger.Info("Record created", "resource", res.name, "id", P(&created).Base().ID)
		res.clean(&created)
		ok(w, http.StatusCreated, "record", created)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := res.coll.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		res.clean(&rec)
		ok(w, http.StatusOK, "record", rec)
	})

	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, err := res.readBody(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		updated, err := res.coll.Patch(r.Context(), chi.URLParam(r, "id"), body)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		res.clean(&updated)
		ok(w, http.StatusOK, "record", updated)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := res.coll.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{"success": true})
	})
}

// readBody decodes a JSON object and strips storage-owned and protected keys.
func (res resource[T, P]) readBody(r *http.Request) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := decodeJSON(r, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, storage.Invalid("body", "must be a JSON object")
	}
	for _, k := range metaKeys {
		delete(fields, k)
	}
	for _, k := range res.protected {
		delete(fields, k)
	}
	return json.Marshal(fields)
}

func (res resource[T, P]) clean(rec *T) {
	if res.redact != nil {
		res.redact(P(rec))
	}
}
