package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/feedback/pkg/feedback"
)

// addRequest is the POST /feedback body. Durations travel as
// milliseconds on the wire; an explicit 0 makes the item sticky, absent
// means the manager's default.
type addRequest struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Title      string         `json:"title,omitempty"`
	Message    string         `json:"message,omitempty"`
	Variant    string         `json:"variant,omitempty"`
	DurationMS *int64         `json:"durationMs,omitempty"`
	Priority   int            `json:"priority,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// updateRequest is the PATCH /feedback/{id} body.
type updateRequest struct {
	Title      string         `json:"title,omitempty"`
	Message    string         `json:"message,omitempty"`
	Variant    string         `json:"variant,omitempty"`
	DurationMS *int64         `json:"durationMs,omitempty"`
	Priority   int            `json:"priority,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

func (r *addRequest) options() feedback.Options {
	opts := feedback.Options{
		ID:       r.ID,
		Title:    r.Title,
		Message:  r.Message,
		Variant:  feedback.Variant(r.Variant),
		Priority: r.Priority,
		Extra:    r.Extra,
	}
	if r.DurationMS != nil {
		d := time.Duration(*r.DurationMS) * time.Millisecond
		opts.Duration = &d
	}
	return opts
}

func (r *updateRequest) options() feedback.Options {
	opts := feedback.Options{
		Title:    r.Title,
		Message:  r.Message,
		Variant:  feedback.Variant(r.Variant),
		Priority: r.Priority,
		Extra:    r.Extra,
	}
	if r.DurationMS != nil {
		d := time.Duration(*r.DurationMS) * time.Millisecond
		opts.Duration = &d
	}
	return opts
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t := feedback.Type(req.Type)
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "unknown feedback type")
		return
	}

	id := s.manager.Add(t, req.options())
	if id == "" {
		// Admission control rejected it, or the id collided. The
		// overflow event already fired for queue rejections.
		writeError(w, http.StatusTooManyRequests, "rejected by admission control")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it := s.manager.Get(id)
	if it == nil {
		writeError(w, http.StatusNotFound, "feedback item not found")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	typeParam := r.URL.Query().Get("type")
	if typeParam != "" {
		t := feedback.Type(typeParam)
		if !t.Valid() {
			writeError(w, http.StatusBadRequest, "unknown feedback type")
			return
		}
		writeJSON(w, http.StatusOK, s.manager.GetByType(t))
		return
	}

	writeJSON(w, http.StatusOK, s.manager.Store().List())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.manager.Get(id) == nil {
		writeError(w, http.StatusNotFound, "feedback item not found")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.manager.Update(id, req.options())
	writeJSON(w, http.StatusOK, s.manager.Get(id))
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	// Remove is idempotent, so unknown ids are fine: 204 either way.
	s.manager.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveAll(w http.ResponseWriter, r *http.Request) {
	typeParam := r.URL.Query().Get("type")
	t := feedback.Type(typeParam)
	if !t.Valid() {
		writeError(w, http.StatusBadRequest, "unknown feedback type")
		return
	}
	s.manager.RemoveAll(t)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]map[string]string{
		"error": {"message": message},
	})
}
