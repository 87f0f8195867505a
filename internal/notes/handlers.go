package notes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MaraVoron/ya-note/internal/identity"
	"github.com/MaraVoron/ya-note/internal/stringsx"
)

type Handlers struct {
	svc NoteService
}

// NoteService is the use-case dependency of the HTTP layer.
// It allows unit-testing handlers without a real database.
type NoteService interface {
	Create(ctx context.Context, p identity.Principal, title, text, slugInput string) (Note, error)
	List(ctx context.Context, p identity.Principal) ([]Note, error)
	View(ctx context.Context, p identity.Principal, slug string) (Note, error)
	Edit(ctx context.Context, p identity.Principal, slug, newTitle, newText, newSlugInput string) (Note, error)
	Delete(ctx context.Context, p identity.Principal, slug string) error
}

func NewHandlers(svc NoteService) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", h.view)
			r.Put("/", h.edit)
			r.Delete("/", h.delete)
		})
	})

	return r
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if stringsx.IsEmpty(req.Title) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title required"})
		return
	}

	n, err := h.svc.Create(r.Context(), identity.FromContext(r.Context()), req.Title, req.Text, req.Slug)
	if err != nil {
		writeError(w, &req, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeError(w, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handlers) view(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.View(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handlers) edit(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if stringsx.IsEmpty(req.Title) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title required"})
		return
	}

	n, err := h.svc.Edit(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "slug"), req.Title, req.Text, req.Slug)
	if err != nil {
		writeError(w, &req, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), identity.FromContext(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps use-case errors onto HTTP statuses. Slug failures echo the
// submitted fields back so the client can re-present the form as entered.
// Another owner's note answers 404, same as a missing one.
func writeError(w http.ResponseWriter, req *NoteRequest, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidSlug):
		writeJSON(w, http.StatusBadRequest, withSubmitted("invalid slug", req))
	case errors.Is(err, ErrSlugTaken):
		writeJSON(w, http.StatusConflict, withSubmitted("slug already in use", req))
	default:
		slog.Error("notes request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func withSubmitted(msg string, req *NoteRequest) map[string]any {
	resp := map[string]any{"error": msg}
	if req != nil {
		resp["submitted"] = req
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
