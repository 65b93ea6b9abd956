// Package httpapi exposes the form engine over HTTP with a chi router.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mesh-intelligence/formsmith/pkg/render"
	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// MaxRequestBody limits JSON request bodies.
const MaxRequestBody = 1 << 20

// InactiveMessage is the body text returned for a form that is switched off.
const InactiveMessage = "This form is not live right now."

// FormService is the engine surface the handler serves.
type FormService interface {
	CreateSchema(ctx context.Context, draft types.Schema) (string, error)
	List(ctx context.Context) ([]types.DirectoryEntry, error)
	SetActive(ctx context.Context, title string, active bool) ([]string, error)
	GetSchema(ctx context.Context, identifier string) (*types.Schema, error)
	Render(ctx context.Context, identifier string) (render.FormView, error)
	Submit(ctx context.Context, identifier string, raw map[string]any) (int64, error)
	Responses(ctx context.Context, identifier string) ([]types.ResponseRecord, error)
	ResponseTables(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *log.Logger
	Forms          FormService
	AllowedOrigins []string
	Auth           AuthConfig
}

// Handler wires HTTP endpoints to the form service.
type Handler struct {
	logger         *log.Logger
	forms          FormService
	allowedOrigins []string
	auth           AuthConfig
}

// NewHandler constructs a Handler. A nil logger discards output.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{
		logger:         logger,
		forms:          cfg.Forms,
		allowedOrigins: cfg.AllowedOrigins,
		auth:           cfg.Auth,
	}
}

// Router returns the complete route tree with middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(withCORS(h.allowedOrigins))
	h.Register(r)
	return r
}

// Register mounts all routes onto r.
func (h *Handler) Register(r chi.Router) {
	authed := r.With(h.authMiddleware)

	r.Get("/healthz", h.healthHandler())
	r.Get("/forms", h.listHandler())
	authed.Post("/forms", h.createHandler())
	authed.Post("/forms/status", h.statusHandler())
	r.Get("/forms/{identifier}", h.schemaHandler())
	r.Get("/forms/{identifier}/render", h.renderHandler())
	r.Post("/forms/{identifier}/responses", h.submitHandler())
	authed.Get("/forms/{identifier}/responses", h.responsesHandler())
	authed.Get("/responses", h.responseTablesHandler())
}

func (h *Handler) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.forms.Ping(ctx); err != nil {
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (h *Handler) createHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBody))
		if err != nil {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		schema, err := types.ParseSchema(body)
		if err != nil {
			h.writeError(w, err)
			return
		}
		identifier, err := h.forms.CreateSchema(r.Context(), *schema)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, map[string]string{
			"message":    "Form created",
			"identifier": identifier,
		})
	}
}

func (h *Handler) listHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.forms.List(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, entries)
	}
}

type statusRequest struct {
	Title    string `json:"title"`
	IsActive *bool  `json:"isActive"`
}

func (h *Handler) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if strings.TrimSpace(req.Title) == "" || req.IsActive == nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and isActive are required"})
			return
		}
		updated, err := h.forms.SetActive(r.Context(), req.Title, *req.IsActive)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]any{
			"message": "Form status updated",
			"updated": updated,
		})
	}
}

func (h *Handler) schemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, err := h.forms.GetSchema(r.Context(), identifierParam(r))
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]any{"json_data": schema})
	}
}

func (h *Handler) renderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.forms.Render(r.Context(), identifierParam(r))
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, view)
	}
}

func (h *Handler) submitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := decodeJSON(w, r, &raw); err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		id, err := h.forms.Submit(r.Context(), identifierParam(r), raw)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, map[string]any{
			"message":    "Response submitted",
			"insertedId": id,
		})
	}
}

func (h *Handler) responsesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.forms.Responses(r.Context(), identifierParam(r))
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, records)
	}
}

func (h *Handler) responseTablesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := h.forms.ResponseTables(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, tables)
	}
}

// identifierParam returns the decoded {identifier} path segment.
func identifierParam(r *http.Request) string {
	raw := chi.URLParam(r, "identifier")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// decodeJSON decodes a size-limited request body into v, keeping numbers
// as written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("request body must be a JSON object")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Printf("encode response: %v", err)
	}
}
