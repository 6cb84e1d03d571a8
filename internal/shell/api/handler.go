// Package api provides HTTP handlers for the Katla API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/artpar/katla/internal/core/mapping"
	"github.com/artpar/katla/internal/shell/api/openapi"
	"github.com/artpar/katla/internal/shell/management"
	"github.com/artpar/katla/internal/shell/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// =============================================================================
// Service Interfaces
// =============================================================================

// HiveManager is the hive service as seen by the handlers.
type HiveManager interface {
	ListHives(ctx context.Context) ([]mapping.HiveListItem, error)
	GetHive(ctx context.Context, id int) (mapping.HiveDetails, error)
	ListHiveSections(ctx context.Context, id int) ([]mapping.HiveSectionListItem, error)
	CreateHive(ctx context.Context, req mapping.UpdateHiveRequest) (mapping.HiveDetails, error)
	UpdateHive(ctx context.Context, id int, req mapping.UpdateHiveRequest) (mapping.HiveDetails, error)
	SetHiveStatus(ctx context.Context, id int, deleted bool) error
	DeleteHive(ctx context.Context, id int) error
}

// HiveSectionManager is the hive section service as seen by the handlers.
type HiveSectionManager interface {
	ListHiveSections(ctx context.Context, hiveID *int) ([]mapping.HiveSectionListItem, error)
	GetHiveSection(ctx context.Context, id int) (mapping.HiveSectionDetails, error)
	CreateHiveSection(ctx context.Context, req mapping.UpdateHiveSectionRequest) (mapping.HiveSectionDetails, error)
	UpdateHiveSection(ctx context.Context, id int, req mapping.UpdateHiveSectionRequest) (mapping.HiveSectionDetails, error)
	SetHiveSectionStatus(ctx context.Context, id int, deleted bool) error
	DeleteHiveSection(ctx context.Context, id int) error
}

// ProductManager is the product service as seen by the handlers.
type ProductManager interface {
	ListProducts(ctx context.Context) ([]mapping.ProductListItem, error)
	GetProduct(ctx context.Context, id int) (mapping.ProductDetails, error)
	CreateProduct(ctx context.Context, req mapping.UpdateProductRequest) (mapping.ProductDetails, error)
	UpdateProduct(ctx context.Context, id int, req mapping.UpdateProductRequest) (mapping.ProductDetails, error)
	SetProductStatus(ctx context.Context, id int, deleted bool) error
	DeleteProduct(ctx context.Context, id int) error
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	hives    HiveManager
	sections HiveSectionManager
	products ProductManager
	logger   *slog.Logger

	pinger      Pinger
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	metricsPath string
	openapi     *openapi.Generator
	auth        func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithPinger sets the dependency checked by /ready.
func WithPinger(p Pinger) Option {
	return func(h *Handler) {
		h.pinger = p
	}
}

// WithMetrics instruments requests with m and serves g on path.
// An empty path disables the metrics endpoint but keeps instrumentation.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer, path string) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
		h.metricsPath = path
	}
}

// WithOpenAPI serves the document produced by g on /openapi.json.
func WithOpenAPI(g *openapi.Generator) Option {
	return func(h *Handler) {
		h.openapi = g
	}
}

// WithAuth wraps the /api/v1 routes with mw.
func WithAuth(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.auth = mw
	}
}

// NewHandler creates a new API handler.
func NewHandler(hives HiveManager, sections HiveSectionManager, products ProductManager, l *slog.Logger, opts ...Option) *Handler {
	if l == nil {
		l = slog.Default()
	}
	h := &Handler{
		hives:    hives,
		sections: sections,
		products: products,
		logger:   l,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Middleware)
	r.Use(h.requestIDHeader)

	// Operational endpoints
	r.Group(func(r chi.Router) {
		r.Use(h.jsonContentType)
		r.Get("/health", h.handleHealth)
		r.Get("/ready", h.handleReady)
	})
	if h.openapi != nil {
		r.Get("/openapi.json", h.openapi.Handler())
	}
	if h.gatherer != nil && h.metricsPath != "" {
		r.Method(http.MethodGet, h.metricsPath, metrics.Handler(h.gatherer))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.jsonContentType)
		if h.auth != nil {
			r.Use(h.auth)
		}

		r.Route("/hives", func(r chi.Router) {
			r.Get("/", h.handleListHives)
			r.Post("/", h.handleCreateHive)
			r.Get("/{id}", h.handleGetHive)
			r.Put("/{id}", h.handleUpdateHive)
			r.Delete("/{id}", h.handleDeleteHive)
			r.Get("/{id}/sections", h.handleListHiveSectionsOfHive)
			r.Put("/{id}/status/{deleted}", h.handleSetHiveStatus)
		})

		r.Route("/sections", func(r chi.Router) {
			r.Get("/", h.handleListHiveSections)
			r.Post("/", h.handleCreateHiveSection)
			r.Get("/{id}", h.handleGetHiveSection)
			r.Put("/{id}", h.handleUpdateHiveSection)
			r.Delete("/{id}", h.handleDeleteHiveSection)
			r.Put("/{id}/status/{deleted}", h.handleSetHiveSectionStatus)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.handleListProducts)
			r.Post("/", h.handleCreateProduct)
			r.Get("/{id}", h.handleGetProduct)
			r.Put("/{id}", h.handleUpdateProduct)
			r.Delete("/{id}", h.handleDeleteProduct)
			r.Put("/{id}/status/{deleted}", h.handleSetProductStatus)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", "check", "database", "error", err)
			checks["database"] = "failed"
			h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
				Status: "not_ready",
				Checks: checks,
			})
			return
		}
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeValidationError answers 400 and counts the rejection against entity.
func (h *Handler) writeValidationError(w http.ResponseWriter, entity, message string) {
	h.metrics.ObserveRejection(entity, CodeValidation)
	h.writeError(w, http.StatusBadRequest, message, CodeValidation)
}

// writeServiceError maps a service error to its HTTP status and error code.
// entity names the resource of the failed request.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var svcErr *management.Error
	if errors.As(err, &svcErr) && svcErr.Entity != "" {
		entity = svcErr.Entity
	}

	switch {
	case errors.Is(err, management.ErrNotFound):
		code := entity + "_not_found"
		h.metrics.ObserveRejection(entity, code)
		h.writeError(w, http.StatusNotFound, message(svcErr, err), code)

	case errors.Is(err, management.ErrConflict):
		code := conflictCode(svcErr)
		h.metrics.ObserveRejection(entity, code)
		h.writeError(w, http.StatusConflict, message(svcErr, err), code)

	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"entity", entity,
			"error", err,
		)
		h.writeError(w, http.StatusInternalServerError, "internal server error", CodeInternal)
	}
}

func message(svcErr *management.Error, err error) string {
	if svcErr != nil && svcErr.Message != "" {
		return svcErr.Message
	}
	return err.Error()
}

func conflictCode(svcErr *management.Error) string {
	if svcErr == nil {
		return CodeConflict
	}
	switch svcErr.Field {
	case management.FieldStatus:
		return CodeNotSoftDeleted
	default:
		return CodeConflict
	}
}

// parseID reads the {id} path parameter. Any integer is accepted; ids the
// store never assigned, including zero and negatives, resolve to not found.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseDeleted reads the {deleted} path parameter.
func parseDeleted(r *http.Request) (bool, bool) {
	deleted, err := strconv.ParseBool(chi.URLParam(r, "deleted"))
	if err != nil {
		return false, false
	}
	return deleted, true
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
