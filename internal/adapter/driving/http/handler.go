// Package httphandler implements the REST API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ericfisherdev/modelkeeper/internal/application"
	"github.com/ericfisherdev/modelkeeper/internal/domain/model"
)

// maxRequestBodyBytes caps the size of JSON request bodies.
const maxRequestBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	modelSvc *application.ModelService
	metrics  *Metrics
	version  string
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	modelSvc *application.ModelService,
	metrics *Metrics,
	version string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		modelSvc: modelSvc,
		metrics:  metrics,
		version:  version,
		logger:   logger,
	}
}

// NewRouter creates a chi router with request ID, logging, metrics and
// recovery middleware installed. Routes are registered on it afterwards.
func NewRouter(logger *slog.Logger, metrics *Metrics) chi.Router {
	r := chi.NewRouter()

	// Recovery innermost so panics are caught before logging and metrics.
	r.Use(requestIDMiddleware)
	r.Use(func(next http.Handler) http.Handler { return loggingMiddleware(logger, next) })
	r.Use(func(next http.Handler) http.Handler { return metricsMiddleware(metrics, next) })
	r.Use(func(next http.Handler) http.Handler { return recoveryMiddleware(logger, next) })

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// RegisterAPIRoutes registers the JSON API, health, info and metrics routes.
func RegisterAPIRoutes(r chi.Router, h *Handler) {
	r.Get("/model1/stored", h.ListStored)
	r.Post("/model1", h.CreateModel)
	r.Patch("/model1/{name}", h.IncrementModel)
	r.Get("/health", h.Health)
	r.Get("/info", h.Info)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
}

// ListStored returns every stored model record.
func (h *Handler) ListStored(w http.ResponseWriter, r *http.Request) {
	records, err := h.modelSvc.ListAllRecords(r.Context())
	if err != nil {
		h.logger.Error("failed to list models", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateModel creates a record from a {"name", "value"} body. A name that is
// already stored is a 400.
func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var req CreateModelRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if req.Name == nil || req.Value == nil {
		writeError(w, http.StatusUnprocessableEntity, "name and value are required")
		return
	}

	_, err := h.modelSvc.CreateRecord(r.Context(), *req.Name, *req.Value)
	switch {
	case errors.Is(err, application.ErrDuplicateRecord):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, model.ErrInvalidName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to create model", "name", *req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.recordsCreated.Inc()
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Model created"})
}

// IncrementModel adds the "value" query parameter to the named record. It
// responds 201 with no body; an unknown name or an out-of-range result is a 400.
func (h *Handler) IncrementModel(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid model name")
		return
	}

	raw := r.URL.Query().Get("value")
	if raw == "" {
		writeError(w, http.StatusUnprocessableEntity, "query parameter value is required")
		return
	}

	delta, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "query parameter value must be an integer")
		return
	}

	_, err = h.modelSvc.IncrementValue(r.Context(), name, delta)
	switch {
	case errors.Is(err, application.ErrRecordNotFound), errors.Is(err, application.ErrValueOverflow):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, model.ErrInvalidName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to increment model", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.incrementsTotal.Inc()
	w.WriteHeader(http.StatusCreated)
}

// Health returns the service health status.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Info returns build information.
func (h *Handler) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		App:       "modelkeeper",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// pathParam returns a decoded chi URL parameter. chi matches against the raw
// path when the request path contains escapes, so the parameter is only
// unescaped in that case.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
