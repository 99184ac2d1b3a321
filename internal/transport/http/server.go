// Package http exposes the settings store over HTTP: CRUD plus RFC 7396
// patch on the JSON-encoded settings row a spec's extractor fits, mirroring
// the teacher's chi.Server request/response conventions without depending
// on any oapi-codegen generated stub.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/featureflow/internal/logger"
	"github.com/kailas-cloud/featureflow/internal/metrics"
	"github.com/kailas-cloud/featureflow/internal/settings"
	"github.com/kailas-cloud/featureflow/internal/settingsstore"
	"github.com/kailas-cloud/featureflow/internal/version"
)

// errorResponse is the JSON body returned on every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server serves settings CRUD over a settingsstore.Store.
type Server struct {
	store  settingsstore.Store
	logger *zap.Logger
}

// NewServer builds a settings HTTP server over store. logger is the base
// logger every per-request logger (attached to the context by AccessLog)
// derives from; handlers read the per-request one via logpkg.FromContext
// rather than this field directly, so a request's log lines always carry
// its request_id.
func NewServer(store settingsstore.Store, logger *zap.Logger) *Server {
	logger.Debug("settings server initialized", zap.String("version", version.Full()))
	return &Server{store: store, logger: logger}
}

// Router builds the chi router this server answers on.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Route("/settings/{name}", func(r chi.Router) {
		r.Get("/", s.handleGet)
		r.Put("/", s.handlePut)
		r.Patch("/", s.handlePatch)
		r.Delete("/", s.handleDelete)
	})
	r.Get("/settings", s.handleList)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Full()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.handleStoreError(w, r, "get", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read body")
		return
	}
	if _, err := settings.Unmarshal(body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_settings", err.Error())
		return
	}
	if err := s.store.Put(r.Context(), name, body); err != nil {
		s.handleStoreError(w, r, "put", err)
		return
	}
	metrics.SettingsStoreRequestsTotal.WithLabelValues("put", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	patchBody, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read body")
		return
	}

	base, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.handleStoreError(w, r, "patch", err)
		return
	}

	merged, err := settings.MergePatch(base, patchBody)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patch", err.Error())
		return
	}
	if _, err := settings.Unmarshal(merged); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_settings", err.Error())
		return
	}

	if err := s.store.Put(r.Context(), name, merged); err != nil {
		s.handleStoreError(w, r, "patch", err)
		return
	}
	metrics.SettingsStoreRequestsTotal.WithLabelValues("patch", "ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(merged)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.handleStoreError(w, r, "delete", err)
		return
	}
	metrics.SettingsStoreRequestsTotal.WithLabelValues("delete", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid limit parameter")
		return
	}

	names, err := s.store.List(r.Context(), prefix)
	if err != nil {
		s.handleStoreError(w, r, "list", err)
		return
	}
	if limit != nil && *limit >= 0 && *limit < len(names) {
		names = names[:*limit]
	}
	metrics.SettingsStoreRequestsTotal.WithLabelValues("list", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string][]string{"names": names})
}

func (s *Server) handleStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, settingsstore.ErrNotFound) {
		metrics.SettingsStoreRequestsTotal.WithLabelValues(op, "not_found").Inc()
		writeError(w, http.StatusNotFound, "not_found", "settings row not found")
		return
	}
	metrics.SettingsStoreRequestsTotal.WithLabelValues(op, "error").Inc()
	logpkg.FromContext(r.Context()).Error("settings store error", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
