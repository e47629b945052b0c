package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

// AdminPrefix is the path prefix of the admin API. Project slugs cannot
// start with "_", so no mock URL falls under it.
const AdminPrefix = "/_admin/v1"

// NewHTTPHandler returns an http.Handler with all routes registered. Paths
// under AdminPrefix reach the admin API; every other path is a mock call.
// When authToken is non-empty, admin requests (except health) must include a
// valid Authorization: Bearer <token> header. Mock calls are never
// authenticated.
func (s *MockServer) NewHTTPHandler(authToken string) http.Handler {
	admin := http.NewServeMux()
	admin.HandleFunc("POST "+AdminPrefix+"/projects", s.handleCreateProject)
	admin.HandleFunc("GET "+AdminPrefix+"/projects", s.handleListProjects)
	admin.HandleFunc("GET "+AdminPrefix+"/projects/{slug}", s.handleGetProject)
	admin.HandleFunc("POST "+AdminPrefix+"/projects/{slug}/resources", s.handleCreateResource)
	admin.HandleFunc("DELETE "+AdminPrefix+"/resources/{id}", s.handleDeleteResource)
	admin.HandleFunc("POST "+AdminPrefix+"/resources/{id}/endpoints", s.handleCreateEndpoint)
	admin.HandleFunc("DELETE "+AdminPrefix+"/endpoints/{id}", s.handleDeleteEndpoint)
	admin.HandleFunc("GET "+AdminPrefix+"/events/stream", s.handleEventStream)
	admin.HandleFunc("GET "+AdminPrefix+"/health", s.handleHealth)
	admin.HandleFunc(AdminPrefix+"/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "unknown admin route")
	})

	adminHandler := AuthMiddleware(authToken, admin)

	// Mock paths bypass ServeMux, which would clean "/a//b" or "/a/./b"
	// and redirect instead of matching the stored route verbatim.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAdminPath(r.URL.Path) {
			adminHandler.ServeHTTP(w, r)
			return
		}
		s.handleMock(w, r)
	})
	return RequestLogger(Recoverer(root))
}

func isAdminPath(p string) bool {
	return p == AdminPrefix || strings.HasPrefix(p, AdminPrefix+"/")
}

// handleHealth handles GET /_admin/v1/health.
func (s *MockServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAdminError maps service and store errors onto HTTP statuses.
func writeAdminError(w http.ResponseWriter, err error, what string) {
	var (
		ie inputError
		ve *model.ValidationError
	)
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": ve.Errors})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, what+" already exists")
	default:
		slog.Error("admin request failed", "what", what, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process "+what)
	}
}
