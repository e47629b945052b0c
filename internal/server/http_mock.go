package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iamtinsae/mockify/internal/events"
	"github.com/iamtinsae/mockify/internal/fake"
	"github.com/iamtinsae/mockify/internal/mock"
)

// handleMock serves every path outside the admin API as a mock call of the
// form /{projectSlug}/{resourceName}/{route...}.
func (s *MockServer) handleMock(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	served := events.MockServed{Method: r.Method, Path: r.URL.Path}
	defer func() {
		served.Duration = time.Since(start)
		s.publish(ctx, events.TopicMockServed, served)
	}()

	key, err := mock.ParseRequest(r.Method, r.URL.Path)
	if err != nil {
		served.Status = http.StatusBadRequest
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.engine.Respond(ctx, key)
	if err != nil {
		var ute *fake.UnsupportedTypeError
		if errors.As(err, &ute) {
			slog.Error("mock endpoint uses an unsupported type", "path", r.URL.Path, "type", ute.Type)
		} else {
			slog.Error("mock resolution failed", "path", r.URL.Path, "error", err)
		}
		served.Status = http.StatusInternalServerError
		writeError(w, http.StatusInternalServerError, "failed to generate mock response")
		return
	}

	served.Status = resp.Status
	if resp.Endpoint != nil {
		served.EndpointID = resp.Endpoint.ID
	}
	writeJSON(w, resp.Status, resp.Body)
}
