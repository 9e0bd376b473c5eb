package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/auth"
	"github.com/teamdesk/platform/internal/canvas"
	"github.com/teamdesk/platform/internal/guard"
	"github.com/teamdesk/platform/internal/projection"
	"github.com/teamdesk/platform/internal/report"
	"github.com/teamdesk/platform/internal/repository"
	"github.com/teamdesk/platform/internal/service"
)

type testServer struct {
	router chi.Router
	coach  string
	viewer string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	store := repository.NewMemoryStore()
	require.NoError(t, repository.EnsureSchema(ctx, store))
	assets := t.TempDir()
	fc, err := canvas.NewFileCanvas(assets)
	require.NoError(t, err)

	jwtMgr := auth.NewJWTManager("test-secret", "teamdesk", time.Hour)
	coach, err := jwtMgr.GenerateToken("coach-1", auth.RoleCoach, "U16")
	require.NoError(t, err)
	viewer, err := jwtMgr.GenerateToken("parent-1", auth.RoleViewer, "U16")
	require.NoError(t, err)

	router := NewRouter(RouterDeps{
		Store:         store,
		Projections:   projection.NewInMemoryStore(),
		Canvas:        fc,
		Events:        service.NopPublisher{},
		JWTMgr:        jwtMgr,
		Logger:        logger,
		Backend:       "memory",
		Health:        func(context.Context) error { return nil },
		AssetsDir:     assets,
		Report:        report.GeneratorConfig{Club: "Club", Category: "U16"},
		ReportLimiter: guard.NewReportLimiter(10, time.Minute),
	})
	return &testServer{router: router, coach: coach, viewer: viewer}
}

func (s *testServer) do(t *testing.T, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

func TestRouterAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/roster/", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/roster/", s.viewer, "").Code)
	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodPut, "/roster/p1001", s.viewer, `{"first_name":"Ana","national_id":"p1001"}`).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/reports/results", s.viewer, "").Code)
}

func TestRouterRecordsFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/roster/p1001", s.coach,
		`{"first_name":"Ana","last_name":"Ruiz","national_id":"p1001","birth_date":"10/05/2008","jersey":"9"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/roster/p1001", s.coach,
		`{"first_name":"Ana","last_name":"Ruiz","national_id":"p1001","position":"FW"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/roster/", s.viewer, "")
	var roster []map[string]any
	decode(t, w, &roster)
	require.Len(t, roster, 1)
	assert.Equal(t, "FW", roster[0]["position"])

	t.Run("attendance day round trip", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/attendance/2024-03-05", s.coach,
			`{"session":"training","statuses":{"p1001":"absent"}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.do(t, http.MethodGet, "/attendance/2024-03-05", s.viewer, "")
		require.Equal(t, http.StatusOK, w.Code)
		var day struct {
			Recorded bool              `json:"recorded"`
			Session  string            `json:"session"`
			Statuses map[string]string `json:"statuses"`
		}
		decode(t, w, &day)
		assert.True(t, day.Recorded)
		assert.Equal(t, "training", day.Session)
		assert.Equal(t, "absent", day.Statuses["p1001"])

		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/attendance/05-03-2024", s.viewer, "").Code)
	})

	t.Run("match recording is idempotent per key", func(t *testing.T) {
		body := `{"date":"2024-03-16","opponent":"Lions","venue":"home","goals_for":3,"goals_against":1,"scorers":[{"name":"Ana Ruiz","goals":2}]}`
		w := s.do(t, http.MethodPost, "/matches/", s.coach, body, "Idempotency-Key", "form-1")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = s.do(t, http.MethodPost, "/matches/", s.coach, body, "Idempotency-Key", "form-1")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodGet, "/stats/scorers", s.viewer, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"name":"Ana Ruiz","goals":2}]`, w.Body.String())
	})

	t.Run("results report is generated and indexed", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/reports/latest/results", s.viewer, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodPost, "/reports/results", s.coach, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var res report.Result
		decode(t, w, &res)
		assert.True(t, res.Success)
		assert.NotEmpty(t, res.Artifact)

		w = s.do(t, http.MethodGet, "/reports/latest/results", s.viewer, "")
		require.Equal(t, http.StatusOK, w.Code)
		var a projection.Artifact
		decode(t, w, &a)
		assert.Equal(t, report.ReportResults, a.Kind)
		assert.Equal(t, res.Artifact, a.Path)

		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/reports/latest/invoice", s.viewer, "").Code)
	})

	t.Run("dossier for an unknown player fails with the result body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/reports/players/nobody/dossier?year=2024", s.coach, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var res report.Result
		decode(t, w, &res)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "player nobody not found")
	})
}

func TestRouterReportRateLimit(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/reports/results", s.coach, "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/reports/results", s.coach, "").Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/reports/squad?year=2024", s.coach, "").Code,
		"other report kinds keep their own quota")
}
