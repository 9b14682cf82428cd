package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	Status      string                       `json:"status"`
	Environment string                       `json:"environment"`
	Checks      map[string]map[string]string `json:"checks"`
}

func checkHealth(t *testing.T, h *HealthHandler) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthHandler_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s := newTestServer()
	s.Config.Primary.Env = "test"
	s.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.Redis.Close() })

	h := NewHealthHandler(s)
	require.Len(t, h.checks, 1, "database check needs a database")

	code, body := checkHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "healthy", body.Checks["redis"]["status"])

	mr.Close()

	code, body = checkHealth(t, h)
	assert.Equal(t, http.StatusOK, code, "redis is optional")
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["redis"]["status"])
	assert.NotEmpty(t, body.Checks["redis"]["error"])
}

func TestHealthHandler_RequiredCheckFails(t *testing.T) {
	h := &HealthHandler{
		Handler: NewHandler(newTestServer()),
		timeout: time.Second,
		checks: []healthCheck{
			{name: "database", required: true, ping: func(context.Context) error { return errors.New("connection refused") }},
		},
	}

	code, body := checkHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["database"]["error"])
}

func TestHealthHandler_ChecksRespectConfig(t *testing.T) {
	s := newTestServer()
	s.Redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = s.Redis.Close() })

	s.Config.Observability.HealthChecks.Enabled = false
	assert.Empty(t, NewHealthHandler(s).checks)

	s.Config.Observability.HealthChecks.Enabled = true
	s.Config.Observability.HealthChecks.Checks = []string{"database"}
	assert.Empty(t, NewHealthHandler(s).checks)
}

func TestOpenAPIHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.html"), []byte("<html>docs</html>"), 0o644))

	h := NewOpenAPIHandler(newTestServer())
	h.dir = dir

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), rec)
	require.NoError(t, h.ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<html>docs</html>", rec.Body.String())

	h.dir = t.TempDir()
	assert.Error(t, h.ServeOpenAPIUI(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), httptest.NewRecorder())))
}
