package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/domain-scout/internal/domain"
)

type stubScan struct {
	healthErr error
	readyErr  error
	status    domain.ScanStatus
	available []string
}

func (s stubScan) HealthCheck(context.Context) error { return s.healthErr }
func (s stubScan) Ready() error                      { return s.readyErr }
func (s stubScan) Status() domain.ScanStatus         { return s.status }
func (s stubScan) Available() []string               { return s.available }

func serve(t *testing.T, scan ScanStatusProvider, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := NewRouter(NewHealthController(scan, "run-1"), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, stubScan{}, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.HealthStatusHealthy, body.Status)
	assert.Equal(t, "run-1", body.RunID)

	rec = serve(t, stubScan{healthErr: errors.New("scan failed")}, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "scan failed")
}

func TestReady(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(t, stubScan{}, "/ready").Code)

	rec := serve(t, stubScan{readyErr: errors.New("scan is not running")}, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestStatus(t *testing.T) {
	rec := serve(t, stubScan{status: domain.ScanStatus{
		RunID:        "run-1",
		Running:      true,
		Total:        10,
		Completed:    4,
		Available:    1,
		Errors:       1,
		ErrorsByKind: map[domain.ErrorKind]int{domain.KindTimeout: 1},
	}}, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.ScanStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Running)
	assert.EqualValues(t, 10, body.Total)
	assert.EqualValues(t, 4, body.Completed)
	assert.Equal(t, 1, body.ErrorsByKind[domain.KindTimeout])
}

func TestAvailable(t *testing.T) {
	rec := serve(t, stubScan{available: []string{"beta.com"}}, "/available")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int      `json:"count"`
		Domains []string `json:"domains"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, []string{"beta.com"}, body.Domains)
}
