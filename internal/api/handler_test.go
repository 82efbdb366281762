package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmdv/ants-simulation/internal/api"
	"github.com/Dmdv/ants-simulation/internal/config"
	"github.com/Dmdv/ants-simulation/internal/runner"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "antsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1\n"), 0o644))
	loader, err := config.NewLoader(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	run := runner.New(ctx, loader.Config())
	t.Cleanup(func() {
		cancel()
		run.Shutdown()
	})
	return api.New(run, loader)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRunSimulation_Sync(t *testing.T) {
	h := newServer(t)
	w := postJSON(t, h, "/v1/simulations", `{
		"map": "Fizz north=Buzz\nBuzz south=Fizz\n",
		"ants": 2,
		"seed": 1,
		"starts": ["Fizz", "Buzz"]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res runner.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 1, res.Summary.Ticks)
	assert.Len(t, res.Events, 1)
}

func TestRunSimulation_ResultRetrievable(t *testing.T) {
	h := newServer(t)
	w := postJSON(t, h, "/v1/simulations", `{"map": "Lonely\n", "ants": 1, "id": "deadbeef"}`)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/simulations/deadbeef", nil)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var res runner.RunResult
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &res))
	assert.Equal(t, "deadbeef", res.ID)
}

func TestRunSimulation_BadRequests(t *testing.T) {
	h := newServer(t)

	w := postJSON(t, h, "/v1/simulations", `{"ants": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h, "/v1/simulations", `{"map": "Lonely\n"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h, "/v1/simulations", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSimulation_MapErrorsAreUnprocessable(t *testing.T) {
	h := newServer(t)
	w := postJSON(t, h, "/v1/simulations", `{"map": "Fizz north\n", "ants": 1}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var res runner.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Error, "malformed tunnel")
}

func TestGetSimulation_NotFound(t *testing.T) {
	h := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/simulations/ghost", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndReady(t *testing.T) {
	h := newServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
