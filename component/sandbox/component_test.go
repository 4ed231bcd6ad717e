package sandbox

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/healthforge/cdssandbox/lib/from"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		_, err := New(DefaultConfig())
		require.NoError(t, err)
	})
	t.Run("invalid workflow fails fast", func(t *testing.T) {
		config := DefaultConfig()
		config.Workflow = "invalid-workflow"
		_, err := New(config)
		require.ErrorContains(t, err, "invalid workflow")
	})
	t.Run("zero count fails fast", func(t *testing.T) {
		config := DefaultConfig()
		config.Count = 0
		_, err := New(config)
		require.ErrorContains(t, err, "count must be at least 1")
	})
}

func TestComponent_Run(t *testing.T) {
	t.Run("all requests dispatched and reported", func(t *testing.T) {
		var received atomic.Int32
		cdsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received.Add(1)
			var request cdshooks.Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "encounter-discharge", request.Hook)
			assert.NotEmpty(t, request.Context.PatientID)
			assert.Contains(t, request.Prefetch, "patient")
			assert.Contains(t, request.Prefetch, "encounter")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"cards":[{"summary":"ok","indicator":"info","source":{"label":"test"}}]}`))
		}))
		defer cdsServer.Close()

		config := Config{ServiceURL: cdsServer.URL, Workflow: "encounter-discharge", Count: 3}
		instance, err := New(config)
		require.NoError(t, err)

		report := postRun(t, instance)

		assert.EqualValues(t, 3, received.Load())
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 3, report.Succeeded)
		assert.Equal(t, 0, report.Failed)
		require.Len(t, report.Responses, 3)
		assert.Contains(t, report.Responses[0], "cards")
	})
	t.Run("failed dispatches are counted", func(t *testing.T) {
		cdsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer cdsServer.Close()

		config := Config{ServiceURL: cdsServer.URL, Workflow: "patient-view", Count: 2}
		instance, err := New(config)
		require.NoError(t, err)

		report := postRun(t, instance)

		assert.Equal(t, 2, report.Total)
		assert.Equal(t, 0, report.Succeeded)
		assert.Equal(t, 2, report.Failed)
	})
	t.Run("consecutive runs do not share queue state", func(t *testing.T) {
		var received atomic.Int32
		cdsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received.Add(1)
			_, _ = w.Write([]byte(`{"cards":[]}`))
		}))
		defer cdsServer.Close()

		config := Config{ServiceURL: cdsServer.URL, Workflow: "patient-view", Count: 2}
		instance, err := New(config)
		require.NoError(t, err)

		first := postRun(t, instance)
		second := postRun(t, instance)

		assert.Equal(t, 2, first.Total)
		assert.Equal(t, 2, second.Total)
		assert.EqualValues(t, 4, received.Load())
	})
}

func postRun(t *testing.T, instance *Component) RunReport {
	t.Helper()
	internalMux := http.NewServeMux()
	instance.RegisterHttpHandlers(http.NewServeMux(), internalMux)
	server := httptest.NewServer(internalMux)
	defer server.Close()

	httpResponse, err := http.Post(server.URL+"/sandbox/run", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	report, err := from.JSONResponse[RunReport](httpResponse)
	require.NoError(t, err)
	return report
}
