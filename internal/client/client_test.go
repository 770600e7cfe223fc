package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/planloom/internal/taskfile"
)

func testRequest() *taskfile.Request {
	return &taskfile.Request{Tasks: []taskfile.TaskInput{{Title: "A"}, {Title: "B", Dependencies: []string{"A"}}}}
}

func newClient(t *testing.T, url string, retries int) *Client {
	t.Helper()
	c, err := New(url, Options{MaxRetries: retries, InitialInterval: time.Millisecond})
	require.NoError(t, err)
	return c
}

func TestSchedule_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req taskfile.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(taskfile.Response{RecommendedOrder: []string{req.Tasks[0].Title, req.Tasks[1].Title}})
	}))
	defer srv.Close()

	order, err := newClient(t, srv.URL, 0).Schedule(context.Background(), "my project", testRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, order)
	assert.Equal(t, "/api/v1/projects/my project/schedule", gotPath)
}

func TestSchedule_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"cycle detected in dependencies","kind":"cycle_detected"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, 3).Schedule(context.Background(), "", testRequest())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "cycle_detected", apiErr.Kind)
	assert.Equal(t, "cycle detected in dependencies", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSchedule_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(taskfile.Response{RecommendedOrder: []string{"A", "B"}})
	}))
	defer srv.Close()

	order, err := newClient(t, srv.URL, 3).Schedule(context.Background(), "", testRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, order)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSchedule_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, 2).Schedule(context.Background(), "", testRequest())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPlan_DecodesPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/plan", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"plan-1","recommendedOrder":["A","B"],"criticalPath":["A","B"],"totalTasks":2,"totalWaves":2}`))
	}))
	defer srv.Close()

	plan, err := newClient(t, srv.URL+"/", 0).Plan(context.Background(), "", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, 2, plan.TotalWaves)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:7272", Options{})
	assert.Error(t, err)
}
