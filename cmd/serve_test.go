//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/laundrymap/enrich-cli/internal/enrich"
	"github.com/laundrymap/enrich-cli/internal/job"
	"github.com/laundrymap/enrich-cli/internal/model"
)

func newTestMux(t *testing.T) (*http.ServeMux, *job.Controller) {
	t.Helper()
	controller := job.NewController(job.NewMemoryStore(), enrich.New(enrich.Options{}), 10)
	return newServeMux(controller, rate.NewLimiter(rate.Inf, 1)), controller
}

func writeJobInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "listings.csv")
	data := "name,address,city,state\nSpin City,12 Main St,Austin,TX\nSudsy,40 Oak Ave,Austin,TX\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestServeMux_Health(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServeMux_SubmitAndPoll(t *testing.T) {
	mux, _ := newTestMux(t)
	input := writeJobInput(t)

	payload, _ := json.Marshal(map[string]string{"filePath": input})
	req := httptest.NewRequest(http.MethodPost, "/enrich/jobs", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	id, ok := resp["jobId"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// Poll until the background run reaches a terminal state.
	var status map[string]any
	require.Eventually(t, func() bool {
		pollReq := httptest.NewRequest(http.MethodGet, "/enrich/jobs/"+id, nil)
		pollRR := httptest.NewRecorder()
		mux.ServeHTTP(pollRR, pollReq)
		if pollRR.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(pollRR.Body.Bytes(), &status); err != nil {
			return false
		}
		s, _ := status["status"].(string)
		return model.JobStatus(s).Terminal()
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, string(model.JobStatusCompleted), status["status"])
	assert.EqualValues(t, 100, status["progress"])
	require.Contains(t, status, "stats")
}

func TestServeMux_SubmitMissingFile(t *testing.T) {
	mux, _ := newTestMux(t)

	payload, _ := json.Marshal(map[string]string{"filePath": "/nonexistent/input.csv"})
	req := httptest.NewRequest(http.MethodPost, "/enrich/jobs", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestServeMux_SubmitInvalidBody(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/enrich/jobs", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestServeMux_SubmitMissingFilePath(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/enrich/jobs", bytes.NewReader([]byte("{}")))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "filePath is required")
}

func TestServeMux_SubmitRateLimited(t *testing.T) {
	controller := job.NewController(job.NewMemoryStore(), enrich.New(enrich.Options{}), 10)
	mux := newServeMux(controller, rate.NewLimiter(rate.Limit(0), 0))

	payload, _ := json.Marshal(map[string]string{"filePath": "/tmp/whatever.csv"})
	req := httptest.NewRequest(http.MethodPost, "/enrich/jobs", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "rate limit exceeded")
}

func TestServeMux_StatusUnknownJob(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/enrich/jobs/no-such-id", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "job not found")
}

func TestServeMux_ListJobs(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/enrich/jobs", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &jobs))
	assert.Empty(t, jobs)
}

func TestJobStatusBody_OmitsEmptyFields(t *testing.T) {
	j := &model.BatchJob{ID: "abc", Status: model.JobStatusPending, StartTime: time.Now()}
	body := jobStatusBody(j)

	assert.Equal(t, "abc", body["jobId"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "stats")
	assert.NotContains(t, body, "endTime")
}
