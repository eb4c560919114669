package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyflow/internal/batch"
	"applyflow/internal/config"
	"applyflow/pkg/models"
)

type noopRunner struct{}

func (noopRunner) FillJob(ctx context.Context, job models.JobApplication, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult {
	return &models.AutomationResult{Success: true, URL: job.URL}
}

func (noopRunner) FillApplication(ctx context.Context, url string, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult {
	return &models.AutomationResult{Success: true, URL: url}
}

// heldRunner blocks every call until its gate closes, keeping the
// manager busy for conflict tests.
type heldRunner struct {
	gate chan struct{}
}

func (r *heldRunner) FillJob(ctx context.Context, job models.JobApplication, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult {
	<-r.gate
	return &models.AutomationResult{Success: true, URL: job.URL}
}

func (r *heldRunner) FillApplication(ctx context.Context, url string, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult {
	<-r.gate
	return &models.AutomationResult{Success: true, URL: url}
}

func testManager(t *testing.T, start bool) *batch.Manager {
	t.Helper()
	return testManagerWith(t, noopRunner{}, start)
}

func testManagerWith(t *testing.T, runner batch.Runner, start bool) *batch.Manager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Batch.InterJobDelay = time.Millisecond
	cfg.Batch.TaskTimeout = time.Second
	cfg.Batch.CleanupInterval = time.Hour
	cfg.Batch.MaxTaskAge = time.Hour

	m := batch.NewManager(cfg, runner, batch.NewInMemoryTaskStore())
	if start {
		require.NoError(t, m.Start(context.Background()))
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			m.Stop(ctx)
		})
	}
	return m
}

func doRequest(handler echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = handler(c)
	return rec
}

func TestHealthHandler(t *testing.T) {
	rec := doRequest(HealthHandler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestReadinessHandlerNotRunning(t *testing.T) {
	m := testManager(t, false)
	rec := doRequest(ReadinessHandler(m), http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadinessHandlerRunning(t *testing.T) {
	m := testManager(t, true)
	rec := doRequest(ReadinessHandler(m), http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBatchHandlerRejectsInvalidPayload(t *testing.T) {
	m := testManager(t, true)
	cfg := &config.Config{}

	// Missing jobs entirely
	rec := doRequest(BatchHandler(cfg, m), http.MethodPost, "/api/v1/applications/batch", `{"profile":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
}

func TestBatchHandlerAcceptsBatch(t *testing.T) {
	m := testManager(t, true)
	cfg := &config.Config{}

	body := `{"jobs":[{"job_id":"j1","url":"https://jobs.example.com/j1/apply"}],"profile":{}}`
	rec := doRequest(BatchHandler(cfg, m), http.MethodPost, "/api/v1/applications/batch", body, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.AsyncAcceptedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ProcessID)
	assert.Equal(t, models.AsyncStatusAccepted, resp.Status)

	// The accepted task becomes pollable immediately
	recTask := doRequest(TaskStatusHandler(m), http.MethodGet, "/api/v1/tasks/"+resp.ProcessID, "", map[string]string{"id": resp.ProcessID})
	assert.Equal(t, http.StatusOK, recTask.Code)
}

func TestFillHandlerAcceptsAndReturnsProcessID(t *testing.T) {
	m := testManager(t, true)
	cfg := &config.Config{}

	body := `{"url":"https://jobs.example.com/j1/apply","profile":{}}`
	rec := doRequest(FillHandler(cfg, m), http.MethodPost, "/api/v1/applications/fill", body, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.AsyncAcceptedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ProcessID)
	assert.Equal(t, models.AsyncStatusAccepted, resp.Status)

	// The background session completes and the task becomes terminal
	require.Eventually(t, func() bool {
		task, err := m.GetTask(context.Background(), resp.ProcessID)
		return err == nil && task.Completed()
	}, 3*time.Second, 5*time.Millisecond)
}

func TestFillHandlerRejectsInvalidPayload(t *testing.T) {
	m := testManager(t, true)
	cfg := &config.Config{}

	rec := doRequest(FillHandler(cfg, m), http.MethodPost, "/api/v1/applications/fill", `{"profile":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
}

func TestFillHandlerConflictsWhileBusy(t *testing.T) {
	runner := &heldRunner{gate: make(chan struct{})}
	m := testManagerWith(t, runner, true)
	defer close(runner.gate)
	cfg := &config.Config{}

	body := `{"url":"https://jobs.example.com/j1/apply","profile":{}}`
	rec := doRequest(FillHandler(cfg, m), http.MethodPost, "/api/v1/applications/fill", body, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doRequest(FillHandler(cfg, m), http.MethodPost, "/api/v1/applications/fill", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "automation_busy", resp.Error)
}

func TestBatchHandlerConflictsWhileBatchActive(t *testing.T) {
	runner := &heldRunner{gate: make(chan struct{})}
	m := testManagerWith(t, runner, true)
	defer close(runner.gate)
	cfg := &config.Config{}

	body := `{"jobs":[{"job_id":"j1","url":"https://jobs.example.com/j1/apply"}],"profile":{}}`
	rec := doRequest(BatchHandler(cfg, m), http.MethodPost, "/api/v1/applications/batch", body, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doRequest(BatchHandler(cfg, m), http.MethodPost, "/api/v1/applications/batch", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "batch_in_progress", resp.Error)
}

func TestTaskStatusHandlerNotFound(t *testing.T) {
	m := testManager(t, true)
	rec := doRequest(TaskStatusHandler(m), http.MethodGet, "/api/v1/tasks/nope", "", map[string]string{"id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "task_not_found", resp.Error)
}

func TestBatchStatusHandler(t *testing.T) {
	m := testManager(t, true)
	rec := doRequest(BatchStatusHandler(m), http.MethodGet, "/api/v1/applications/batch/status", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status batch.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Active)
}
