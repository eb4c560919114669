package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"applyflow/internal/config"
	"applyflow/internal/logging"
	"applyflow/internal/logging/types"
	"applyflow/pkg/models"
)

var (
	// ErrBatchInProgress is returned when a batch is submitted while
	// another automation task is still active. Batches are never queued
	// behind each other.
	ErrBatchInProgress = errors.New("a batch is already in progress")

	// ErrAutomationBusy is returned when the automation slot or worker
	// is already occupied by another session
	ErrAutomationBusy = errors.New("an automation session is already in progress")

	// ErrNotRunning is returned when work is submitted before Start
	ErrNotRunning = errors.New("batch manager is not running")
)

// Runner abstracts the automation engine the worker drives. Satisfied by
// automation.Runner; tests substitute a fake.
type Runner interface {
	FillJob(ctx context.Context, job models.JobApplication, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult
	FillApplication(ctx context.Context, url string, profile *models.ApplicantProfile, opts models.AutomationOptions) *models.AutomationResult
}

// Status is a point-in-time snapshot of automation progress, served by
// the status endpoint.
type Status struct {
	Active       bool   `json:"active"`
	ProcessID    string `json:"process_id,omitempty"`
	CurrentJobID string `json:"current_job_id,omitempty"`
	CurrentIndex int    `json:"current_index"`
	TotalJobs    int    `json:"total_jobs"`
	QueuedTasks  int    `json:"queued_tasks"`
}

// task is one accepted unit of background work: either a whole batch or
// a single fill. Exactly one of batch and fill is set.
type task struct {
	processID string
	batch     *models.BatchRequest
	fill      *models.FillRequest
}

// Manager runs automation tasks one at a time. Browsers are expensive
// and fills interact with live third-party sites, so execution is
// strictly sequential: submissions are rejected while any task is
// pending, a single worker consumes the handoff channel, and a single
// automation slot serializes browser use across the whole process,
// including synchronous previews submitted through the API.
type Manager struct {
	cfg    *config.Config
	runner Runner
	store  TaskStore
	logger types.Logger

	slot    chan struct{}
	queue   chan *task
	limiter *rate.Limiter

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	pending int
	status  Status
}

// NewManager creates a batch manager backed by the given store
func NewManager(cfg *config.Config, runner Runner, store TaskStore) *Manager {
	interval := cfg.Batch.InterJobDelay
	if interval <= 0 {
		interval = time.Second
	}

	return &Manager{
		cfg:     cfg,
		runner:  runner,
		store:   store,
		logger:  logging.GetGlobalLogger(),
		slot:    make(chan struct{}, 1),
		queue:   make(chan *task, 1),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Start launches the worker and cleanup goroutines
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("batch manager already running")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true

	m.wg.Add(2)
	go m.worker()
	go m.cleanupRoutine()

	m.logger.Info("Batch manager started", map[string]interface{}{
		"inter_job_delay": m.cfg.Batch.InterJobDelay.String(),
	})
	return nil
}

// Stop shuts the manager down, waiting for the current task to finish or
// the context to expire, whichever comes first. The handoff channel is
// never closed; submissions racing a shutdown get ErrNotRunning instead
// of a panic, and anything still queued is failed during the drain.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.logger.Info("Stopping batch manager...", map[string]interface{}{})
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Batch manager stopped gracefully", map[string]interface{}{})
	case <-ctx.Done():
		m.logger.Warn("Batch manager shutdown timed out", map[string]interface{}{})
	}

	for {
		select {
		case t := <-m.queue:
			m.failTask(t, "batch manager shutting down")
			m.taskDone()
		default:
			return nil
		}
	}
}

// TryAcquireSlot claims the process-wide automation slot without
// blocking. Callers that get the slot must call ReleaseSlot.
func (m *Manager) TryAcquireSlot() error {
	select {
	case m.slot <- struct{}{}:
		return nil
	default:
		return ErrAutomationBusy
	}
}

// ReleaseSlot returns the automation slot
func (m *Manager) ReleaseSlot() {
	select {
	case <-m.slot:
	default:
	}
}

func (m *Manager) acquireSlot(ctx context.Context) error {
	select {
	case m.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit accepts a batch for background processing. The task is stored
// as ACCEPTED before this returns, so its status is immediately
// pollable. A batch submitted while any task is still pending is
// rejected with ErrBatchInProgress, never queued.
func (m *Manager) Submit(ctx context.Context, processID string, request models.BatchRequest) error {
	meta := map[string]interface{}{"total_jobs": len(request.Jobs)}
	if err := m.accept(ctx, &task{processID: processID, batch: &request}, meta, ErrBatchInProgress); err != nil {
		return err
	}

	m.logger.Info("Batch accepted", map[string]interface{}{
		"process_id": processID,
		"total_jobs": len(request.Jobs),
	})
	return nil
}

// SubmitFill accepts a single fill for background processing, with the
// same one-at-a-time contract as Submit.
func (m *Manager) SubmitFill(ctx context.Context, processID string, request models.FillRequest) error {
	meta := map[string]interface{}{"url": request.URL}
	if err := m.accept(ctx, &task{processID: processID, fill: &request}, meta, ErrAutomationBusy); err != nil {
		return err
	}

	m.logger.Info("Fill accepted", map[string]interface{}{
		"process_id": processID,
		"url":        request.URL,
	})
	return nil
}

// accept gates admission, stores the ACCEPTED record, and hands the
// task to the worker. Admission and handoff happen under one lock so a
// concurrent Stop can never strand a send; the send itself cannot block
// because pending was zero.
func (m *Manager) accept(ctx context.Context, t *task, meta map[string]interface{}, busyErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotRunning
	}
	if m.pending > 0 {
		return busyErr
	}

	result := &TaskResult{
		ProcessID: t.processID,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  meta,
	}
	if err := m.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	m.pending++
	m.queue <- t
	return nil
}

func (m *Manager) taskDone() {
	m.mu.Lock()
	m.pending--
	m.mu.Unlock()
}

// GetTask retrieves a task result by process ID
func (m *Manager) GetTask(ctx context.Context, processID string) (*TaskResult, error) {
	return m.store.Get(ctx, processID)
}

// Status returns a snapshot of current automation progress
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.status
	s.QueuedTasks = len(m.queue)
	return s
}

// IsHealthy reports whether the manager can accept work
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manager) setStatus(update func(*Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	update(&m.status)
}

func (m *Manager) worker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case t := <-m.queue:
			if m.ctx.Err() != nil {
				m.failTask(t, "batch manager shutting down")
			} else if t.batch != nil {
				m.processBatch(t)
			} else {
				m.processFill(t)
			}
			m.taskDone()
		}
	}
}

func (m *Manager) processBatch(t *task) {
	if err := m.acquireSlot(m.ctx); err != nil {
		m.failTask(t, "automation slot unavailable: "+err.Error())
		return
	}
	defer m.ReleaseSlot()

	stored, err := m.store.Get(m.ctx, t.processID)
	if err != nil {
		m.logger.Error("Batch task missing from store", map[string]interface{}{
			"process_id": t.processID,
		})
		return
	}
	stored.Status = TaskStatusProcessing
	m.store.Update(m.ctx, stored)

	m.setStatus(func(s *Status) {
		s.Active = true
		s.ProcessID = t.processID
		s.TotalJobs = len(t.batch.Jobs)
		s.CurrentIndex = 0
		s.CurrentJobID = ""
	})
	defer m.setStatus(func(s *Status) {
		*s = Status{}
	})

	result := m.runJobs(t)

	if m.ctx.Err() != nil && result.Processed < result.TotalJobs {
		stored.markCompleted(TaskStatusFailure, "batch interrupted by shutdown")
	} else {
		stored.markCompleted(TaskStatusSuccess, "")
	}
	stored.Data = result
	m.store.Update(context.Background(), stored)

	m.logger.Info("Batch completed", map[string]interface{}{
		"process_id": t.processID,
		"processed":  result.Processed,
		"attempts":   result.AutomationAttempts,
		"successes":  result.AutomationSuccess,
	})
}

// processFill runs one background fill session through the same slot and
// status plumbing as a batch.
func (m *Manager) processFill(t *task) {
	if err := m.acquireSlot(m.ctx); err != nil {
		m.failTask(t, "automation slot unavailable: "+err.Error())
		return
	}
	defer m.ReleaseSlot()

	stored, err := m.store.Get(m.ctx, t.processID)
	if err != nil {
		m.logger.Error("Fill task missing from store", map[string]interface{}{
			"process_id": t.processID,
		})
		return
	}
	stored.Status = TaskStatusProcessing
	m.store.Update(m.ctx, stored)

	m.setStatus(func(s *Status) {
		s.Active = true
		s.ProcessID = t.processID
		s.TotalJobs = 1
		s.CurrentIndex = 1
	})
	defer m.setStatus(func(s *Status) {
		*s = Status{}
	})

	req := t.fill
	profile := req.Profile
	if req.CoverLetter != "" {
		profile.CoverLetter = req.CoverLetter
	}

	opts := models.AutomationOptions{
		Headless: m.cfg.Automation.Headless,
		KeepOpen: m.cfg.Automation.KeepOpen,
	}
	if req.Options != nil {
		opts = *req.Options
	}

	fillCtx, cancel := context.WithTimeout(m.ctx, m.cfg.Batch.TaskTimeout)
	result := m.runner.FillApplication(fillCtx, req.URL, &profile, opts)
	cancel()

	stored.Data = result
	if result.Success {
		stored.markCompleted(TaskStatusSuccess, "")
	} else {
		stored.markCompleted(TaskStatusFailure, result.Error)
	}
	m.store.Update(context.Background(), stored)

	m.logger.Info("Fill completed", map[string]interface{}{
		"process_id": t.processID,
		"success":    result.Success,
		"filled":     len(result.FilledFields),
	})
}

// runJobs executes the batch strictly sequentially, pacing jobs with the
// rate limiter. Per-job failures are recorded and never abort the batch.
func (m *Manager) runJobs(t *task) *models.BatchResult {
	result := &models.BatchResult{
		TotalJobs: len(t.batch.Jobs),
		Results:   []*models.AutomationResult{},
		Errors:    []string{},
		StartTime: time.Now(),
	}

	opts := models.AutomationOptions{
		Headless: m.cfg.Automation.Headless,
		KeepOpen: m.cfg.Automation.KeepOpen,
	}
	if t.batch.Options != nil {
		opts = *t.batch.Options
	}

	for i, job := range t.batch.Jobs {
		if err := m.limiter.Wait(m.ctx); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch stopped before job %s: %v", job.JobID, err))
			break
		}

		m.setStatus(func(s *Status) {
			s.CurrentIndex = i + 1
			s.CurrentJobID = job.JobID
		})

		jobCtx, cancel := context.WithTimeout(m.ctx, m.cfg.Batch.TaskTimeout)
		res := m.runner.FillJob(jobCtx, job, &t.batch.Profile, opts)
		cancel()

		result.Processed++
		result.AutomationAttempts++
		result.Results = append(result.Results, res)
		if res.Success {
			result.AutomationSuccess++
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("job %s: %s", job.JobID, res.Error))
		}
	}

	result.EndTime = time.Now()
	return result
}

func (m *Manager) failTask(t *task, msg string) {
	stored, err := m.store.Get(context.Background(), t.processID)
	if err != nil {
		return
	}
	stored.markCompleted(TaskStatusFailure, msg)
	m.store.Update(context.Background(), stored)
}

func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()

	interval := m.cfg.Batch.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.store.Cleanup(m.ctx, m.cfg.Batch.MaxTaskAge); err != nil {
				m.logger.Warn("Task cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
