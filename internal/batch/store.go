package batch

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TaskStatus represents the lifecycle status of a submitted batch task
type TaskStatus string

const (
	TaskStatusAccepted   TaskStatus = "ACCEPTED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailure    TaskStatus = "FAILURE"
)

// ErrTaskNotFound is returned when a process ID has no stored task
var ErrTaskNotFound = errors.New("task not found")

// TaskResult records the submission and outcome of one batch run. Data
// holds the aggregated BatchResult once the run completes.
type TaskResult struct {
	ProcessID      string                 `json:"processId"`
	Status         TaskStatus             `json:"status"`
	Data           interface{}            `json:"data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	ProcessingTime time.Duration          `json:"processingTime,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Completed reports whether the task reached a terminal status
func (r *TaskResult) Completed() bool {
	return r.Status == TaskStatusSuccess || r.Status == TaskStatusFailure
}

// markCompleted stamps the terminal status and timing on the result
func (r *TaskResult) markCompleted(status TaskStatus, errMsg string) {
	now := time.Now()
	r.Status = status
	r.Error = errMsg
	r.CompletedAt = &now
	r.ProcessingTime = now.Sub(r.CreatedAt)
}

// TaskStore stores batch task results keyed by process ID. Implementations
// must be safe for concurrent use; the worker updates tasks while API
// handlers read them.
type TaskStore interface {
	Store(ctx context.Context, result *TaskResult) error
	Get(ctx context.Context, processID string) (*TaskResult, error)
	Update(ctx context.Context, result *TaskResult) error
	Delete(ctx context.Context, processID string) error

	// Cleanup evicts completed tasks older than maxAge. Tasks still
	// running are never evicted regardless of age.
	Cleanup(ctx context.Context, maxAge time.Duration) error

	// List returns all stored tasks, for the status endpoint
	List(ctx context.Context) ([]*TaskResult, error)
}

// InMemoryTaskStore is the default TaskStore. Results live only as long
// as the process; deployments that need status to survive restarts use
// the Redis store instead.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*TaskResult
}

// NewInMemoryTaskStore creates a new in-memory task store
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*TaskResult),
	}
}

func (s *InMemoryTaskStore) Store(ctx context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[result.ProcessID] = result
	return nil
}

func (s *InMemoryTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.tasks[processID]
	if !exists {
		return nil, ErrTaskNotFound
	}
	return result, nil
}

func (s *InMemoryTaskStore) Update(ctx context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[result.ProcessID]; !exists {
		return ErrTaskNotFound
	}
	s.tasks[result.ProcessID] = result
	return nil
}

func (s *InMemoryTaskStore) Delete(ctx context.Context, processID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[processID]; !exists {
		return ErrTaskNotFound
	}
	delete(s.tasks, processID)
	return nil
}

func (s *InMemoryTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for processID, result := range s.tasks {
		if result.Completed() && result.CreatedAt.Before(cutoff) {
			delete(s.tasks, processID)
		}
	}
	return nil
}

func (s *InMemoryTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*TaskResult, 0, len(s.tasks))
	for _, result := range s.tasks {
		results = append(results, result)
	}
	return results, nil
}
