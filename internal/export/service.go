package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johanforsgren/mediavault/internal/config"
	"github.com/johanforsgren/mediavault/internal/logger"
)

var (
	ErrEmptySelection = errors.New("nothing selected to export")
	ErrTaskNotFound   = errors.New("export task not found")
	ErrTaskNotActive  = errors.New("export task is not active")
)

// Exporter defines the export service used by the UI.
type Exporter interface {
	SetUpdateCallback(func(*Task))
	Start(ctx context.Context, itemIDs []string) (*Task, error)
	Cancel(taskID string) error
	GetTask(taskID string) (*Task, bool)
}

var _ Exporter = (*Service)(nil)

// Service simulates an archive export: a task runs for a fixed duration and
// then reports ArchiveName. No media is downloaded.
type Service struct {
	duration time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	tasks    map[string]*Task
	cancels  map[string]context.CancelFunc
	onUpdate func(*Task)
}

func NewService(duration time.Duration) *Service {
	if duration <= 0 {
		duration = config.DefaultExportDuration
	}
	return &Service{
		duration: duration,
		now:      time.Now,
		tasks:    make(map[string]*Task),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// SetUpdateCallback sets the function receiving a snapshot on every status change.
func (s *Service) SetUpdateCallback(callback func(*Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Start creates a task for itemIDs and runs it in the background. The returned
// task is a snapshot.
func (s *Service) Start(ctx context.Context, itemIDs []string) (*Task, error) {
	if len(itemIDs) == 0 {
		return nil, ErrEmptySelection
	}

	task := &Task{
		ID:        uuid.NewString(),
		ItemIDs:   append([]string(nil), itemIDs...),
		Status:    TaskStatusPending,
		FileName:  ArchiveName,
		StartedAt: s.now(),
	}

	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.cancels[task.ID] = cancel
	snapshot := task.clone()
	s.mu.Unlock()

	logger.Log("export %s started for %d items", task.ID, len(itemIDs))
	go s.run(runCtx, task.ID)

	return snapshot, nil
}

func (s *Service) Cancel(taskID string) error {
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if !task.Status.IsActive() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotActive, task.Status)
	}
	cancel := s.cancels[taskID]
	s.mu.Unlock()

	cancel()
	return nil
}

func (s *Service) GetTask(taskID string) (*Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, false
	}
	return task.clone(), true
}

func (s *Service) run(ctx context.Context, taskID string) {
	s.setStatus(taskID, TaskStatusRunning)

	timer := time.NewTimer(s.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.setStatus(taskID, TaskStatusCompleted)
		logger.Log("export %s completed: %s", taskID, ArchiveName)
	case <-ctx.Done():
		s.setStatus(taskID, TaskStatusCancelled)
		logger.Log("export %s cancelled", taskID)
	}
}

func (s *Service) setStatus(taskID string, status TaskStatus) {
	s.mu.Lock()
	task := s.tasks[taskID]
	task.Status = status
	if status.IsFinished() {
		task.FinishedAt = s.now()
		if cancel := s.cancels[taskID]; cancel != nil {
			cancel()
			delete(s.cancels, taskID)
		}
	}
	snapshot := task.clone()
	callback := s.onUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}
