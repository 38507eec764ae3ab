package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectUpdates(s *Service) <-chan *Task {
	updates := make(chan *Task, 8)
	s.SetUpdateCallback(func(t *Task) {
		updates <- t
	})
	return updates
}

func waitStatus(t *testing.T, updates <-chan *Task, want TaskStatus) *Task {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case task := <-updates:
			if task.Status == want {
				return task
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %s", want)
			return nil
		}
	}
}

func TestStartRefusesEmptySelection(t *testing.T) {
	s := NewService(10 * time.Millisecond)

	task, err := s.Start(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Nil(t, task)
}

func TestExportCompletesWithArchiveName(t *testing.T) {
	s := NewService(20 * time.Millisecond)
	updates := collectUpdates(s)

	ids := []string{"a", "b"}
	task, err := s.Start(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, ArchiveName, task.FileName)
	assert.NotEmpty(t, task.ID)

	ids[0] = "mutated"

	assert.Equal(t, TaskStatusRunning, waitStatus(t, updates, TaskStatusRunning).Status)
	done := waitStatus(t, updates, TaskStatusCompleted)
	assert.Equal(t, "media_vault.zip", done.FileName)
	assert.Equal(t, []string{"a", "b"}, done.ItemIDs)
	assert.False(t, done.FinishedAt.Before(done.StartedAt))

	stored, ok := s.GetTask(task.ID)
	require.True(t, ok)
	assert.Equal(t, TaskStatusCompleted, stored.Status)
}

func TestCancelExport(t *testing.T) {
	s := NewService(time.Hour)
	updates := collectUpdates(s)

	task, err := s.Start(context.Background(), []string{"a"})
	require.NoError(t, err)
	waitStatus(t, updates, TaskStatusRunning)

	require.NoError(t, s.Cancel(task.ID))
	waitStatus(t, updates, TaskStatusCancelled)

	assert.ErrorIs(t, s.Cancel(task.ID), ErrTaskNotActive)
}

func TestParentContextCancelsExport(t *testing.T) {
	s := NewService(time.Hour)
	updates := collectUpdates(s)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := s.Start(ctx, []string{"a"})
	require.NoError(t, err)

	cancel()
	waitStatus(t, updates, TaskStatusCancelled)
}

func TestCancelUnknownTask(t *testing.T) {
	s := NewService(time.Millisecond)
	assert.ErrorIs(t, s.Cancel("missing"), ErrTaskNotFound)

	_, ok := s.GetTask("missing")
	assert.False(t, ok)
}

func TestDefaultDuration(t *testing.T) {
	s := NewService(0)
	assert.Equal(t, 3*time.Second, s.duration)
}

func TestTaskStatusPredicates(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		active   bool
		finished bool
	}{
		{TaskStatusPending, true, false},
		{TaskStatusRunning, true, false},
		{TaskStatusCompleted, false, true},
		{TaskStatusCancelled, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.status.IsActive())
			assert.Equal(t, tt.finished, tt.status.IsFinished())
		})
	}
}
