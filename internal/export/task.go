package export

import "time"

// ArchiveName is the file name reported for every finished export.
const ArchiveName = "media_vault.zip"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) IsActive() bool {
	return s == TaskStatusPending || s == TaskStatusRunning
}

func (s TaskStatus) IsFinished() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is one export of a fixed set of media item ids.
type Task struct {
	ID         string
	ItemIDs    []string
	Status     TaskStatus
	FileName   string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (t *Task) clone() *Task {
	c := *t
	c.ItemIDs = append([]string(nil), t.ItemIDs...)
	return &c
}
