package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// FindByID retrieves a task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)

	// ListByMeetingID retrieves all tasks for a meeting in stable store order
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Task, error)

	// ReplaceAll atomically replaces the full task snapshot for a meeting
	ReplaceAll(ctx context.Context, meetingID uuid.UUID, tasks []*entities.Task) error

	// MarkComplete sets is_completed on a task. Marking an already-completed
	// task is a no-op; the unchanged task is returned either way.
	MarkComplete(ctx context.Context, id uuid.UUID) (*entities.Task, error)
}
