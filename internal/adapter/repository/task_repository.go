package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
)

// taskRepository implements the TaskRepository interface
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &taskRepository{db: db}
}

// FindByID retrieves a task by its ID
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var task entities.Task
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByMeetingID retrieves all tasks for a meeting in insertion order.
// created_at alone is not a total order (a batch shares one timestamp),
// so id breaks ties to keep listings stable across calls.
func (r *taskRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Task, error) {
	var tasks []*entities.Task
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

// ReplaceAll swaps the full task set for a meeting in one transaction.
// Extraction and modification both produce a complete new set; a partial
// write would leave the meeting with a mix of old and new tasks.
func (r *taskRepository) ReplaceAll(ctx context.Context, meetingID uuid.UUID, tasks []*entities.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&entities.Task{}).Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		return tx.Create(tasks).Error
	})
}

// MarkComplete flags a task as done and returns the updated row.
// Completing an already-completed task is a no-op, not an error.
func (r *taskRepository) MarkComplete(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted {
		return task, nil
	}

	err = r.db.WithContext(ctx).
		Model(&entities.Task{}).
		Where("id = ?", id).
		Update("is_completed", true).Error
	if err != nil {
		return nil, err
	}

	task.IsCompleted = true
	return task, nil
}
