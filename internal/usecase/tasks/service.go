package tasks

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

// Service exposes read and completion operations over extracted tasks
type Service struct {
	meetingRepo repositories.MeetingRepository
	taskRepo    repositories.TaskRepository
	locks       *keylock.KeyLock
	logger      *zap.Logger
}

// NewService creates a new task service
func NewService(meetingRepo repositories.MeetingRepository, taskRepo repositories.TaskRepository, locks *keylock.KeyLock, logger *zap.Logger) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
		locks:       locks,
		logger:      logger,
	}
}

// ListByMeeting retrieves the task set for a meeting
func (s *Service) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Task, error) {
	if _, err := s.meetingRepo.FindByID(ctx, meetingID); err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrNotFound("meeting")
		}
		return nil, errors.ErrInternal(err)
	}

	tasks, err := s.taskRepo.ListByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	return tasks, nil
}

// MarkComplete flags a task as done. The write runs under the meeting's
// lock so it cannot interleave with an in-flight modification round.
// Already-completed tasks are returned unchanged.
func (s *Service) MarkComplete(ctx context.Context, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrTaskNotFound) {
			return nil, errors.ErrNotFound("task")
		}
		return nil, errors.ErrInternal(err)
	}

	key := task.MeetingID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	task, err = s.taskRepo.MarkComplete(ctx, taskID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrTaskNotFound) {
			return nil, errors.ErrNotFound("task")
		}
		return nil, errors.ErrStorageFailure("complete task", err)
	}

	s.logger.Info("task completed",
		zap.String("task_id", task.ID.String()),
		zap.String("meeting_id", task.MeetingID.String()),
	)
	return task, nil
}
