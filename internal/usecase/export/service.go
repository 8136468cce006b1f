package export

import (
	"context"
	stdErrors "errors"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
)

// GeneratedBy identifies this service in export payloads
const GeneratedBy = "meeting-tasks"

// Service builds deterministic exports of a meeting's task set. Exports
// derive only from stored rows, so repeated exports of the same state
// produce identical bytes.
type Service struct {
	meetingRepo repositories.MeetingRepository
	taskRepo    repositories.TaskRepository
	logger      *zap.Logger
}

// NewService creates a new export service
func NewService(meetingRepo repositories.MeetingRepository, taskRepo repositories.TaskRepository, logger *zap.Logger) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

// Snapshot loads the meeting and its tasks in stable store order
func (s *Service) Snapshot(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, []*entities.Task, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, nil, errors.ErrNotFound("meeting")
		}
		return nil, nil, errors.ErrInternal(err)
	}

	tasks, err := s.taskRepo.ListByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, nil, errors.ErrInternal(err)
	}

	return meeting, tasks, nil
}

// BuildPDF renders the action items report for a meeting
func (s *Service) BuildPDF(ctx context.Context, meetingID uuid.UUID) ([]byte, error) {
	meeting, tasks, err := s.Snapshot(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	pdf, err := RenderPDF(meeting, tasks)
	if err != nil {
		return nil, errors.ErrExportFailed("pdf", err)
	}

	s.logger.Info("pdf export generated",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("task_count", len(tasks)),
		zap.Int("bytes", len(pdf)),
	)
	return pdf, nil
}

// Summary aggregates task counts for export footers
type Summary struct {
	TotalTasks     int
	CompletedTasks int
	PendingTasks   int
	CompletionRate float64
	Assignees      int
}

// Summarize computes the export summary for a task set. The completion rate
// is a percentage rounded to one decimal place.
func Summarize(tasks []*entities.Task) Summary {
	sum := Summary{TotalTasks: len(tasks)}

	seen := make(map[string]bool)
	for _, t := range tasks {
		if t.IsCompleted {
			sum.CompletedTasks++
		}
		if !seen[t.AssigneeName] {
			seen[t.AssigneeName] = true
			sum.Assignees++
		}
	}
	sum.PendingTasks = sum.TotalTasks - sum.CompletedTasks

	if sum.TotalTasks > 0 {
		rate := float64(sum.CompletedTasks) / float64(sum.TotalTasks) * 100
		sum.CompletionRate = math.Round(rate*10) / 10
	}
	return sum
}

// GroupByAssignee partitions tasks by assignee, preserving first-appearance
// order of both assignees and their tasks
func GroupByAssignee(tasks []*entities.Task) ([]string, map[string][]*entities.Task) {
	var order []string
	groups := make(map[string][]*entities.Task)
	for _, t := range tasks {
		if _, ok := groups[t.AssigneeName]; !ok {
			order = append(order, t.AssigneeName)
		}
		groups[t.AssigneeName] = append(groups[t.AssigneeName], t)
	}
	return order, groups
}
