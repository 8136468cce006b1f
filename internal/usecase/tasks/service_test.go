package tasks

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func (r *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	r.meetings[m.ID] = m
	return nil
}

func (r *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	return m, nil
}

func (r *fakeMeetingRepo) List(ctx context.Context) ([]*entities.Meeting, error) { return nil, nil }

func (r *fakeMeetingRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus, completedAt *time.Time) error {
	return nil
}

type fakeTaskRepo struct {
	tasks map[uuid.UUID]*entities.Task
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, t := range r.tasks {
		if t.MeetingID == meetingID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ReplaceAll(ctx context.Context, meetingID uuid.UUID, tasks []*entities.Task) error {
	return nil
}

func (r *fakeTaskRepo) MarkComplete(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	t.IsCompleted = true
	return t, nil
}

func TestListByMeeting_NotFound(t *testing.T) {
	svc := NewService(
		&fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)},
		&fakeTaskRepo{tasks: make(map[uuid.UUID]*entities.Task)},
		keylock.New(),
		zap.NewNop(),
	)

	_, err := svc.ListByMeeting(context.Background(), uuid.New())
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMarkComplete(t *testing.T) {
	meeting := entities.NewMeeting("https://meet.google.com/abc-defg-hij", "")
	task := entities.NewTask(meeting.ID, "Alice", "Write the report")

	svc := NewService(
		&fakeMeetingRepo{meetings: map[uuid.UUID]*entities.Meeting{meeting.ID: meeting}},
		&fakeTaskRepo{tasks: map[uuid.UUID]*entities.Task{task.ID: task}},
		keylock.New(),
		zap.NewNop(),
	)

	done, err := svc.MarkComplete(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done.IsCompleted {
		t.Error("expected task to be completed")
	}

	// Completing again is a no-op
	again, err := svc.MarkComplete(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.IsCompleted {
		t.Error("expected task to stay completed")
	}
}

func TestMarkComplete_NotFound(t *testing.T) {
	svc := NewService(
		&fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)},
		&fakeTaskRepo{tasks: make(map[uuid.UUID]*entities.Task)},
		keylock.New(),
		zap.NewNop(),
	)

	_, err := svc.MarkComplete(context.Background(), uuid.New())
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
