package extraction

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/pkg/ai"
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

func (r *fakeMeetingRepo) List(ctx context.Context) ([]*entities.Meeting, error) {
	return nil, nil
}

func (r *fakeMeetingRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus, completedAt *time.Time) error {
	return nil
}

type fakeTranscriptRepo struct {
	transcripts map[uuid.UUID]*entities.Transcript
}

func (r *fakeTranscriptRepo) Upsert(ctx context.Context, t *entities.Transcript) error {
	r.transcripts[t.MeetingID] = t
	return nil
}

func (r *fakeTranscriptRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	t, ok := r.transcripts[meetingID]
	if !ok {
		return nil, entities.ErrTranscriptNotFound
	}
	return t, nil
}

func (r *fakeTranscriptRepo) UpdateContext(ctx context.Context, meetingID uuid.UUID, additionalContext *string) error {
	if t, ok := r.transcripts[meetingID]; ok {
		t.AdditionalContext = additionalContext
	}
	return nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID][]*entities.Task
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, list := range r.tasks {
		for _, t := range list {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r *fakeTaskRepo) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[meetingID], nil
}

func (r *fakeTaskRepo) ReplaceAll(ctx context.Context, meetingID uuid.UUID, tasks []*entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[meetingID] = tasks
	return nil
}

func (r *fakeTaskRepo) MarkComplete(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	t, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.IsCompleted = true
	return t, nil
}

type stubExtractor struct {
	payloads []ai.TaskPayload
	err      error
	gotText  string
	gotExtra string
}

func (s *stubExtractor) ExtractTasks(ctx context.Context, transcript, additionalContext string) ([]ai.TaskPayload, error) {
	s.gotText = transcript
	s.gotExtra = additionalContext
	return s.payloads, s.err
}

type fixture struct {
	svc        *Service
	meetingID  uuid.UUID
	taskRepo   *fakeTaskRepo
	transcript *fakeTranscriptRepo
	extractor  *stubExtractor
}

func newFixture(t *testing.T, withTranscript bool) *fixture {
	t.Helper()

	meeting := entities.NewMeeting("https://meet.google.com/abc-defg-hij", "")
	meeting.Status = entities.MeetingStatusCompleted

	meetingRepo := &fakeMeetingRepo{meetings: map[uuid.UUID]*entities.Meeting{meeting.ID: meeting}}
	transcriptRepo := &fakeTranscriptRepo{transcripts: make(map[uuid.UUID]*entities.Transcript)}
	taskRepo := &fakeTaskRepo{tasks: make(map[uuid.UUID][]*entities.Task)}
	extractor := &stubExtractor{}

	if withTranscript {
		transcriptRepo.transcripts[meeting.ID] = entities.NewTranscript(
			meeting.ID,
			[]byte(`{"segments":[{"speaker":"Alice","text":"I'll write the report"}]}`),
		)
	}

	svc := NewService(meetingRepo, transcriptRepo, taskRepo, extractor, nil, keylock.New(), time.Second, zap.NewNop())
	return &fixture{
		svc:        svc,
		meetingID:  meeting.ID,
		taskRepo:   taskRepo,
		transcript: transcriptRepo,
		extractor:  extractor,
	}
}

func strptr(s string) *string { return &s }

func TestProcess_StoresExtractedTasks(t *testing.T) {
	f := newFixture(t, true)
	f.extractor.payloads = []ai.TaskPayload{
		{AssigneeName: "Alice", TaskDescription: "Write the report", Deadline: strptr("2026-09-01"), Priority: strptr("HIGH")},
		{AssigneeName: "Bob", TaskDescription: "Deploy", Priority: strptr("urgent")},
	}

	tasks, err := f.svc.Process(context.Background(), f.meetingID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Priority == nil || *tasks[0].Priority != entities.TaskPriorityHigh {
		t.Errorf("expected normalized high priority, got %v", tasks[0].Priority)
	}
	if tasks[1].Priority != nil {
		t.Errorf("unknown priority must coerce to nil, got %v", *tasks[1].Priority)
	}
	if tasks[0].IsCompleted || tasks[1].IsCompleted {
		t.Error("extracted tasks must start open")
	}

	stored, _ := f.taskRepo.ListByMeetingID(context.Background(), f.meetingID)
	if len(stored) != 2 {
		t.Fatalf("expected tasks to be persisted, got %d", len(stored))
	}

	if f.extractor.gotText == "" {
		t.Error("extractor must receive the processed transcript")
	}
}

func TestProcess_ReplacesPreviousExtraction(t *testing.T) {
	f := newFixture(t, true)
	old := entities.NewTask(f.meetingID, "Old", "Stale task")
	f.taskRepo.tasks[f.meetingID] = []*entities.Task{old}

	f.extractor.payloads = []ai.TaskPayload{{AssigneeName: "Alice", TaskDescription: "Fresh task"}}

	if _, err := f.svc.Process(context.Background(), f.meetingID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.taskRepo.ListByMeetingID(context.Background(), f.meetingID)
	if len(stored) != 1 || stored[0].TaskDescription != "Fresh task" {
		t.Fatalf("expected old tasks to be replaced, got %+v", stored)
	}
}

func TestProcess_DropsMalformedRows(t *testing.T) {
	f := newFixture(t, true)
	f.extractor.payloads = []ai.TaskPayload{
		{AssigneeName: "Alice", TaskDescription: "Keep me"},
		{AssigneeName: "", TaskDescription: "No assignee"},
		{AssigneeName: "Bob", TaskDescription: "   "},
	}

	tasks, err := f.svc.Process(context.Background(), f.meetingID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].AssigneeName != "Alice" {
		t.Fatalf("expected malformed rows to be dropped, got %+v", tasks)
	}
}

func TestProcess_RecordsAdditionalContext(t *testing.T) {
	f := newFixture(t, true)
	f.extractor.payloads = []ai.TaskPayload{{AssigneeName: "Alice", TaskDescription: "Task"}}

	extra := "focus on the launch"
	if _, err := f.svc.Process(context.Background(), f.meetingID, &extra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.extractor.gotExtra != extra {
		t.Errorf("extractor must receive the additional context, got %q", f.extractor.gotExtra)
	}

	stored := f.transcript.transcripts[f.meetingID]
	if stored.AdditionalContext == nil || *stored.AdditionalContext != extra {
		t.Error("additional context must be persisted with the transcript")
	}
}

func TestProcess_TranscriptMissing(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Process(context.Background(), f.meetingID, nil)
	if err == nil {
		t.Fatal("expected error without transcript")
	}

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_TRANSCRIPT_UNAVAILABLE {
		t.Fatalf("expected TRANSCRIPT_UNAVAILABLE, got %v", err)
	}
}

func TestProcess_MeetingNotFound(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Process(context.Background(), uuid.New(), nil)
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestProcess_ModelFailure(t *testing.T) {
	f := newFixture(t, true)
	f.extractor.err = stdErrors.New("model exploded")

	_, err := f.svc.Process(context.Background(), f.meetingID, nil)
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_EXTRACTION_FAILED {
		t.Fatalf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestProcess_ModelTimeout(t *testing.T) {
	f := newFixture(t, true)
	f.extractor.err = context.DeadlineExceeded

	_, err := f.svc.Process(context.Background(), f.meetingID, nil)
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_UPSTREAM_TIMEOUT {
		t.Fatalf("expected UPSTREAM_TIMEOUT, got %v", err)
	}
}

func TestProcess_AllRowsMalformed(t *testing.T) {
	f := newFixture(t, true)
	f.extractor.payloads = []ai.TaskPayload{{AssigneeName: "", TaskDescription: ""}}

	_, err := f.svc.Process(context.Background(), f.meetingID, nil)
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_EXTRACTION_FAILED {
		t.Fatalf("expected EXTRACTION_FAILED when nothing usable remains, got %v", err)
	}
}
