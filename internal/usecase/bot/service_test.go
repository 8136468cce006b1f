package bot

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/external/vexa"
	"github.com/johnquangdev/meeting-tasks/pkg/config"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
}

func (r *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *m
	r.meetings[m.ID] = &copied
	return nil
}

func (r *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMeetingRepo) List(ctx context.Context) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMeetingRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus, completedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return entities.ErrMeetingNotFound
	}
	if m.Status != from {
		return entities.ErrInvalidTransition
	}
	m.Status = to
	if completedAt != nil {
		m.CompletedAt = completedAt
	}
	return nil
}

func (r *fakeMeetingRepo) status(id uuid.UUID) entities.MeetingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meetings[id].Status
}

type fakeTranscriptRepo struct {
	mu          sync.Mutex
	transcripts map[uuid.UUID]*entities.Transcript
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{transcripts: make(map[uuid.UUID]*entities.Transcript)}
}

func (r *fakeTranscriptRepo) Upsert(ctx context.Context, t *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcripts[t.MeetingID] = t
	return nil
}

func (r *fakeTranscriptRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transcripts[meetingID]
	if !ok {
		return nil, entities.ErrTranscriptNotFound
	}
	return t, nil
}

func (r *fakeTranscriptRepo) UpdateContext(ctx context.Context, meetingID uuid.UUID, additionalContext *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.transcripts[meetingID]; ok {
		t.AdditionalContext = additionalContext
	}
	return nil
}

func newTestService(meetingRepo *fakeMeetingRepo, transcriptRepo *fakeTranscriptRepo) *Service {
	agent := vexa.NewClient(&config.VexaConfig{UseMock: true})
	worker := config.WorkerConfig{
		JoinPollInterval: 5 * time.Millisecond,
		JoinMaxElapsed:   500 * time.Millisecond,
	}
	return NewService(
		meetingRepo,
		transcriptRepo,
		agent,
		cache.NewTranscriptCache(nil),
		keylock.New(),
		worker,
		time.Second,
		zap.NewNop(),
	)
}

func waitForStatus(t *testing.T, repo *fakeMeetingRepo, id uuid.UUID, want entities.MeetingStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.status(id) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("meeting never reached %s, stuck at %s", want, repo.status(id))
}

func TestStartMeeting_InvalidURL(t *testing.T) {
	svc := newTestService(newFakeMeetingRepo(), newFakeTranscriptRepo())

	_, err := svc.StartMeeting(context.Background(), "https://zoom.us/j/123", "")
	if err == nil {
		t.Fatal("expected error for invalid meeting url")
	}

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_INVALID_INPUT {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestStartMeeting_JoinsAndActivates(t *testing.T) {
	meetingRepo := newFakeMeetingRepo()
	svc := newTestService(meetingRepo, newFakeTranscriptRepo())

	meeting, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "Scribe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meeting.Status != entities.MeetingStatusPending {
		t.Errorf("expected pending on return, got %s", meeting.Status)
	}
	if meeting.BotName != "Scribe" {
		t.Errorf("unexpected bot name %q", meeting.BotName)
	}

	waitForStatus(t, meetingRepo, meeting.ID, entities.MeetingStatusActive)
}

func TestCompleteMeeting_HappyPath(t *testing.T) {
	meetingRepo := newFakeMeetingRepo()
	transcriptRepo := newFakeTranscriptRepo()
	svc := newTestService(meetingRepo, transcriptRepo)

	meeting, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForStatus(t, meetingRepo, meeting.ID, entities.MeetingStatusActive)

	completed, err := svc.CompleteMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != entities.MeetingStatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}

	transcript, err := transcriptRepo.FindByMeetingID(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("expected transcript to be stored: %v", err)
	}
	if !transcript.HasContent() {
		t.Error("expected transcript content")
	}
}

func TestCompleteMeeting_Idempotent(t *testing.T) {
	meetingRepo := newFakeMeetingRepo()
	svc := newTestService(meetingRepo, newFakeTranscriptRepo())

	meeting, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForStatus(t, meetingRepo, meeting.ID, entities.MeetingStatusActive)

	first, err := svc.CompleteMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("first complete failed: %v", err)
	}
	if first.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}

	again, err := svc.CompleteMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("second complete must be a no-op, got %v", err)
	}
	if again.Status != entities.MeetingStatusCompleted {
		t.Errorf("expected completed, got %s", again.Status)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(*first.CompletedAt) {
		t.Error("second complete must not change completed_at")
	}
}

func TestCompleteMeeting_PendingRejected(t *testing.T) {
	meetingRepo := newFakeMeetingRepo()
	svc := newTestService(meetingRepo, newFakeTranscriptRepo())

	meeting := entities.NewMeeting("https://meet.google.com/abc-defg-hij", "")
	if err := meetingRepo.Create(context.Background(), meeting); err != nil {
		t.Fatal(err)
	}

	_, err := svc.CompleteMeeting(context.Background(), meeting.ID)
	if err == nil {
		t.Fatal("expected invalid transition error")
	}

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_INVALID_TRANSITION {
		t.Fatalf("expected INVALID_TRANSITION, got %v", err)
	}
}

func TestCompleteMeeting_NotFound(t *testing.T) {
	svc := newTestService(newFakeMeetingRepo(), newFakeTranscriptRepo())

	_, err := svc.CompleteMeeting(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetStatus(t *testing.T) {
	meetingRepo := newFakeMeetingRepo()
	svc := newTestService(meetingRepo, newFakeTranscriptRepo())

	meeting, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForStatus(t, meetingRepo, meeting.ID, entities.MeetingStatusActive)

	got, botStatus, err := svc.GetStatus(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != entities.MeetingStatusActive {
		t.Errorf("expected active, got %s", got.Status)
	}
	if botStatus != "active" {
		t.Errorf("expected agent status active, got %q", botStatus)
	}
}

// stubAgent reports a fixed status and transcript
type stubAgent struct {
	status     string
	transcript []byte
}

func (a *stubAgent) StartBot(ctx context.Context, nativeMeetingID, botName string) error { return nil }
func (a *stubAgent) StopBot(ctx context.Context, nativeMeetingID string) error { return nil }
func (a *stubAgent) BotStatus(ctx context.Context, nativeMeetingID string) (string, error) {
	return a.status, nil
}
func (a *stubAgent) GetTranscript(ctx context.Context, nativeMeetingID string) ([]byte, error) {
	return a.transcript, nil
}

// transitionCaptureRepo records the context each transition runs under
type transitionCaptureRepo struct {
	*fakeMeetingRepo
	captureMu   sync.Mutex
	ctxErr      error
	deadline    time.Time
	hadDeadline bool
}

func (r *transitionCaptureRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus, completedAt *time.Time) error {
	r.captureMu.Lock()
	r.ctxErr = ctx.Err()
	r.deadline, r.hadDeadline = ctx.Deadline()
	r.captureMu.Unlock()
	return r.fakeMeetingRepo.TransitionStatus(ctx, id, from, to, completedAt)
}

func TestStartMeeting_AgentNeverJoins_SettlesFailed(t *testing.T) {
	start := time.Now()
	meetingRepo := &transitionCaptureRepo{fakeMeetingRepo: newFakeMeetingRepo()}
	svc := NewService(
		meetingRepo,
		newFakeTranscriptRepo(),
		&stubAgent{status: "failed"},
		cache.NewTranscriptCache(nil),
		keylock.New(),
		config.WorkerConfig{JoinPollInterval: 5 * time.Millisecond, JoinMaxElapsed: 100 * time.Millisecond},
		time.Second,
		zap.NewNop(),
	)

	meeting, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForStatus(t, meetingRepo.fakeMeetingRepo, meeting.ID, entities.MeetingStatusFailed)

	meetingRepo.captureMu.Lock()
	defer meetingRepo.captureMu.Unlock()
	if meetingRepo.ctxErr != nil {
		t.Errorf("settle write ran under a dead context: %v", meetingRepo.ctxErr)
	}
	// The settle write must carry its own short deadline, not the join
	// job's, so the meeting still settles when the job budget is spent.
	if !meetingRepo.hadDeadline || meetingRepo.deadline.After(start.Add(time.Minute)) {
		t.Errorf("settle write must use a short-deadline context, got deadline %v", meetingRepo.deadline)
	}
}

func TestCompleteMeeting_EmptyTranscript_FailsAndDropsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	transcripts := cache.NewTranscriptCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	meetingRepo := newFakeMeetingRepo()
	svc := NewService(
		meetingRepo,
		newFakeTranscriptRepo(),
		&stubAgent{status: "active", transcript: []byte(`{"segments":[]}`)},
		transcripts,
		keylock.New(),
		config.WorkerConfig{JoinPollInterval: 5 * time.Millisecond, JoinMaxElapsed: 500 * time.Millisecond},
		time.Second,
		zap.NewNop(),
	)

	meeting, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForStatus(t, meetingRepo, meeting.ID, entities.MeetingStatusActive)

	if err := transcripts.Set(context.Background(), meeting.ID.String(), "stale text"); err != nil {
		t.Fatal(err)
	}

	_, err = svc.CompleteMeeting(context.Background(), meeting.ID)
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_TRANSCRIPT_UNAVAILABLE {
		t.Fatalf("expected TRANSCRIPT_UNAVAILABLE, got %v", err)
	}
	if got := meetingRepo.status(meeting.ID); got != entities.MeetingStatusFailed {
		t.Errorf("expected failed, got %s", got)
	}
	if _, ok := transcripts.Get(context.Background(), meeting.ID.String()); ok {
		t.Error("stale cached transcript must be dropped on a failed capture")
	}
}

type failingMeetingRepo struct {
	*fakeMeetingRepo
}

func (r *failingMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	return stdErrors.New("connection reset")
}

func TestStartMeeting_StoreWriteFailure(t *testing.T) {
	svc := newTestService(newFakeMeetingRepo(), newFakeTranscriptRepo())
	svc.meetingRepo = &failingMeetingRepo{fakeMeetingRepo: newFakeMeetingRepo()}

	_, err := svc.StartMeeting(context.Background(), "https://meet.google.com/abc-defg-hij", "")
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_STORAGE_FAILURE {
		t.Fatalf("expected STORAGE_FAILURE, got %v", err)
	}
}
