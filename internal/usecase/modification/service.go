package modification

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-tasks/pkg/ai"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

// Modifier reworks a task set according to a natural-language instruction
type Modifier interface {
	ModifyTasks(ctx context.Context, transcript string, current []ai.TaskPayload, instruction string) ([]ai.TaskPayload, error)
}

// ArtifactStore archives pipeline artifacts for later inspection
type ArtifactStore interface {
	ArchiveModelResponse(ctx context.Context, meetingID, stage string, response []byte) error
}

// Service applies natural-language modifications to a meeting's task set
type Service struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	taskRepo       repositories.TaskRepository
	modifier       Modifier
	transcripts    *cache.TranscriptCache
	artifacts      ArtifactStore
	locks          *keylock.KeyLock
	modelTimeout   time.Duration
	logger         *zap.Logger
}

// NewService creates a new modification service. artifacts may be nil when
// archival storage is disabled.
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	taskRepo repositories.TaskRepository,
	modifier Modifier,
	transcripts *cache.TranscriptCache,
	artifacts ArtifactStore,
	locks *keylock.KeyLock,
	modelTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		taskRepo:       taskRepo,
		modifier:       modifier,
		transcripts:    transcripts,
		artifacts:      artifacts,
		locks:          locks,
		modelTimeout:   modelTimeout,
		logger:         logger,
	}
}

// Modify reworks the meeting's task set per the instruction. The whole
// operation holds the meeting lock: concurrent modifications serialize, and
// each one sees the set its predecessor wrote.
func (s *Service) Modify(ctx context.Context, meetingID uuid.UUID, instruction string) ([]*entities.Task, error) {
	key := meetingID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrNotFound("meeting")
		}
		return nil, errors.ErrInternal(err)
	}

	current, err := s.taskRepo.ListByMeetingID(ctx, meeting.ID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if len(current) == 0 {
		return nil, errors.ErrNoTasksToModify(meeting.ID.String())
	}

	transcript := s.transcriptText(ctx, meeting.ID)

	payloads, err := s.modify(ctx, transcript, toPayloads(current), instruction)
	if err != nil {
		return nil, err
	}

	s.archivePayloads(ctx, meeting.ID.String(), "modify", payloads)

	next := s.reconcile(meeting.ID, current, payloads)
	if len(next) == 0 {
		return nil, errors.ErrModificationFailed(stdErrors.New("model returned no usable tasks"))
	}

	if err := s.taskRepo.ReplaceAll(ctx, meeting.ID, next); err != nil {
		return nil, errors.ErrStorageFailure("replace task set", err)
	}

	s.logger.Info("tasks modified",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("before", len(current)),
		zap.Int("after", len(next)),
	)

	return next, nil
}

// transcriptText reads the processed transcript through the cache. A missing
// transcript degrades to an empty context string rather than failing the
// modification; the task list itself carries most of the signal.
func (s *Service) transcriptText(ctx context.Context, meetingID uuid.UUID) string {
	if text, ok := s.transcripts.Get(ctx, meetingID.String()); ok {
		return text
	}

	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return ""
	}

	if err := s.transcripts.Set(ctx, meetingID.String(), transcript.ProcessedText); err != nil {
		s.logger.Warn("failed to cache transcript",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
	return transcript.ProcessedText
}

// modify calls the model under a deadline
func (s *Service) modify(ctx context.Context, transcript string, current []ai.TaskPayload, instruction string) ([]ai.TaskPayload, error) {
	modelCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	payloads, err := s.modifier.ModifyTasks(modelCtx, transcript, current, instruction)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(modelCtx.Err(), context.DeadlineExceeded) {
			return nil, errors.ErrUpstreamTimeout("model", err)
		}
		return nil, errors.ErrModificationFailed(err)
	}
	return payloads, nil
}

// reconcile matches the model's output back to stored tasks so surviving
// tasks keep their identity and completion state. Matching is by echoed id
// first, then by exact assignee and description for rows the model dropped
// the id from. Unmatched rows become new open tasks; stored tasks absent
// from the output are dropped.
func (s *Service) reconcile(meetingID uuid.UUID, current []*entities.Task, payloads []ai.TaskPayload) []*entities.Task {
	byID := make(map[uuid.UUID]*entities.Task, len(current))
	for _, t := range current {
		byID[t.ID] = t
	}

	type contentKey struct {
		assignee    string
		description string
	}
	// Duplicate content rows queue up and are consumed in store order
	byContent := make(map[contentKey][]*entities.Task, len(current))
	for _, t := range current {
		k := contentKey{strings.TrimSpace(t.AssigneeName), strings.TrimSpace(t.TaskDescription)}
		byContent[k] = append(byContent[k], t)
	}

	claimed := make(map[uuid.UUID]bool, len(current))
	next := make([]*entities.Task, 0, len(payloads))

	for _, p := range payloads {
		assignee := strings.TrimSpace(p.AssigneeName)
		description := strings.TrimSpace(p.TaskDescription)
		if assignee == "" || description == "" {
			continue
		}

		var origin *entities.Task
		if id, err := uuid.Parse(p.ID); err == nil {
			if t, ok := byID[id]; ok && !claimed[t.ID] {
				origin = t
			}
		}
		if origin == nil {
			for _, t := range byContent[contentKey{assignee, description}] {
				if !claimed[t.ID] {
					origin = t
					break
				}
			}
		}

		task := entities.NewTask(meetingID, assignee, description)
		task.Deadline = p.Deadline
		task.Priority = entities.NormalizePriority(p.Priority)

		if origin != nil {
			claimed[origin.ID] = true
			task.ID = origin.ID
			task.IsCompleted = origin.IsCompleted
			task.CreatedAt = origin.CreatedAt
		}

		next = append(next, task)
	}

	return next
}

// toPayloads converts stored tasks to the model exchange shape, ids included
func toPayloads(tasks []*entities.Task) []ai.TaskPayload {
	payloads := make([]ai.TaskPayload, 0, len(tasks))
	for _, t := range tasks {
		p := ai.TaskPayload{
			ID:              t.ID.String(),
			AssigneeName:    t.AssigneeName,
			TaskDescription: t.TaskDescription,
			Deadline:        t.Deadline,
		}
		if t.Priority != nil {
			priority := string(*t.Priority)
			p.Priority = &priority
		}
		payloads = append(payloads, p)
	}
	return payloads
}

// archivePayloads stores the parsed model output, best effort
func (s *Service) archivePayloads(ctx context.Context, meetingID, stage string, payloads []ai.TaskPayload) {
	if s.artifacts == nil {
		return
	}
	body, err := json.Marshal(payloads)
	if err != nil {
		return
	}
	if err := s.artifacts.ArchiveModelResponse(ctx, meetingID, stage, body); err != nil {
		s.logger.Warn("failed to archive model response",
			zap.String("meeting_id", meetingID),
			zap.String("stage", stage),
			zap.Error(err),
		)
	}
}
