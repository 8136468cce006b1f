package extraction

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
	"github.com/johnquangdev/meeting-tasks/pkg/ai"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

// Extractor turns transcript text into structured tasks
type Extractor interface {
	ExtractTasks(ctx context.Context, transcript, additionalContext string) ([]ai.TaskPayload, error)
}

// ArtifactStore archives pipeline artifacts for later inspection
type ArtifactStore interface {
	ArchiveRawTranscript(ctx context.Context, meetingID string, raw []byte) error
	ArchiveModelResponse(ctx context.Context, meetingID, stage string, response []byte) error
}

// Service runs task extraction over completed meeting transcripts
type Service struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	taskRepo       repositories.TaskRepository
	extractor      Extractor
	artifacts      ArtifactStore
	locks          *keylock.KeyLock
	modelTimeout   time.Duration
	logger         *zap.Logger
}

// NewService creates a new extraction service. artifacts may be nil when
// archival storage is disabled.
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	taskRepo repositories.TaskRepository,
	extractor Extractor,
	artifacts ArtifactStore,
	locks *keylock.KeyLock,
	modelTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		taskRepo:       taskRepo,
		extractor:      extractor,
		artifacts:      artifacts,
		locks:          locks,
		modelTimeout:   modelTimeout,
		logger:         logger,
	}
}

// Process extracts tasks from a meeting's transcript and replaces the
// meeting's task set with the result. Reprocessing a meeting discards any
// earlier extraction.
func (s *Service) Process(ctx context.Context, meetingID uuid.UUID, additionalContext *string) ([]*entities.Task, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrNotFound("meeting")
		}
		return nil, errors.ErrInternal(err)
	}

	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, meeting.ID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrTranscriptNotFound) {
			return nil, errors.ErrTranscriptUnavailable(meeting.ID.String())
		}
		return nil, errors.ErrInternal(err)
	}
	if !transcript.HasContent() {
		return nil, errors.ErrTranscriptUnavailable(meeting.ID.String())
	}

	extra := ""
	if additionalContext != nil {
		extra = strings.TrimSpace(*additionalContext)
		if err := s.transcriptRepo.UpdateContext(ctx, meeting.ID, additionalContext); err != nil {
			s.logger.Warn("failed to record additional context",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	if s.artifacts != nil {
		if err := s.artifacts.ArchiveRawTranscript(ctx, meeting.ID.String(), []byte(transcript.Raw)); err != nil {
			s.logger.Warn("failed to archive raw transcript",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	payloads, err := s.extract(ctx, transcript.ProcessedText, extra)
	if err != nil {
		return nil, err
	}

	tasks := s.toTasks(meeting.ID, payloads)
	if len(tasks) == 0 {
		return nil, errors.ErrExtractionFailed(stdErrors.New("model returned no usable tasks"))
	}

	s.archivePayloads(ctx, meeting.ID.String(), "extract", payloads)

	key := meeting.ID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.taskRepo.ReplaceAll(ctx, meeting.ID, tasks); err != nil {
		return nil, errors.ErrStorageFailure("replace task set", err)
	}

	s.logger.Info("tasks extracted",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("task_count", len(tasks)),
	)

	return tasks, nil
}

// extract calls the model under a deadline
func (s *Service) extract(ctx context.Context, transcript, additionalContext string) ([]ai.TaskPayload, error) {
	modelCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	payloads, err := s.extractor.ExtractTasks(modelCtx, transcript, additionalContext)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(modelCtx.Err(), context.DeadlineExceeded) {
			return nil, errors.ErrUpstreamTimeout("model", err)
		}
		return nil, errors.ErrExtractionFailed(err)
	}
	return payloads, nil
}

// toTasks converts model payloads to task entities, dropping rows the model
// produced without an assignee or description
func (s *Service) toTasks(meetingID uuid.UUID, payloads []ai.TaskPayload) []*entities.Task {
	tasks := make([]*entities.Task, 0, len(payloads))
	for _, p := range payloads {
		assignee := strings.TrimSpace(p.AssigneeName)
		description := strings.TrimSpace(p.TaskDescription)
		if assignee == "" || description == "" {
			s.logger.Warn("dropping malformed task from model",
				zap.String("meeting_id", meetingID.String()),
				zap.String("assignee", assignee),
			)
			continue
		}

		task := entities.NewTask(meetingID, assignee, description)
		task.Deadline = p.Deadline
		task.Priority = entities.NormalizePriority(p.Priority)
		tasks = append(tasks, task)
	}
	return tasks
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
