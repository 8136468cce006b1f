package bot

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/external/vexa"
	"github.com/johnquangdev/meeting-tasks/pkg/config"
	"github.com/johnquangdev/meeting-tasks/pkg/jobcontext"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

// agent statuses reported by the recording service
const (
	agentStatusActive  = "active"
	agentStatusStopped = "stopped"
	agentStatusFailed  = "failed"
)

// Service manages the recording-agent lifecycle for meetings
type Service struct {
	meetingRepo    repositories.MeetingRepository
	transcriptRepo repositories.TranscriptRepository
	agent          vexa.Client
	transcripts    *cache.TranscriptCache
	locks          *keylock.KeyLock
	worker         config.WorkerConfig
	agentTimeout   time.Duration
	logger         *zap.Logger
}

// NewService creates a new bot lifecycle service
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	agent vexa.Client,
	transcripts *cache.TranscriptCache,
	locks *keylock.KeyLock,
	worker config.WorkerConfig,
	agentTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo:    meetingRepo,
		transcriptRepo: transcriptRepo,
		agent:          agent,
		transcripts:    transcripts,
		locks:          locks,
		worker:         worker,
		agentTimeout:   agentTimeout,
		logger:         logger,
	}
}

// StartMeeting validates the Meet link, records a pending meeting and
// dispatches the recording agent in the background. The caller gets the
// pending meeting immediately; the agent join settles the status to active
// or failed later.
func (s *Service) StartMeeting(ctx context.Context, meetingURL, botName string) (*entities.Meeting, error) {
	if !entities.ValidMeetingURL(meetingURL) {
		return nil, errors.ErrInvalidMeetingURL(meetingURL)
	}

	meeting := entities.NewMeeting(meetingURL, botName)
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, errors.ErrStorageFailure("create meeting", err)
	}

	go s.joinWorker(meeting.ID, meeting.NativeMeetingID, meeting.BotName)

	return meeting, nil
}

// joinWorker dispatches the agent and polls until it joins the call.
// Runs detached from the request context; jobcontext bounds the whole
// attempt so a dead agent cannot leak the goroutine.
func (s *Service) joinWorker(meetingID uuid.UUID, nativeMeetingID, botName string) {
	ctx, cancel := jobcontext.JobBegin(context.Background(), meetingID, "agent_join")
	defer cancel()

	err := jobcontext.JobEnd(ctx, func(ctx context.Context) error {
		if err := s.agent.StartBot(ctx, nativeMeetingID, botName); err != nil {
			return err
		}
		return s.waitForJoin(ctx, nativeMeetingID)
	})

	// The job context may already be spent here; the settle write gets its
	// own deadline so a meeting can never stick in pending.
	settleCtx, settleCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer settleCancel()

	if err != nil {
		s.logger.Error("agent failed to join meeting",
			zap.String("meeting_id", meetingID.String()),
			zap.String("native_meeting_id", nativeMeetingID),
			zap.Error(err),
		)
		if terr := s.meetingRepo.TransitionStatus(settleCtx, meetingID, entities.MeetingStatusPending, entities.MeetingStatusFailed, nil); terr != nil {
			s.logger.Error("failed to mark meeting failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(terr),
			)
		}
		return
	}

	if terr := s.meetingRepo.TransitionStatus(settleCtx, meetingID, entities.MeetingStatusPending, entities.MeetingStatusActive, nil); terr != nil {
		// Someone already moved the meeting (e.g. completed via a racing
		// request); the agent is up either way, so just log it.
		s.logger.Warn("agent joined but meeting already left pending",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(terr),
		)
		return
	}

	s.logger.Info("agent joined meeting",
		zap.String("meeting_id", meetingID.String()),
		zap.String("native_meeting_id", nativeMeetingID),
	)
}

// waitForJoin polls the agent status until it reports active
func (s *Service) waitForJoin(ctx context.Context, nativeMeetingID string) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.worker.JoinPollInterval
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = s.worker.JoinMaxElapsed

	return backoff.Retry(func() error {
		status, err := s.agent.BotStatus(ctx, nativeMeetingID)
		if err != nil {
			return err
		}
		switch status {
		case agentStatusActive:
			return nil
		case agentStatusStopped, agentStatusFailed:
			return backoff.Permanent(fmt.Errorf("agent reported %s before joining", status))
		}
		return fmt.Errorf("agent not joined yet: %s", status)
	}, backoff.WithContext(bo, ctx))
}

// CompleteMeeting stops the agent, captures the transcript and closes the
// meeting. Completing an already-terminal meeting returns it unchanged.
func (s *Service) CompleteMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
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

	if meeting.IsTerminal() {
		return meeting, nil
	}

	if meeting.Status != entities.MeetingStatusActive {
		return nil, errors.ErrInvalidTransition(
			meeting.ID.String(),
			string(meeting.Status),
			string(entities.MeetingStatusCompleted),
		)
	}

	// Best effort; a stop failure should not block transcript capture
	if err := s.agent.StopBot(ctx, meeting.NativeMeetingID); err != nil {
		s.logger.Warn("failed to stop agent",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	raw, err := s.fetchTranscript(ctx, meeting.NativeMeetingID)
	if err != nil {
		return nil, err
	}

	transcript := entities.NewTranscript(meeting.ID, raw)
	if !transcript.HasContent() {
		if terr := s.meetingRepo.TransitionStatus(ctx, meeting.ID, entities.MeetingStatusActive, entities.MeetingStatusFailed, nil); terr != nil {
			return nil, errors.ErrStorageFailure("update meeting status", terr)
		}
		// Stale cached text must not outlive a failed capture
		if cerr := s.transcripts.Invalidate(ctx, meeting.ID.String()); cerr != nil {
			s.logger.Warn("failed to invalidate cached transcript",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(cerr),
			)
		}
		return nil, errors.ErrTranscriptUnavailable(meeting.ID.String())
	}

	if err := s.transcriptRepo.Upsert(ctx, transcript); err != nil {
		return nil, errors.ErrStorageFailure("store transcript", err)
	}
	if err := s.transcripts.Set(ctx, meeting.ID.String(), transcript.ProcessedText); err != nil {
		s.logger.Warn("failed to cache transcript",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	now := time.Now().UTC()
	if err := s.meetingRepo.TransitionStatus(ctx, meeting.ID, entities.MeetingStatusActive, entities.MeetingStatusCompleted, &now); err != nil {
		if stdErrors.Is(err, entities.ErrInvalidTransition) {
			return nil, errors.ErrInvalidTransition(
				meeting.ID.String(),
				string(meeting.Status),
				string(entities.MeetingStatusCompleted),
			)
		}
		return nil, errors.ErrStorageFailure("update meeting status", err)
	}

	meeting.Status = entities.MeetingStatusCompleted
	meeting.CompletedAt = &now

	s.logger.Info("meeting completed",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("transcript_bytes", len(raw)),
	)

	return meeting, nil
}

// fetchTranscript pulls the raw transcript from the agent under a deadline
func (s *Service) fetchTranscript(ctx context.Context, nativeMeetingID string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	raw, err := s.agent.GetTranscript(fetchCtx, nativeMeetingID)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return nil, errors.ErrUpstreamTimeout("recording agent", err)
		}
		return nil, errors.ErrInternal(err)
	}
	return raw, nil
}

// GetMeeting retrieves a meeting by ID
func (s *Service) GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrNotFound("meeting")
		}
		return nil, errors.ErrInternal(err)
	}
	return meeting, nil
}

// ListMeetings retrieves all meetings, newest first
func (s *Service) ListMeetings(ctx context.Context) ([]*entities.Meeting, error) {
	meetings, err := s.meetingRepo.List(ctx)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	return meetings, nil
}

// GetStatus reports the meeting status alongside the live agent status.
// The agent is only queried while the meeting is still in flight.
func (s *Service) GetStatus(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, string, error) {
	meeting, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, "", err
	}

	botStatus := ""
	if !meeting.IsTerminal() {
		status, err := s.agent.BotStatus(ctx, meeting.NativeMeetingID)
		if err != nil {
			s.logger.Warn("failed to query agent status",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		} else {
			botStatus = status
		}
	}

	return meeting, botStatus, nil
}

// GetTranscript retrieves the stored transcript for a meeting
func (s *Service) GetTranscript(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrTranscriptNotFound) {
			return nil, errors.ErrNotFound("transcript")
		}
		return nil, errors.ErrInternal(err)
	}
	return transcript, nil
}
