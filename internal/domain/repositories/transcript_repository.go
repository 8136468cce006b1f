package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Upsert stores the transcript for a meeting, replacing any prior capture
	Upsert(ctx context.Context, transcript *entities.Transcript) error

	// FindByMeetingID retrieves the transcript for a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)

	// UpdateContext records the caller-provided additional context
	UpdateContext(ctx context.Context, meetingID uuid.UUID, additionalContext *string) error
}
