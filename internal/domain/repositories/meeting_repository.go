package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create persists a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// List retrieves all meetings ordered by created_at descending
	List(ctx context.Context) ([]*entities.Meeting, error)

	// TransitionStatus atomically moves a meeting from one status to another.
	// The update is a compare-and-swap on the current status; it returns
	// entities.ErrInvalidTransition when the meeting is no longer in `from`.
	// completedAt is only written on the edge into completed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus, completedAt *time.Time) error
}
