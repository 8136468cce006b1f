package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create persists a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// List retrieves all meetings, newest first
func (r *meetingRepository) List(ctx context.Context) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&meetings).Error
	return meetings, err
}

// TransitionStatus atomically moves a meeting between lifecycle states.
// The edge is checked against the lifecycle table first, then the WHERE
// clause on the current status makes the update a compare-and-swap, so two
// racing transitions can never both win.
func (r *meetingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus, completedAt *time.Time) error {
	if !entities.CanTransition(from, to) {
		return entities.ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": to}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the meeting does not exist or it already left `from`
		var count int64
		if err := r.db.WithContext(ctx).Model(&entities.Meeting{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entities.ErrMeetingNotFound
		}
		return entities.ErrInvalidTransition
	}
	return nil
}
