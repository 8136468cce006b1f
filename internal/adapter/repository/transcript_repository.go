package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/domain/repositories"
)

// transcriptRepository implements the TranscriptRepository interface
type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) repositories.TranscriptRepository {
	return &transcriptRepository{db: db}
}

// Upsert stores the transcript for a meeting, replacing any previous capture.
// A meeting has at most one transcript row; recapturing overwrites it.
func (r *transcriptRepository) Upsert(ctx context.Context, transcript *entities.Transcript) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"raw", "processed_text", "additional_context", "created_at",
			}),
		}).
		Create(transcript).Error
}

// FindByMeetingID retrieves the transcript for a meeting
func (r *transcriptRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		First(&transcript).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, err
	}
	return &transcript, nil
}

// UpdateContext stores the extra context supplied alongside an extraction run
func (r *transcriptRepository) UpdateContext(ctx context.Context, meetingID uuid.UUID, additionalContext *string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Transcript{}).
		Where("meeting_id = ?", meetingID).
		Update("additional_context", additionalContext).Error
}
