package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-tasks/internal/adapter/dto/task"
)

// MeetingResponse represents a meeting in responses
type MeetingResponse struct {
	ID              string     `json:"id"`
	NativeMeetingID string     `json:"native_meeting_id"`
	MeetingURL      string     `json:"meeting_url"`
	BotName         string     `json:"bot_name"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// StatusResponse represents the lifecycle status of a meeting's agent
type StatusResponse struct {
	MeetingID string `json:"meeting_id"`
	Status    string `json:"status"`
	BotStatus string `json:"bot_status,omitempty"`
}

// MeetingListResponse represents a list of meetings
type MeetingListResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
	Total    int                `json:"total"`
}

// TranscriptResponse represents a captured transcript
type TranscriptResponse struct {
	MeetingID         string    `json:"meeting_id"`
	ProcessedText     string    `json:"processed_text"`
	AdditionalContext *string   `json:"additional_context,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProcessTranscriptResponse represents the extraction result
type ProcessTranscriptResponse struct {
	MeetingID string               `json:"meeting_id"`
	Tasks     []*task.TaskResponse `json:"tasks"`
	Total     int                  `json:"total"`
}
