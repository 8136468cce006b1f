package entities

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle status of a meeting
type MeetingStatus string

const (
	MeetingStatusPending   MeetingStatus = "pending"
	MeetingStatusActive    MeetingStatus = "active"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusFailed    MeetingStatus = "failed"
)

// DefaultBotName is used when the caller does not name the recording agent
const DefaultBotName = "MeetingBot"

// transitions is the exhaustive lifecycle table. Completed and failed are
// terminal; anything not listed here is rejected.
var transitions = map[MeetingStatus][]MeetingStatus{
	MeetingStatusPending: {MeetingStatusActive, MeetingStatusFailed},
	MeetingStatusActive:  {MeetingStatusCompleted, MeetingStatusFailed},
}

// CanTransition reports whether the edge from -> to exists in the lifecycle table
func CanTransition(from, to MeetingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// meetURLPattern matches Google Meet links like https://meet.google.com/abc-defg-hij
// (the original three-letter code variant abc-def-ghi is also accepted)
var meetURLPattern = regexp.MustCompile(`^https://meet\.google\.com/[a-z]{3}-[a-z]{3,4}-[a-z]{3}(\?.*)?$`)

// ValidMeetingURL reports whether the URL looks like a joinable Google Meet link
func ValidMeetingURL(url string) bool {
	return meetURLPattern.MatchString(url)
}

// NativeMeetingID extracts the meeting code from a Google Meet URL.
// Returns "" when the URL does not match the expected format.
func NativeMeetingID(url string) string {
	if !ValidMeetingURL(url) {
		return ""
	}
	code := strings.TrimPrefix(url, "https://meet.google.com/")
	if idx := strings.Index(code, "?"); idx != -1 {
		code = code[:idx]
	}
	return code
}

// Meeting is a single tracked recording session
type Meeting struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	NativeMeetingID string        `json:"native_meeting_id" gorm:"type:varchar(64);not null;index"`
	MeetingURL      string        `json:"meeting_url" gorm:"type:varchar(255);not null"`
	BotName         string        `json:"bot_name" gorm:"type:varchar(100);not null;default:'MeetingBot'"`
	Status          MeetingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty" gorm:"type:timestamp"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a pending meeting for the given Meet link
func NewMeeting(meetingURL, botName string) *Meeting {
	if botName == "" {
		botName = DefaultBotName
	}
	return &Meeting{
		ID:              uuid.New(),
		NativeMeetingID: NativeMeetingID(meetingURL),
		MeetingURL:      meetingURL,
		BotName:         botName,
		Status:          MeetingStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
}

// IsTerminal reports whether the meeting reached a terminal status
func (m *Meeting) IsTerminal() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusFailed
}
