package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transcript is the stored transcript captured from the recording agent
type Transcript struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID         uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	Raw               datatypes.JSON `json:"-" gorm:"type:jsonb"`
	ProcessedText     string         `json:"processed_text" gorm:"type:text"`
	AdditionalContext *string        `json:"additional_context,omitempty" gorm:"type:text"`
	CreatedAt         time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a transcript record from the agent's raw payload
func NewTranscript(meetingID uuid.UUID, raw []byte) *Transcript {
	t := &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Raw:       datatypes.JSON(raw),
		CreatedAt: time.Now().UTC(),
	}
	t.ProcessedText = FlattenTranscript(raw)
	return t
}

// HasContent reports whether the transcript carries any readable speech
func (t *Transcript) HasContent() bool {
	return strings.TrimSpace(t.ProcessedText) != ""
}

// segment is a single speaker turn in the agent payload
type segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// FlattenTranscript reduces the agent's raw JSON to "Speaker: text" lines.
// The agent has shipped several shapes over time: {"data":{"segments":[...]}},
// {"segments":[...]}, {"transcript":[...]} and a plain {"text":"..."}.
func FlattenTranscript(raw []byte) string {
	var envelope struct {
		Data struct {
			Segments []segment `json:"segments"`
		} `json:"data"`
		Segments   []segment       `json:"segments"`
		Transcript json.RawMessage `json:"transcript"`
		Text       string          `json:"text"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}

	segments := envelope.Data.Segments
	if len(segments) == 0 {
		segments = envelope.Segments
	}
	if len(segments) == 0 && len(envelope.Transcript) > 0 {
		var list []segment
		if err := json.Unmarshal(envelope.Transcript, &list); err == nil {
			segments = list
		}
	}

	var lines []string
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		lines = append(lines, speaker+": "+text)
	}

	if len(lines) == 0 && strings.TrimSpace(envelope.Text) != "" {
		lines = append(lines, strings.TrimSpace(envelope.Text))
	}

	return strings.Join(lines, "\n")
}
