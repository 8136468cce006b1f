package presenter

import (
	"github.com/johnquangdev/meeting-tasks/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	return &meeting.MeetingResponse{
		ID:              m.ID.String(),
		NativeMeetingID: m.NativeMeetingID,
		MeetingURL:      m.MeetingURL,
		BotName:         m.BotName,
		Status:          string(m.Status),
		CreatedAt:       m.CreatedAt,
		CompletedAt:     m.CompletedAt,
	}
}

// ToMeetingListResponse converts a slice of Meeting entities to MeetingListResponse
func ToMeetingListResponse(meetings []*entities.Meeting) *meeting.MeetingListResponse {
	responses := make([]*meeting.MeetingResponse, len(meetings))
	for i, m := range meetings {
		responses[i] = ToMeetingResponse(m)
	}

	return &meeting.MeetingListResponse{
		Meetings: responses,
		Total:    len(responses),
	}
}

// ToTranscriptResponse converts a Transcript entity to TranscriptResponse DTO
func ToTranscriptResponse(t *entities.Transcript) *meeting.TranscriptResponse {
	if t == nil {
		return nil
	}

	return &meeting.TranscriptResponse{
		MeetingID:         t.MeetingID.String(),
		ProcessedText:     t.ProcessedText,
		AdditionalContext: t.AdditionalContext,
		CreatedAt:         t.CreatedAt,
	}
}
