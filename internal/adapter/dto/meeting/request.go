package meeting

// StartMeetingRequest represents the request to dispatch a recording agent
type StartMeetingRequest struct {
	MeetingURL string `json:"meeting_url" validate:"required,url"`
	BotName    string `json:"bot_name,omitempty" validate:"omitempty,min=1,max=100"`
}

// ProcessTranscriptRequest represents the request to run task extraction
// over a completed meeting's transcript
type ProcessTranscriptRequest struct {
	AdditionalContext *string `json:"additional_context,omitempty" validate:"omitempty,max=5000"`
}
