package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidMeetingURL = errors.New("invalid meeting url")

	// Transcript errors
	ErrTranscriptNotFound = errors.New("transcript not found")

	// Task errors
	ErrTaskNotFound = errors.New("task not found")
)
