package task

// ModifyTasksRequest represents a natural-language instruction to rework
// a meeting's task list
type ModifyTasksRequest struct {
	ModificationRequest string `json:"modification_request" validate:"required,min=1,max=5000"`
}
