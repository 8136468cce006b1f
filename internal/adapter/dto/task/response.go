package task

import "time"

// TaskResponse represents a task in responses
type TaskResponse struct {
	ID              string    `json:"id"`
	MeetingID       string    `json:"meeting_id"`
	AssigneeName    string    `json:"assignee_name"`
	TaskDescription string    `json:"task_description"`
	Deadline        *string   `json:"deadline,omitempty"`
	Priority        *string   `json:"priority,omitempty"`
	IsCompleted     bool      `json:"is_completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// TaskListResponse represents a meeting's task list
type TaskListResponse struct {
	MeetingID string          `json:"meeting_id"`
	Tasks     []*TaskResponse `json:"tasks"`
	Total     int             `json:"total"`
}

// ExportResponse is the deterministic JSON export of a meeting's tasks.
// Field order and content depend only on the stored rows, so two exports
// of the same state are byte-identical.
type ExportResponse struct {
	MeetingID       string          `json:"meeting_id"`
	NativeMeetingID string          `json:"native_meeting_id"`
	MeetingURL      string          `json:"meeting_url"`
	BotName         string          `json:"bot_name"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	GeneratedBy     string          `json:"generated_by"`
	Tasks           []*ExportedTask `json:"tasks"`
	Summary         ExportSummary   `json:"summary"`
}

// ExportedTask is a task row in the export payload
type ExportedTask struct {
	ID              string  `json:"id"`
	AssigneeName    string  `json:"assignee_name"`
	TaskDescription string  `json:"task_description"`
	Deadline        *string `json:"deadline,omitempty"`
	Priority        *string `json:"priority,omitempty"`
	IsCompleted     bool    `json:"is_completed"`
}

// ExportSummary aggregates task counts for the export footer
type ExportSummary struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	Assignees      int     `json:"assignees"`
}
