package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskPriority is the normalized priority of a task
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// NormalizePriority maps free-form model output to one of the allowed values.
// Anything unrecognized coerces to nil rather than failing the batch.
func NormalizePriority(raw *string) *TaskPriority {
	if raw == nil {
		return nil
	}
	switch TaskPriority(strings.ToLower(strings.TrimSpace(*raw))) {
	case TaskPriorityHigh:
		p := TaskPriorityHigh
		return &p
	case TaskPriorityMedium:
		p := TaskPriorityMedium
		return &p
	case TaskPriorityLow:
		p := TaskPriorityLow
		return &p
	}
	return nil
}

// Task is a structured action item derived from a transcript
type Task struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID       uuid.UUID     `json:"meeting_id" gorm:"type:uuid;not null;index"`
	AssigneeName    string        `json:"assignee_name" gorm:"type:varchar(255);not null"`
	TaskDescription string        `json:"task_description" gorm:"type:text;not null"`
	Deadline        *string       `json:"deadline,omitempty" gorm:"type:varchar(100)"`
	Priority        *TaskPriority `json:"priority,omitempty" gorm:"type:varchar(10)"`
	IsCompleted     bool          `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates an open task for the given meeting
func NewTask(meetingID uuid.UUID, assignee, description string) *Task {
	return &Task{
		ID:              uuid.New(),
		MeetingID:       meetingID,
		AssigneeName:    assignee,
		TaskDescription: description,
		IsCompleted:     false,
		CreatedAt:       time.Now().UTC(),
	}
}

// MarkComplete flips the task to completed. Completion is monotonic, so
// calling it on an already-completed task changes nothing.
func (t *Task) MarkComplete() {
	t.IsCompleted = true
}
