package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		in   string
		want *TaskPriority
	}{
		{"high", ptr(TaskPriorityHigh)},
		{"  HIGH  ", ptr(TaskPriorityHigh)},
		{"Medium", ptr(TaskPriorityMedium)},
		{"low", ptr(TaskPriorityLow)},
		{"urgent", nil},
		{"", nil},
	}

	for _, tc := range cases {
		got := NormalizePriority(&tc.in)
		if tc.want == nil {
			if got != nil {
				t.Errorf("NormalizePriority(%q) = %v, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != *tc.want {
			t.Errorf("NormalizePriority(%q) = %v, want %v", tc.in, got, *tc.want)
		}
	}

	if NormalizePriority(nil) != nil {
		t.Error("NormalizePriority(nil) must be nil")
	}
}

func ptr(p TaskPriority) *TaskPriority {
	return &p
}

func TestNewTaskAndMarkComplete(t *testing.T) {
	meetingID := uuid.New()
	task := NewTask(meetingID, "Alice", "Write the report")

	if task.MeetingID != meetingID {
		t.Error("meeting id not carried over")
	}
	if task.IsCompleted {
		t.Error("new task must start open")
	}

	task.MarkComplete()
	if !task.IsCompleted {
		t.Error("expected task to be completed")
	}

	task.MarkComplete()
	if !task.IsCompleted {
		t.Error("completion must be monotonic")
	}
}
