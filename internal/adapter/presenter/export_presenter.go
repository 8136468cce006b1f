package presenter

import (
	"github.com/johnquangdev/meeting-tasks/internal/adapter/dto/task"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
	"github.com/johnquangdev/meeting-tasks/internal/usecase/export"
)

// ToExportResponse converts a meeting snapshot into the export payload.
// The output depends only on the stored rows, so two exports of the same
// state serialize identically.
func ToExportResponse(m *entities.Meeting, tasks []*entities.Task) *task.ExportResponse {
	exported := make([]*task.ExportedTask, len(tasks))
	for i, t := range tasks {
		row := &task.ExportedTask{
			ID:              t.ID.String(),
			AssigneeName:    t.AssigneeName,
			TaskDescription: t.TaskDescription,
			Deadline:        t.Deadline,
			IsCompleted:     t.IsCompleted,
		}
		if t.Priority != nil {
			p := string(*t.Priority)
			row.Priority = &p
		}
		exported[i] = row
	}

	sum := export.Summarize(tasks)

	return &task.ExportResponse{
		MeetingID:       m.ID.String(),
		NativeMeetingID: m.NativeMeetingID,
		MeetingURL:      m.MeetingURL,
		BotName:         m.BotName,
		Status:          string(m.Status),
		CreatedAt:       m.CreatedAt,
		CompletedAt:     m.CompletedAt,
		GeneratedBy:     export.GeneratedBy,
		Tasks:           exported,
		Summary: task.ExportSummary{
			TotalTasks:     sum.TotalTasks,
			CompletedTasks: sum.CompletedTasks,
			PendingTasks:   sum.PendingTasks,
			CompletionRate: sum.CompletionRate,
			Assignees:      sum.Assignees,
		},
	}
}
