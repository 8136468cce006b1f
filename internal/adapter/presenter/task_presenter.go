package presenter

import (
	"github.com/johnquangdev/meeting-tasks/internal/adapter/dto/task"
	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
)

// ToTaskResponse converts a Task entity to TaskResponse DTO
func ToTaskResponse(t *entities.Task) *task.TaskResponse {
	if t == nil {
		return nil
	}

	response := &task.TaskResponse{
		ID:              t.ID.String(),
		MeetingID:       t.MeetingID.String(),
		AssigneeName:    t.AssigneeName,
		TaskDescription: t.TaskDescription,
		Deadline:        t.Deadline,
		IsCompleted:     t.IsCompleted,
		CreatedAt:       t.CreatedAt,
	}

	if t.Priority != nil {
		p := string(*t.Priority)
		response.Priority = &p
	}

	return response
}

// ToTaskListResponse converts a slice of Task entities to TaskListResponse
func ToTaskListResponse(meetingID string, tasks []*entities.Task) *task.TaskListResponse {
	responses := make([]*task.TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = ToTaskResponse(t)
	}

	return &task.TaskListResponse{
		MeetingID: meetingID,
		Tasks:     responses,
		Total:     len(responses),
	}
}
