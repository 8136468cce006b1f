package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	taskDto "github.com/johnquangdev/meeting-tasks/internal/adapter/dto/task"
	"github.com/johnquangdev/meeting-tasks/internal/adapter/presenter"
	modificationUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/modification"
	tasksUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/tasks"
)

// Task handles task HTTP requests
type Task struct {
	taskService         *tasksUsecase.Service
	modificationService *modificationUsecase.Service
	logger              *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *tasksUsecase.Service, modificationService *modificationUsecase.Service, logger *zap.Logger) *Task {
	return &Task{
		taskService:         taskService,
		modificationService: modificationService,
		logger:              logger,
	}
}

// List handles GET /tasks/:meetingId
func (h *Task) List(c echo.Context) error {
	meetingID, err := parseIDParam(c, "meetingId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	tasks, err := h.taskService.ListByMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTaskListResponse(meetingID.String(), tasks))
}

// Modify handles POST /tasks/:meetingId/modify. Applies a natural-language
// instruction to the meeting's task set.
func (h *Task) Modify(c echo.Context) error {
	meetingID, err := parseIDParam(c, "meetingId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req taskDto.ModifyTasksRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidInput("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidInput(err.Error()))
	}

	tasks, err := h.modificationService.Modify(c.Request().Context(), meetingID, req.ModificationRequest)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTaskListResponse(meetingID.String(), tasks))
}

// Complete handles PATCH /tasks/:id/complete
func (h *Task) Complete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	task, err := h.taskService.MarkComplete(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTaskResponse(task))
}
