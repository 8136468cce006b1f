package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	meetingDto "github.com/johnquangdev/meeting-tasks/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-tasks/internal/adapter/presenter"
	botUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/bot"
)

// Meeting handles meeting lifecycle HTTP requests
type Meeting struct {
	botService *botUsecase.Service
	logger     *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(botService *botUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		botService: botService,
		logger:     logger,
	}
}

// Start handles POST /meetings/start. The response carries the pending
// meeting; the agent join settles asynchronously.
func (h *Meeting) Start(c echo.Context) error {
	var req meetingDto.StartMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidInput("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidInput(err.Error()))
	}

	meeting, err := h.botService.StartMeeting(c.Request().Context(), req.MeetingURL, req.BotName)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

// Complete handles POST /meetings/:id/complete
func (h *Meeting) Complete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.botService.CompleteMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

// List handles GET /meetings
func (h *Meeting) List(c echo.Context) error {
	meetings, err := h.botService.ListMeetings(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings))
}

// Get handles GET /meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.botService.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

// Status handles GET /meetings/:id/status
func (h *Meeting) Status(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, botStatus, err := h.botService.GetStatus(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &meetingDto.StatusResponse{
		MeetingID: meeting.ID.String(),
		Status:    string(meeting.Status),
		BotStatus: botStatus,
	})
}
