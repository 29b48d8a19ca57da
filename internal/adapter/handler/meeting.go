package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/errors"
	dto "github.com/cirrusops/conversation-miner/internal/adapter/dto/meeting"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	"github.com/cirrusops/conversation-miner/internal/usecase/meeting"
)

// Meeting exposes the synced meeting browse surface.
type Meeting struct {
	service meeting.Service
	logger  *zap.Logger
}

// NewMeeting creates the meeting handler
func NewMeeting(service meeting.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		service: service,
		logger:  logger,
	}
}

// List browses synced meetings, newest first.
// GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	var req dto.ListMeetingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	limit, offset, page := pageBounds(req.Page, req.PageSize)
	filter := repositories.MeetingFilter{
		Platform: entities.Platform(req.Platform),
		Search:   req.Search,
		Limit:    limit,
		Offset:   offset,
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid from date"))
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid to date"))
		}
		filter.To = &to
	}

	meetings, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, listPage(meetings, page, limit, total))
}

// GetDetail retrieves a meeting with its participants, transcript and
// presigned media links.
// GET /v1/meetings/:id
func (h *Meeting) GetDetail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid meeting ID"))
	}

	detail, err := h.service.GetDetail(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, detail)
}
