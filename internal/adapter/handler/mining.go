package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/errors"
	meetingdto "github.com/cirrusops/conversation-miner/internal/adapter/dto/meeting"
	dto "github.com/cirrusops/conversation-miner/internal/adapter/dto/mining"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	httpmw "github.com/cirrusops/conversation-miner/internal/infrastructure/http/middleware"
	"github.com/cirrusops/conversation-miner/internal/usecase/mining"
)

// Mining exposes the extraction and generation engines plus story
// browsing.
type Mining struct {
	service mining.Service
	logger  *zap.Logger
}

// NewMining creates the mining handler
func NewMining(service mining.Service, logger *zap.Logger) *Mining {
	return &Mining{
		service: service,
		logger:  logger,
	}
}

// Extract mines a meeting's transcript into stories.
// POST /v1/mining/meetings/:id/extract
func (h *Mining) Extract(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid meeting ID"))
	}

	var req dto.ExtractRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	stories, err := h.service.ExtractStories(c.Request().Context(), httpmw.GetOrgID(c), meetingID, req.Profile)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, dto.ExtractResponse{
		Extracted: len(stories),
		Stories:   stories,
	})
}

// Generate renders one content type from a story.
// POST /v1/mining/stories/:id/generate
func (h *Mining) Generate(c echo.Context) error {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid story ID"))
	}

	var req dto.GenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	var brief *mining.Brief
	if req.Brief != nil {
		brief = &mining.Brief{
			Objective:      req.Brief.Objective,
			KeyMessages:    req.Brief.KeyMessages,
			TargetPersonas: req.Brief.TargetPersonas,
			ToneGuidance:   req.Brief.ToneGuidance,
		}
	}

	content, err := h.service.GenerateContent(c.Request().Context(), httpmw.GetOrgID(c), storyID, req.ContentType, req.Profile, brief)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, content)
}

// BatchGenerate renders several content types from a story, continuing
// past per-type failures. The response pairs successes with the failure
// list so callers can tell full, partial and failed runs apart.
// POST /v1/mining/stories/:id/generate/batch
func (h *Mining) BatchGenerate(c echo.Context) error {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid story ID"))
	}

	var req dto.BatchGenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	content, failures, err := h.service.BatchGenerate(c.Request().Context(), httpmw.GetOrgID(c), storyID, req.ContentTypes, req.Profile)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := dto.BatchGenerateResponse{
		Requested: len(req.ContentTypes),
		Generated: len(content),
		Content:   content,
	}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, dto.BatchFailure{
			ContentType: f.ContentType,
			Error:       f.Error,
		})
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Regenerate re-runs generation for an existing content row, advancing
// its version lineage.
// POST /v1/mining/content/:id/regenerate
func (h *Mining) Regenerate(c echo.Context) error {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid content ID"))
	}

	var req dto.RegenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	content, err := h.service.Regenerate(c.Request().Context(), httpmw.GetOrgID(c), contentID, req.ContentType)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, content)
}

// UpdateContentStatus moves a content row through its editorial states.
// PATCH /v1/mining/content/:id/status
func (h *Mining) UpdateContentStatus(c echo.Context) error {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid content ID"))
	}

	var req dto.UpdateContentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.UpdateContentStatus(c.Request().Context(), contentID, entities.ContentStatus(req.Status)); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// ListStories browses extracted stories.
// GET /v1/stories
func (h *Mining) ListStories(c echo.Context) error {
	var req meetingdto.ListStoriesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	limit, offset, page := pageBounds(req.Page, req.PageSize)
	filter := repositories.StoryFilter{
		OrgID:         httpmw.GetOrgID(c),
		Theme:         req.Theme,
		Sentiment:     entities.Sentiment(req.Sentiment),
		MinConfidence: req.MinConfidence,
		Limit:         limit,
		Offset:        offset,
	}
	if req.MeetingID != "" {
		id, err := uuid.Parse(req.MeetingID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid meeting ID filter"))
		}
		filter.MeetingID = &id
	}

	stories, total, err := h.service.ListStories(c.Request().Context(), filter)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, listPage(stories, page, limit, total))
}

// GetStory retrieves one extracted story.
// GET /v1/stories/:id
func (h *Mining) GetStory(c echo.Context) error {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid story ID"))
	}

	story, err := h.service.GetStory(c.Request().Context(), storyID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, story)
}

// StoryContent retrieves a story's generated content, newest version
// first.
// GET /v1/stories/:id/content
func (h *Mining) StoryContent(c echo.Context) error {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid story ID"))
	}

	content, err := h.service.ContentForStory(c.Request().Context(), storyID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, content)
}
