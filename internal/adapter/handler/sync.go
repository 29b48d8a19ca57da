package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/errors"
	dto "github.com/cirrusops/conversation-miner/internal/adapter/dto/sync"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/usecase/syncer"
)

// Sync exposes the sync pipeline: triggering runs, inspecting jobs and
// per-platform state. Runs execute asynchronously through the worker
// pool; triggering returns 202 with the queued job.
type Sync struct {
	service syncer.Service
	logger  *zap.Logger
}

// NewSync creates the sync handler
func NewSync(service syncer.Service, logger *zap.Logger) *Sync {
	return &Sync{
		service: service,
		logger:  logger,
	}
}

// TriggerBulk enqueues a full resync from the fixed epoch.
// POST /v1/sync/:platform/bulk
func (h *Sync) TriggerBulk(c echo.Context) error {
	return h.trigger(c, entities.PipelineJobKindBulkSync)
}

// TriggerIncremental enqueues a sync from the platform's last sync point.
// POST /v1/sync/:platform/incremental
func (h *Sync) TriggerIncremental(c echo.Context) error {
	return h.trigger(c, entities.PipelineJobKindIncrementalSync)
}

func (h *Sync) trigger(c echo.Context, kind entities.PipelineJobKind) error {
	p, ok := entities.ParsePlatform(c.Param("platform"))
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnknownPlatform(c.Param("platform")))
	}

	var req dto.TriggerSyncRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	payload := entities.PipelineJobPayload{
		From:        req.From,
		To:          req.To,
		TriggeredBy: "api",
	}

	job, err := h.service.Enqueue(c.Request().Context(), kind, p, payload)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, dto.FromJob(job))
}

// Status reports the sync state of every configured platform.
// GET /v1/sync/status
func (h *Sync) Status(c echo.Context) error {
	states, err := h.service.Status(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]dto.StateResponse, 0, len(states))
	for _, state := range states {
		resp = append(resp, dto.FromState(state))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// PlatformStatus reports the sync state of one platform.
// GET /v1/sync/:platform/status
func (h *Sync) PlatformStatus(c echo.Context) error {
	p, ok := entities.ParsePlatform(c.Param("platform"))
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnknownPlatform(c.Param("platform")))
	}

	state, err := h.service.StatusFor(c.Request().Context(), p)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, dto.FromState(state))
}

// GetJob retrieves one queued sync job.
// GET /v1/sync/jobs/:id
func (h *Sync) GetJob(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Invalid job ID"))
	}

	job, err := h.service.GetJob(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, dto.FromJob(job))
}

// ListJobs retrieves recently queued jobs, newest first.
// GET /v1/sync/jobs
func (h *Sync) ListJobs(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := parsePositiveInt(raw); err == nil {
			limit = n
		}
	}

	jobs, err := h.service.ListJobs(c.Request().Context(), limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]dto.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, dto.FromJob(job))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}
