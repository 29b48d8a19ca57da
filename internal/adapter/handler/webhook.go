package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/errors"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/usecase/syncer"
)

const (
	zoomSignatureHeader = "x-zm-signature"
	zoomTimestampHeader = "x-zm-request-timestamp"

	zoomEventURLValidation     = "endpoint.url_validation"
	zoomEventRecordingComplete = "recording.completed"
)

// ZoomWebhook receives Zoom event notifications. A completed recording
// enqueues an incremental sync so the new meeting lands without waiting
// for the schedule.
type ZoomWebhook struct {
	service syncer.Service
	secret  string
	logger  *zap.Logger
}

// NewZoomWebhook creates the Zoom webhook handler
func NewZoomWebhook(service syncer.Service, secret string, logger *zap.Logger) *ZoomWebhook {
	return &ZoomWebhook{
		service: service,
		secret:  secret,
		logger:  logger,
	}
}

type zoomEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PlainToken string `json:"plainToken"`
		Object     struct {
			ID    json.Number `json:"id"`
			UUID  string      `json:"uuid"`
			Topic string      `json:"topic"`
		} `json:"object"`
	} `json:"payload"`
}

// Handle verifies the event signature and dispatches by event type.
// POST /v1/webhooks/zoom
func (h *ZoomWebhook) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if !h.verifySignature(c.Request(), body) {
		if h.logger != nil {
			h.logger.Warn("⚠️ Zoom webhook signature rejected",
				zap.String("request_id", getRequestID(c)),
			)
		}
		return HandleError(h.logger, c, errors.ErrInvalidSignature())
	}

	var event zoomEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	switch event.Event {
	case zoomEventURLValidation:
		return h.validateURL(c, &event)
	case zoomEventRecordingComplete:
		return h.recordingCompleted(c, &event)
	default:
		// Unknown events are acknowledged so Zoom does not retry them.
		if h.logger != nil {
			h.logger.Info("📭 Zoom webhook event ignored",
				zap.String("event", event.Event),
			)
		}
		return c.NoContent(http.StatusOK)
	}
}

// validateURL answers Zoom's endpoint challenge: echo the plain token with
// its HMAC.
func (h *ZoomWebhook) validateURL(c echo.Context, event *zoomEvent) error {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write([]byte(event.Payload.PlainToken))

	return c.JSON(http.StatusOK, map[string]string{
		"plainToken":     event.Payload.PlainToken,
		"encryptedToken": hex.EncodeToString(mac.Sum(nil)),
	})
}

// recordingCompleted enqueues an incremental sync; the sync engine picks
// up the finished recording on its next pass through the listing.
func (h *ZoomWebhook) recordingCompleted(c echo.Context, event *zoomEvent) error {
	payload := entities.PipelineJobPayload{
		TriggeredBy: "webhook",
		MeetingRef:  event.Payload.Object.ID.String(),
	}

	job, err := h.service.Enqueue(c.Request().Context(), entities.PipelineJobKindIncrementalSync, entities.PlatformZoom, payload)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("🪝 Recording completed, sync enqueued",
			zap.String("job_id", job.ID.String()),
			zap.String("meeting_ref", payload.MeetingRef),
			zap.String("topic", event.Payload.Object.Topic),
		)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}

// verifySignature checks the x-zm-signature header:
// v0=HMAC_SHA256(secret, "v0:{timestamp}:{body}") hex-encoded.
func (h *ZoomWebhook) verifySignature(r *http.Request, body []byte) bool {
	if h.secret == "" {
		return false
	}

	signature := r.Header.Get(zoomSignatureHeader)
	timestamp := r.Header.Get(zoomTimestampHeader)
	if signature == "" || timestamp == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
