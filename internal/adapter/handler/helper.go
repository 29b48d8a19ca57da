package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/errors"
	"github.com/cirrusops/conversation-miner/internal/adapter/dto/common"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

// Response shapes
type success struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError maps an error to the AppError envelope, logs it, and writes
// the JSON response. Usecase sentinels are translated to their HTTP
// equivalents first so handlers never branch on error types themselves.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	appErr := toAppError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError translates usecase sentinel errors into the HTTP error
// envelope. Unrecognized errors become internal server errors.
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return notFoundWithCause("Meeting", err)
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptMissing):
		return notFoundWithCause("Transcript", err)
	case stdErrors.Is(err, usecaseErrors.ErrProfileNotFound):
		return notFoundWithCause("Mining profile", err)
	case stdErrors.Is(err, usecaseErrors.ErrStoryNotFound):
		return notFoundWithCause("Story", err)
	case stdErrors.Is(err, usecaseErrors.ErrContentNotFound):
		return notFoundWithCause("Generated content", err)
	case stdErrors.Is(err, usecaseErrors.ErrJobNotFound):
		return notFoundWithCause("Sync job", err)
	case stdErrors.Is(err, usecaseErrors.ErrSyncStateNotFound):
		return notFoundWithCause("Sync state", err)
	case stdErrors.Is(err, usecaseErrors.ErrContentTypeNotConfigured),
		stdErrors.Is(err, usecaseErrors.ErrTemplateRender),
		stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return invalidWithCause(err)
	case stdErrors.Is(err, usecaseErrors.ErrUnknownPlatform):
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusBadRequest,
			Code:     errors.ErrorCode_UNKNOWN_PLATFORM,
			Message:  "Unknown platform",
		}
	case stdErrors.Is(err, usecaseErrors.ErrSyncAlreadyRunning):
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusConflict,
			Code:     errors.ErrorCode_SYNC_ALREADY_RUNNING,
			Message:  "Sync already running for platform",
		}
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyExists):
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusConflict,
			Code:     errors.ErrorCode_ALREADY_EXISTS,
			Message:  "Resource already exists",
		}
	case stdErrors.Is(err, usecaseErrors.ErrRateLimited):
		return errors.ErrRateLimited("upstream service", err)
	case stdErrors.Is(err, usecaseErrors.ErrEmptyModelOutput):
		empty := errors.ErrEmptyModelOutput()
		empty.Raw = err
		return empty
	case stdErrors.Is(err, usecaseErrors.ErrUpstreamFailure),
		stdErrors.Is(err, usecaseErrors.ErrTokenAcquire):
		return errors.ErrUpstreamFailed("upstream service", err)
	}

	return errors.ErrInternal(err)
}

func notFoundWithCause(resource string, err error) errors.AppError {
	appErr := errors.ErrNotFound(resource)
	appErr.Raw = err
	return appErr
}

func invalidWithCause(err error) errors.AppError {
	return errors.AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     errors.ErrorCode_INVALID_ARGUMENT,
		Message:  err.Error(),
	}
}

// bindAndValidate decodes the request into v and runs struct validation.
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errors.ErrInvalidArgument("Malformed request body")
	}
	if err := c.Validate(v); err != nil {
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusBadRequest,
			Code:     errors.ErrorCode_INVALID_ARGUMENT,
			Message:  "Request validation failed",
		}
	}
	return nil
}

// pageBounds converts page/page_size into limit/offset with defaults.
func pageBounds(page, pageSize int) (limit, offset, normalizedPage int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize, page
}

// listPage wraps a result slice with pagination metadata.
func listPage(data interface{}, page, pageSize int, total int64) common.ListResponse {
	return common.ListResponse{
		Data:       data,
		Pagination: common.NewPagination(page, pageSize, total),
	}
}

// parsePositiveInt parses a query parameter into a positive int.
func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("value must be positive: %d", n)
	}
	return n, nil
}
