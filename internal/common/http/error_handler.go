package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coursedesk/course-api/internal/common/constants"
	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
	"github.com/coursedesk/course-api/internal/common/httpmetrics"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/common/validation"
	"github.com/coursedesk/course-api/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError is the single exit point for failed requests: validation and
// uniqueness failures become a 400 message list, domain errors keep their
// declared status and message, and anything else falls through to an opaque
// 500 with the original error preserved in the log.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if vErr, ok := validation.AsError(err); ok {
		h.handleValidationError(w, r, vErr)
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}
	if traceID := getTraceIDFromContext(ctx); traceID != "" {
		logFields["trace_id"] = traceID
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "internal server error")
}

func (h *ErrorHandler) handleValidationError(w http.ResponseWriter, r *http.Request, err *validation.Error) {
	ctx := r.Context()

	logFields := logger.Fields{
		"errors": len(err.Messages),
		"action": "validation_failed",
	}
	if traceID := getTraceIDFromContext(ctx); traceID != "" {
		logFields["trace_id"] = traceID
	}

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("validation failed: %v", err.Messages)
	}

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusBadRequest),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteValidationErrors(w, err.Messages)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if traceID := getTraceIDFromContext(ctx); traceID != "" {
		logFields["trace_id"] = traceID
	}

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteError(w, status, err.Message())
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
