package http

import (
	"net/http"

	"github.com/coursedesk/course-api/internal/common/constants"
	"github.com/coursedesk/course-api/internal/common/httpmetrics"
	"github.com/coursedesk/course-api/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler)))))
}
