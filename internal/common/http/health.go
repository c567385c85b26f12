package http

import (
	"net/http"

	"github.com/coursedesk/course-api/internal/common/logger"
)

func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return RequireMethod(http.MethodGet)(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
