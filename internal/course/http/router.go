package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coursedesk/course-api/internal/auth"
	commonhttp "github.com/coursedesk/course-api/internal/common/http"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/course/domain"
	"github.com/coursedesk/course-api/internal/course/service"
	userdomain "github.com/coursedesk/course-api/internal/user/domain"
)

type courseRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedTime   string `json:"estimatedTime"`
	MaterialsNeeded string `json:"materialsNeeded"`
}

type courseResponse struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	EstimatedTime   string             `json:"estimatedTime,omitempty"`
	MaterialsNeeded string             `json:"materialsNeeded,omitempty"`
	UserID          int64              `json:"userId"`
	Administrator   userdomain.Summary `json:"administrator"`
}

func toCourseResponse(course domain.CourseWithOwner) courseResponse {
	return courseResponse{
		ID:              course.Course.ID,
		Title:           course.Course.Title,
		Description:     course.Course.Description,
		EstimatedTime:   course.Course.EstimatedTime,
		MaterialsNeeded: course.Course.MaterialsNeeded,
		UserID:          course.Course.UserID,
		Administrator:   course.Owner,
	}
}

type Handler struct {
	courses     *service.CourseService
	errs        *commonhttp.ErrorHandler
	log         *logger.Logger
	requireUser func(next http.Handler) http.Handler
}

func NewHandler(courses *service.CourseService, authenticator *auth.Authenticator, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		courses:     courses,
		errs:        commonhttp.NewErrorHandler(log),
		log:         log,
		requireUser: auth.RequireUser(authenticator, log),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/courses", commonhttp.WithTimeout(timeout)(h.coursesRoute))
	mux.HandleFunc("/courses/", commonhttp.WithTimeout(timeout)(h.courseByIDRoute))
	return mux
}

func (h *Handler) coursesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.protected(h.create).ServeHTTP(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// courseByIDRoute authenticates mutating methods before the id is even
// parsed, so an unauthenticated caller sees 401 regardless of whether the
// target exists.
func (h *Handler) courseByIDRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.withCourseID(h.get)(w, r)
	case http.MethodPut:
		h.protected(h.withCourseID(h.update)).ServeHTTP(w, r)
	case http.MethodDelete:
		h.protected(h.withCourseID(h.delete)).ServeHTTP(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) withCourseID(next func(w http.ResponseWriter, r *http.Request, id int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseCourseID(r.URL.Path)
		if !ok {
			h.errs.HandleError(w, r, service.ErrCourseNotFound)
			return
		}
		next(w, r, id)
	}
}

func (h *Handler) protected(next http.HandlerFunc) http.Handler {
	return h.requireUser(next)
}

// list is public: no authentication, owner projections only.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	response := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		response = append(response, toCourseResponse(course))
	}

	commonhttp.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id int64) {
	course, err := h.courses.Get(r.Context(), id)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toCourseResponse(course))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Access Denied")
		return
	}

	var req courseRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("course create failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	id, err := h.courses.Create(r.Context(), identity, service.CourseInput{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedTime:   req.EstimatedTime,
		MaterialsNeeded: req.MaterialsNeeded,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/courses/%d", id))
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Access Denied")
		return
	}

	var req courseRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("course update failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	err := h.courses.Update(r.Context(), identity, id, service.CourseInput{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedTime:   req.EstimatedTime,
		MaterialsNeeded: req.MaterialsNeeded,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Access Denied")
		return
	}

	if err := h.courses.Delete(r.Context(), identity, id); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseCourseID treats anything that is not a bare numeric id as an
// unresolved course, which surfaces as 404 before any auth work.
func parseCourseID(path string) (int64, bool) {
	raw := strings.TrimPrefix(path, "/courses/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}
