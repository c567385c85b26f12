package http

import (
	"net/http"
	"time"

	"github.com/coursedesk/course-api/internal/auth"
	commonhttp "github.com/coursedesk/course-api/internal/common/http"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/user/service"
)

type signUpRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type Handler struct {
	users  *service.UserService
	errs   *commonhttp.ErrorHandler
	log    *logger.Logger
	getter http.Handler
}

func NewHandler(users *service.UserService, authenticator *auth.Authenticator, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		users: users,
		errs:  commonhttp.NewErrorHandler(log),
		log:   log,
	}

	requireUser := auth.RequireUser(authenticator, log)
	h.getter = requireUser(http.HandlerFunc(h.currentUser))

	mux := http.NewServeMux()
	mux.HandleFunc("/users", commonhttp.WithTimeout(timeout)(h.usersRoute))
	return mux
}

func (h *Handler) usersRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getter.ServeHTTP(w, r)
	case http.MethodPost:
		h.signUp(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// currentUser returns the authenticated identity without the password
// hash; the middleware has already attached it to the context.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Access Denied")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, identity.Public())
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	_, err := h.users.SignUp(r.Context(), service.SignUpInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		Password:     req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
}
