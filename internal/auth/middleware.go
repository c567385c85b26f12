package auth

import (
	"context"
	"errors"
	"net/http"

	commonhttp "github.com/coursedesk/course-api/internal/common/http"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/user/domain"
)

type contextKey string

const identityKey contextKey = "authenticated_user"

// RequireUser gates protected routes: it authenticates the request and
// attaches the resolved user to the context. Credential failures all
// short-circuit with the same 401 body regardless of cause; anything else
// (a credential-store outage, say) keeps its own status through the error
// handler.
func RequireUser(authenticator *Authenticator, log *logger.Logger) func(next http.Handler) http.Handler {
	errs := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, ErrAuthMissing) || errors.Is(err, ErrInvalidCredentials) {
					log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
					commonhttp.WriteError(w, http.StatusUnauthorized, "Access Denied")
					return
				}
				errs.HandleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(identityKey).(domain.User)
	return user, ok
}

// ContextWithUser attaches an identity directly, bypassing the middleware.
func ContextWithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}
