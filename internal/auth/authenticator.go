package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	commoncrypto "github.com/coursedesk/course-api/internal/common/crypto"
	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/observability/metrics"
	"github.com/coursedesk/course-api/internal/user/domain"
	userrepo "github.com/coursedesk/course-api/internal/user/repository"
)

// CredentialStore is the slice of the user repository the authenticator
// needs: lookup by unique email.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// fallbackPasswordHash is compared against on the unknown-email path so a
// lookup miss costs the same bcrypt work as a real comparison.
const fallbackPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Authenticator struct {
	store  CredentialStore
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger
}

func NewAuthenticator(store CredentialStore, hasher commoncrypto.PasswordHasher, log *logger.Logger) *Authenticator {
	return &Authenticator{
		store:  store,
		hasher: hasher,
		log:    log,
	}
}

// Authenticate resolves a Basic credential header to the stored user.
// Absent or malformed headers yield ErrAuthMissing; unknown emails and
// wrong passwords both collapse to ErrInvalidCredentials so the failure
// never discloses which part of the credential was wrong. Read-only: the
// stored hash is never recomputed here.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (domain.User, error) {
	email, password, ok := parseBasicCredentials(header)
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("missing").Inc()
		return domain.User{}, ErrAuthMissing
	}

	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			_ = a.hasher.Compare(fallbackPasswordHash, password)
			a.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "auth_user_not_found",
			}).Warn("authentication failed: not found")
			metrics.AuthAttemptsTotal.WithLabelValues("invalid").Inc()
			return domain.User{}, ErrInvalidCredentials
		}
		a.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "auth_fetch_failed",
		}).Errorf("authentication failed: %v", err)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		a.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "auth_invalid_password",
		}).Warn("authentication failed: invalid password")
		metrics.AuthAttemptsTotal.WithLabelValues("invalid").Inc()
		return domain.User{}, ErrInvalidCredentials
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return user, nil
}

func parseBasicCredentials(header string) (email, password string, ok bool) {
	const prefix = "Basic "

	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}

	return email, password, true
}
