package auth

import (
	"net/http"

	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
)

// Both failure kinds carry the same status and message so a caller cannot
// tell a missing header, an unknown email and a wrong password apart.
var (
	ErrAuthMissing = commonerrors.NewDomainError(
		"AUTH_MISSING",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Access Denied",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Access Denied",
	)
)
