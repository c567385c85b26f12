package service

import (
	"net/http"

	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
)

var (
	ErrCourseNotFound = commonerrors.NewDomainError(
		"COURSE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Course not found, or does not exist.",
	)

	ErrCourseAccessDenied = commonerrors.NewDomainError(
		"COURSE_ACCESS_DENIED",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"You do not have access to this course",
	)
)
