package domain

import userdomain "github.com/coursedesk/course-api/internal/user/domain"

// Course is an owned resource: UserID references the owning user and is
// fixed at creation.
type Course struct {
	ID              int64
	Title           string
	Description     string
	EstimatedTime   string
	MaterialsNeeded string
	UserID          int64
}

// CourseWithOwner pairs a course with the owner projection returned by
// the read endpoints.
type CourseWithOwner struct {
	Course Course
	Owner  userdomain.Summary
}
