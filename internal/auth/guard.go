package auth

import "github.com/coursedesk/course-api/internal/user/domain"

// CanModify reports whether identity owns the resource referenced by
// ownerID. Pure comparison: no roles, no admin override.
func CanModify(identity domain.User, ownerID int64) bool {
	return identity.ID == ownerID
}
