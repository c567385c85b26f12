package auth

import (
	"testing"

	"github.com/coursedesk/course-api/internal/user/domain"
)

func TestCanModify(t *testing.T) {
	owner := domain.User{ID: 12}

	if !CanModify(owner, 12) {
		t.Error("owner must be allowed to modify their own resource")
	}
	if CanModify(owner, 13) {
		t.Error("non-owner must be denied")
	}
	if CanModify(domain.User{}, 0) != true {
		t.Error("zero identity matching zero owner is still an id match")
	}
}
