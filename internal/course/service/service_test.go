package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/common/validation"
	"github.com/coursedesk/course-api/internal/course/domain"
	"github.com/coursedesk/course-api/internal/course/repository"
	userdomain "github.com/coursedesk/course-api/internal/user/domain"
)

type fakeRepo struct {
	list     func(ctx context.Context) ([]domain.CourseWithOwner, error)
	findByID func(ctx context.Context, id int64) (domain.CourseWithOwner, error)
	create   func(ctx context.Context, course domain.Course) (int64, error)
	update   func(ctx context.Context, course domain.Course) error
	delete   func(ctx context.Context, id int64) error
}

func (r *fakeRepo) List(ctx context.Context) ([]domain.CourseWithOwner, error) {
	return r.list(ctx)
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (domain.CourseWithOwner, error) {
	return r.findByID(ctx, id)
}

func (r *fakeRepo) Create(ctx context.Context, course domain.Course) (int64, error) {
	return r.create(ctx, course)
}

func (r *fakeRepo) Update(ctx context.Context, course domain.Course) error {
	return r.update(ctx, course)
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

func storedCourse(id, ownerID int64) domain.CourseWithOwner {
	return domain.CourseWithOwner{
		Course: domain.Course{
			ID:          id,
			Title:       "Build a Basic Bookcase",
			Description: "High-end furniture without spending a fortune.",
			UserID:      ownerID,
		},
		Owner: userdomain.Summary{
			FirstName:    "Joe",
			LastName:     "Smith",
			EmailAddress: "joe@smith.com",
		},
	}
}

func validInput() CourseInput {
	return CourseInput{
		Title:       "Build a Basic Bookcase",
		Description: "High-end furniture without spending a fortune.",
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &fakeRepo{
		findByID: func(context.Context, int64) (domain.CourseWithOwner, error) {
			return domain.CourseWithOwner{}, repository.ErrCourseNotFound
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCreate_OwnershipFromIdentity(t *testing.T) {
	var created domain.Course
	repo := &fakeRepo{
		create: func(_ context.Context, course domain.Course) (int64, error) {
			created = course
			return 5, nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	identity := userdomain.User{ID: 21}
	id, err := svc.Create(context.Background(), identity, validInput())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if id != 5 {
		t.Errorf("expected id 5, got %d", id)
	}
	if created.UserID != identity.ID {
		t.Errorf("owner must be the authenticated identity, got %d", created.UserID)
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := &fakeRepo{
		create: func(context.Context, domain.Course) (int64, error) {
			t.Error("repository must not be reached on validation failure")
			return 0, nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	_, err := svc.Create(context.Background(), userdomain.User{ID: 1}, CourseInput{})
	vErr, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	want := []string{
		"A course title is required",
		"A course description is required",
	}
	if !reflect.DeepEqual(vErr.Messages, want) {
		t.Errorf("unexpected messages: %v", vErr.Messages)
	}
}

func TestUpdate_NotFoundBeforeOwnership(t *testing.T) {
	repo := &fakeRepo{
		findByID: func(context.Context, int64) (domain.CourseWithOwner, error) {
			return domain.CourseWithOwner{}, repository.ErrCourseNotFound
		},
		update: func(context.Context, domain.Course) error {
			t.Error("update must not run for a missing course")
			return nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	// A non-owner probing a missing id still gets a 404, not a 403.
	err := svc.Update(context.Background(), userdomain.User{ID: 99}, 7, validInput())
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestUpdate_DeniedForNonOwner(t *testing.T) {
	repo := &fakeRepo{
		findByID: func(_ context.Context, id int64) (domain.CourseWithOwner, error) {
			return storedCourse(id, 1), nil
		},
		update: func(context.Context, domain.Course) error {
			t.Error("a denied update must never reach the datastore")
			return nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	err := svc.Update(context.Background(), userdomain.User{ID: 2}, 7, validInput())
	if !errors.Is(err, ErrCourseAccessDenied) {
		t.Errorf("expected ErrCourseAccessDenied, got %v", err)
	}
}

func TestUpdate_OwnershipBeforeValidation(t *testing.T) {
	repo := &fakeRepo{
		findByID: func(_ context.Context, id int64) (domain.CourseWithOwner, error) {
			return storedCourse(id, 1), nil
		},
		update: func(context.Context, domain.Course) error { return nil },
	}

	svc := NewCourseService(repo, testLogger(t))

	// Non-owner with an invalid payload is denied, not told what to fix.
	err := svc.Update(context.Background(), userdomain.User{ID: 2}, 7, CourseInput{})
	if !errors.Is(err, ErrCourseAccessDenied) {
		t.Errorf("expected ErrCourseAccessDenied, got %v", err)
	}
}

func TestUpdate_OwnerSuccess(t *testing.T) {
	var updated domain.Course
	repo := &fakeRepo{
		findByID: func(_ context.Context, id int64) (domain.CourseWithOwner, error) {
			return storedCourse(id, 1), nil
		},
		update: func(_ context.Context, course domain.Course) error {
			updated = course
			return nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	input := validInput()
	input.EstimatedTime = "12 hours"

	if err := svc.Update(context.Background(), userdomain.User{ID: 1}, 7, input); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if updated.ID != 7 {
		t.Errorf("expected course id 7, got %d", updated.ID)
	}
	if updated.EstimatedTime != "12 hours" {
		t.Errorf("expected estimated time to carry through, got %q", updated.EstimatedTime)
	}
	if updated.UserID != 0 {
		t.Errorf("ownership must not be carried into the update payload, got %d", updated.UserID)
	}
}

func TestUpdate_OwnerInvalidPayload(t *testing.T) {
	repo := &fakeRepo{
		findByID: func(_ context.Context, id int64) (domain.CourseWithOwner, error) {
			return storedCourse(id, 1), nil
		},
		update: func(context.Context, domain.Course) error {
			t.Error("update must not run on validation failure")
			return nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	err := svc.Update(context.Background(), userdomain.User{ID: 1}, 7, CourseInput{Title: "only a title"})
	vErr, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	want := []string{"A course description is required"}
	if !reflect.DeepEqual(vErr.Messages, want) {
		t.Errorf("unexpected messages: %v", vErr.Messages)
	}
}

func TestDelete_DeniedForNonOwner(t *testing.T) {
	repo := &fakeRepo{
		findByID: func(_ context.Context, id int64) (domain.CourseWithOwner, error) {
			return storedCourse(id, 1), nil
		},
		delete: func(context.Context, int64) error {
			t.Error("a denied delete must never reach the datastore")
			return nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	err := svc.Delete(context.Background(), userdomain.User{ID: 2}, 7)
	if !errors.Is(err, ErrCourseAccessDenied) {
		t.Errorf("expected ErrCourseAccessDenied, got %v", err)
	}
}

func TestDelete_OwnerSuccess(t *testing.T) {
	var deletedID int64
	repo := &fakeRepo{
		findByID: func(_ context.Context, id int64) (domain.CourseWithOwner, error) {
			return storedCourse(id, 1), nil
		},
		delete: func(_ context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}

	svc := NewCourseService(repo, testLogger(t))

	if err := svc.Delete(context.Background(), userdomain.User{ID: 1}, 7); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if deletedID != 7 {
		t.Errorf("expected delete of course 7, got %d", deletedID)
	}
}
