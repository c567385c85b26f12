package service

import (
	"context"
	"errors"

	"github.com/coursedesk/course-api/internal/auth"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/common/validation"
	"github.com/coursedesk/course-api/internal/course/domain"
	"github.com/coursedesk/course-api/internal/course/repository"
	"github.com/coursedesk/course-api/internal/observability/metrics"
	userdomain "github.com/coursedesk/course-api/internal/user/domain"
)

type CourseService struct {
	repo repository.Repository
	log  *logger.Logger
}

func NewCourseService(repo repository.Repository, log *logger.Logger) *CourseService {
	return &CourseService{
		repo: repo,
		log:  log,
	}
}

type CourseInput struct {
	Title           string
	Description     string
	EstimatedTime   string
	MaterialsNeeded string
}

func validateCourse(input CourseInput) error {
	return validation.Check(
		validation.Field{
			Name:  "title",
			Value: input.Title,
			Rules: []validation.Rule{validation.Required("A course title is required")},
		},
		validation.Field{
			Name:  "description",
			Value: input.Description,
			Rules: []validation.Rule{validation.Required("A course description is required")},
		},
	)
}

func (s *CourseService) List(ctx context.Context) ([]domain.CourseWithOwner, error) {
	return s.repo.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id int64) (domain.CourseWithOwner, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return domain.CourseWithOwner{}, ErrCourseNotFound
		}
		return domain.CourseWithOwner{}, err
	}
	return course, nil
}

// Create persists a new course owned by identity. A userId supplied in the
// request body is ignored: ownership always comes from the authenticated
// identity.
func (s *CourseService) Create(ctx context.Context, identity userdomain.User, input CourseInput) (int64, error) {
	s.log.WithFields(ctx, logger.Fields{
		"user_id": identity.ID,
		"action":  "course_create_attempt",
	}).Info("course create attempt")

	if err := validateCourse(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": identity.ID,
			"action":  "course_create_validation_failed",
		}).Warnf("course create validation failed: %v", err)
		return 0, err
	}

	id, err := s.repo.Create(ctx, domain.Course{
		Title:           input.Title,
		Description:     input.Description,
		EstimatedTime:   input.EstimatedTime,
		MaterialsNeeded: input.MaterialsNeeded,
		UserID:          identity.ID,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": identity.ID,
			"action":  "course_create_failed",
		}).Errorf("course create failed: %v", err)
		return 0, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   identity.ID,
		"course_id": id,
		"action":    "course_create_success",
	}).Info("course create success")

	return id, nil
}

// Update mutates a course after the existence check and the ownership
// guard both pass, in that order: an unresolved id is a 404 before
// ownership is even evaluated, and a denial never reaches the datastore.
func (s *CourseService) Update(ctx context.Context, identity userdomain.User, id int64, input CourseInput) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanModify(identity, existing.Course.UserID) {
		s.denied(ctx, identity, id, "course_update_denied")
		return ErrCourseAccessDenied
	}

	if err := validateCourse(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   identity.ID,
			"course_id": id,
			"action":    "course_update_validation_failed",
		}).Warnf("course update validation failed: %v", err)
		return err
	}

	err = s.repo.Update(ctx, domain.Course{
		ID:              id,
		Title:           input.Title,
		Description:     input.Description,
		EstimatedTime:   input.EstimatedTime,
		MaterialsNeeded: input.MaterialsNeeded,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   identity.ID,
			"course_id": id,
			"action":    "course_update_failed",
		}).Errorf("course update failed: %v", err)
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   identity.ID,
		"course_id": id,
		"action":    "course_update_success",
	}).Info("course update success")

	return nil
}

func (s *CourseService) Delete(ctx context.Context, identity userdomain.User, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanModify(identity, existing.Course.UserID) {
		s.denied(ctx, identity, id, "course_delete_denied")
		return ErrCourseAccessDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   identity.ID,
			"course_id": id,
			"action":    "course_delete_failed",
		}).Errorf("course delete failed: %v", err)
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   identity.ID,
		"course_id": id,
		"action":    "course_delete_success",
	}).Info("course delete success")

	return nil
}

func (s *CourseService) denied(ctx context.Context, identity userdomain.User, courseID int64, action string) {
	metrics.OwnershipDenialsTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":   identity.ID,
		"course_id": courseID,
		"action":    action,
	}).Warn("course mutation denied: not the owner")
}
