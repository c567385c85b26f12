package service

import (
	"context"
	"errors"

	commoncrypto "github.com/coursedesk/course-api/internal/common/crypto"
	commonerrors "github.com/coursedesk/course-api/internal/common/errors"
	"github.com/coursedesk/course-api/internal/common/logger"
	"github.com/coursedesk/course-api/internal/common/validation"
	"github.com/coursedesk/course-api/internal/observability/metrics"
	"github.com/coursedesk/course-api/internal/user/domain"
	"github.com/coursedesk/course-api/internal/user/repository"
)

type UserService struct {
	repo   repository.Repository
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger
}

func NewUserService(repo repository.Repository, hasher commoncrypto.PasswordHasher, log *logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
}

type SignUpInput struct {
	FirstName    string
	LastName     string
	EmailAddress string
	Password     string
}

func validateSignUp(input SignUpInput) error {
	return validation.Check(
		validation.Field{
			Name:  "firstName",
			Value: input.FirstName,
			Rules: []validation.Rule{validation.Required("A first name is required")},
		},
		validation.Field{
			Name:  "lastName",
			Value: input.LastName,
			Rules: []validation.Rule{validation.Required("A last name is required")},
		},
		validation.Field{
			Name:  "emailAddress",
			Value: input.EmailAddress,
			Rules: []validation.Rule{
				validation.Required("An email address is required"),
				validation.Email("Please provide a valid email address"),
			},
		},
		validation.Field{
			Name:  "password",
			Value: input.Password,
			Rules: []validation.Rule{validation.Required("A password is required")},
		},
	)
}

// SignUp validates the payload, hashes the password once and persists the
// user. Hashing is skipped entirely when validation fails, so an empty
// password is rejected before ever reaching the hasher.
func (s *UserService) SignUp(ctx context.Context, input SignUpInput) (int64, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.EmailAddress,
		"action": "signup_attempt",
	}).Info("signup attempt")

	if err := validateSignUp(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.EmailAddress,
			"action": "signup_validation_failed",
		}).Warnf("signup validation failed: %v", err)
		return 0, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.EmailAddress,
			"action": "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return 0, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		EmailAddress: input.EmailAddress,
		PasswordHash: hash,
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.EmailAddress,
				"action": "signup_email_exists",
			}).Warn("signup failed: email already exists")
			return 0, validation.NewError("The email you entered already exists")
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.EmailAddress,
			"action": "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return 0, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"email":   input.EmailAddress,
		"user_id": id,
		"action":  "signup_success",
	}).Info("signup success")

	return id, nil
}
