// Package user implements profile registration and maintenance
package user

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/nutricoach/v1/internal/domain/user"
	"github.com/nutricoach/v1/internal/ports/inbound"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// Service manages user profiles
type Service struct {
	users  outbound.UserRepository
	logger *zap.Logger
}

// NewService creates the user service
func NewService(users outbound.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger.Named("user-service"),
	}
}

// Register creates an empty profile for an externally issued identity.
// Registering an already known identity returns the existing profile,
// keeping the operation idempotent for the identity provider callback.
func (s *Service) Register(ctx context.Context, userID string) (*user.Profile, error) {
	profile, err := user.NewProfile(userID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := s.users.Create(ctx, profile); err != nil {
		if stderrors.Is(err, user.ErrUserAlreadyExists) {
			return s.GetProfile(ctx, userID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Registered user", zap.String("user_id", profile.ID))
	return profile, nil
}

// GetProfile loads a profile by id
func (s *Service) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	profile, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return profile, nil
}

// UpdateProfile replaces the biometric and lifestyle attributes and
// recomputes the derived BMI.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update inbound.ProfileUpdate) (*user.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = profile.UpdateProfileData(
		update.Weight, update.Height, update.Age,
		update.Sex, update.FitnessGoal, update.DietaryPreferences, update.ActivityLevel,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := s.users.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("Updated profile", zap.String("user_id", userID))
	return profile, nil
}

// UpdateMedicalConditions replaces the free-text medical conditions
func (s *Service) UpdateMedicalConditions(ctx context.Context, userID, conditions string) (*user.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.UpdateMedicalConditions(conditions)

	if err := s.users.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return profile, nil
}
