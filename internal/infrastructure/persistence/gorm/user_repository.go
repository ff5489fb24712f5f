package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/nutricoach/v1/internal/domain/user"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user profile
func (r *UserRepository) Create(ctx context.Context, profile *user.Profile) error {
	model := UserToModel(profile)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint failed") ||
			strings.Contains(result.Error.Error(), "duplicate key") {
			return user.ErrUserAlreadyExists
		}
		return result.Error
	}

	return nil
}

// Update updates an existing user profile. Unlike Save this never
// inserts: an unknown identity key reports ErrUserNotFound. Selecting
// all columns keeps cleared fields from being skipped as zero values.
func (r *UserRepository) Update(ctx context.Context, profile *user.Profile) error {
	model := UserToModel(profile)

	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// FindByID finds a user profile by identity key
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.Profile, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, result.Error
	}

	return ModelToUser(&model), nil
}

// Exists checks if a user exists by identity key
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
