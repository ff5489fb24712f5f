package gorm

import (
	"context"
	"errors"

	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Replace supersedes the user's plan inside a single transaction:
// the old plan and its items are deleted and the new plan inserted
// together, so there is no window where the user has no plan at all.
// The generated plan ID is written back into the domain object.
func (r *MealPlanRepository) Replace(ctx context.Context, plan *mealplan.Plan) error {
	model := PlanToModel(plan)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing MealPlanModel
		result := tx.Where("user_id = ?", plan.UserID).First(&existing)
		switch {
		case result.Error == nil:
			if err := tx.Where("meal_plan_id = ?", existing.ID).Delete(&MealPlanItemModel{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			// First plan for this user.
		default:
			return result.Error
		}

		// Creating the plan with its items in one call also flushes the
		// generated plan ID into the item foreign keys.
		return tx.Create(model).Error
	})
	if err != nil {
		return err
	}

	plan.ID = model.ID
	for i := range model.Items {
		plan.Items[i].ID = model.Items[i].ID
		plan.Items[i].PlanID = model.Items[i].MealPlanID
	}

	return nil
}

// FindByUser returns the user's plan with its items loaded
func (r *MealPlanRepository) FindByUser(ctx context.Context, userID string) (*mealplan.Plan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_plan_items.id ASC")
		}).
		Where("user_id = ?", userID).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrPlanNotFound
		}
		return nil, result.Error
	}

	return ModelToPlan(&model), nil
}

// Exists checks whether a plan ID still resolves
func (r *MealPlanRepository) Exists(ctx context.Context, planID uint) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&MealPlanModel{}).Where("id = ?", planID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
