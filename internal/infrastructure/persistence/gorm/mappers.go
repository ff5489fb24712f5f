package gorm

import (
	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/domain/user"
)

// UserToModel converts a domain profile to its GORM model
func UserToModel(p *user.Profile) *UserModel {
	return &UserModel{
		ID:                 p.ID,
		Height:             p.Height,
		Weight:             p.Weight,
		Age:                p.Age,
		Sex:                p.Sex,
		FitnessGoal:        p.FitnessGoal,
		DietaryPreferences: p.DietaryPreferences,
		ActivityLevel:      p.ActivityLevel,
		MedicalConditions:  p.MedicalConditions,
		BMI:                p.BMI,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ModelToUser converts a GORM model to a domain profile
func ModelToUser(m *UserModel) *user.Profile {
	return &user.Profile{
		ID:                 m.ID,
		Height:             m.Height,
		Weight:             m.Weight,
		Age:                m.Age,
		Sex:                m.Sex,
		FitnessGoal:        m.FitnessGoal,
		DietaryPreferences: m.DietaryPreferences,
		ActivityLevel:      m.ActivityLevel,
		MedicalConditions:  m.MedicalConditions,
		BMI:                m.BMI,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ReportToModel converts a domain report to its GORM model
func ReportToModel(r *health.Report) *HealthReportModel {
	return &HealthReportModel{
		ID:         r.ID,
		UserID:     r.UserID,
		ReportText: r.ReportText,
		FileName:   r.FileName,
		CreatedAt:  r.CreatedAt,
	}
}

// ModelToReport converts a GORM model to a domain report
func ModelToReport(m *HealthReportModel) *health.Report {
	return &health.Report{
		ID:         m.ID,
		UserID:     m.UserID,
		ReportText: m.ReportText,
		FileName:   m.FileName,
		CreatedAt:  m.CreatedAt,
	}
}

// PlanToModel converts a domain plan with its items to GORM models
func PlanToModel(p *mealplan.Plan) *MealPlanModel {
	model := &MealPlanModel{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		DateCreated: p.DateCreated,
		Items:       make([]MealPlanItemModel, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		model.Items = append(model.Items, MealPlanItemModel{
			ID:         item.ID,
			MealPlanID: item.PlanID,
			MealSlot:   item.MealSlot,
			Breakfast:  item.Breakfast,
			Lunch:      item.Lunch,
			Dinner:     item.Dinner,
			Snack:      item.Snack,
			Macros:     item.Macros,
		})
	}
	return model
}

// ModelToPlan converts a GORM model with loaded items to a domain plan
func ModelToPlan(m *MealPlanModel) *mealplan.Plan {
	plan := &mealplan.Plan{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Description: m.Description,
		DateCreated: m.DateCreated,
		Items:       make([]mealplan.Item, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		plan.Items = append(plan.Items, mealplan.Item{
			ID:        item.ID,
			PlanID:    item.MealPlanID,
			MealSlot:  item.MealSlot,
			Breakfast: item.Breakfast,
			Lunch:     item.Lunch,
			Dinner:    item.Dinner,
			Snack:     item.Snack,
			Macros:    item.Macros,
		})
	}
	return plan
}
