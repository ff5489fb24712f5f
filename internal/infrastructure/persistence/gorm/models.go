// Package gorm provides GORM model definitions and repository
// implementations for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the GORM model for user profiles
type UserModel struct {
	ID                 string `gorm:"type:varchar(255);primaryKey"`
	Height             *int
	Weight             *int
	Age                *int
	Sex                string   `gorm:"type:varchar(30)"`
	FitnessGoal        string   `gorm:"type:varchar(255)"`
	DietaryPreferences string   `gorm:"type:varchar(512)"`
	ActivityLevel      string   `gorm:"type:varchar(100)"`
	MedicalConditions  string   `gorm:"type:varchar(512)"`
	BMI                *float64 `gorm:"column:bmi"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the table name
func (UserModel) TableName() string { return "users" }

// HealthReportModel represents the GORM model for generated health reports
type HealthReportModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID     string    `gorm:"type:varchar(255);not null;index"`
	ReportText string    `gorm:"type:text"`
	FileName   string    `gorm:"type:varchar(255)"`
	CreatedAt  time.Time `gorm:"index"`

	User UserModel `gorm:"foreignKey:UserID"`
}

// TableName overrides the table name
func (HealthReportModel) TableName() string { return "health_reports" }

// MealPlanModel represents the GORM model for weekly meal plans.
// The unique index on user_id enforces the one-plan-per-user invariant
// at the storage level.
type MealPlanModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UserID      string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:varchar(512)"`
	DateCreated time.Time

	User  UserModel           `gorm:"foreignKey:UserID"`
	Items []MealPlanItemModel `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (MealPlanModel) TableName() string { return "meal_plans" }

// MealPlanItemModel represents the GORM model for one weekday slot of a plan
type MealPlanItemModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	MealPlanID uint   `gorm:"not null;index"`
	MealSlot   string `gorm:"type:varchar(20)"`
	Breakfast  string `gorm:"type:varchar(255)"`
	Lunch      string `gorm:"type:varchar(255)"`
	Dinner     string `gorm:"type:varchar(255)"`
	Snack      string `gorm:"type:varchar(255)"`
	Macros     string `gorm:"type:varchar(255)"`
}

// TableName overrides the table name
func (MealPlanItemModel) TableName() string { return "meal_plan_items" }
