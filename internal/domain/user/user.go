// Package user contains the user profile domain model
package user

import (
	"strings"
	"time"
)

// Profile is the aggregate root for a user's health profile.
// The identity key is external (issued by the identity provider),
// so it is a plain string rather than a generated ID.
type Profile struct {
	ID                 string
	Height             *int // centimeters
	Weight             *int // kilograms
	Age                *int
	Sex                string
	FitnessGoal        string
	DietaryPreferences string
	ActivityLevel      string
	MedicalConditions  string

	// BMI is derived from height and weight. It is recomputed on every
	// profile mutation and can never be set directly.
	BMI *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates an empty profile for a newly registered user
func NewProfile(id string) (*Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyUserID
	}
	now := time.Now()
	return &Profile{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateProfileData replaces the biometric and lifestyle attributes
func (p *Profile) UpdateProfileData(weight, height, age int, sex, fitnessGoal, dietaryPreferences, activityLevel string) error {
	if weight <= 0 || height <= 0 || age <= 0 {
		return ErrInvalidBiometrics
	}

	p.Weight = &weight
	p.Height = &height
	p.Age = &age
	p.Sex = sex
	p.FitnessGoal = fitnessGoal
	p.DietaryPreferences = dietaryPreferences
	p.ActivityLevel = activityLevel
	p.recomputeBMI()
	p.UpdatedAt = time.Now()

	return nil
}

// UpdateMedicalConditions replaces the free-text medical conditions
func (p *Profile) UpdateMedicalConditions(text string) {
	p.MedicalConditions = text
	p.recomputeBMI()
	p.UpdatedAt = time.Now()
}

// recomputeBMI derives BMI from height and weight. When either is
// missing the BMI is unset.
func (p *Profile) recomputeBMI() {
	if p.Height == nil || p.Weight == nil || *p.Height == 0 {
		p.BMI = nil
		return
	}
	meters := float64(*p.Height) / 100
	bmi := float64(*p.Weight) / (meters * meters)
	p.BMI = &bmi
}
