package mealplan

import "errors"

var (
	ErrPlanNotFound = errors.New("meal plan not found")
)
