// Package prompts renders the instruction templates sent to the
// text-generation model. Templates are parsed once at construction
// and interpolate typed data, so a profile field can never be
// silently dropped from the rendered prompt.
package prompts

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/nutricoach/v1/internal/domain/user"
)

const mealPlanTemplate = `You are a helpful assistant specialized in nutrition.
Make a personalized meal plan for every day of the week that includes on each day breakfast, lunch, dinner and a snack.
User Information:
Weight (in Kg): {{.Weight}}
Height (in cm): {{.Height}}
Age: {{.Age}}
BMI: {{.BMI}}
Gender: {{.Sex}}
Fitness Goal: {{.FitnessGoal}}
Activity Level: {{.ActivityLevel}}
Dietary Preferences: {{.DietaryPreferences}}
Medical Conditions: {{.MedicalConditions}}

Medical History (can be empty): {{.MedicalHistory}}

Recipe Context (recipes you may draw from):
{{.RecipeContext}}

Response Format:
Provide a JSON that contains 3 objects, the last one being a list of JSON objects in the following format:
name: (string) The name of the weekly meal plan.
description: (string) A very short and concise description of the weekly plan.
plan: (list) A JSON list that contains objects with the following fields:
    meal_slot: (string) The week day (e.g. Monday)
    breakfast: (string) The name of the meal for breakfast
    lunch: (string) The name of the meal for lunch
    dinner: (string) The name of the meal for dinner
    snack: (string) The name of the snack meal
    macros: (string) An estimate of the total macros (carbohydrates, protein, fats and calories) computed from all the meals of that day

Example:
User Information:
Weight: 90
Height: 180
BMI: 27.8
Gender: Male
Fitness Goal: Lose weight
Activity Level: sedentary
Dietary Preferences: vegan
Medical Conditions: diabetes
Medical History: previous diagnosis of mild anemia, recent MRI showing slight brain white matter changes
The response should have the following json format, and only respond like it. All responses should be in valid json format.
{
    "name": "str",
    "description": "str",
    "plan": [
    {
        "meal_slot": "str",
        "breakfast": "str",
        "lunch": "str",
        "dinner": "str",
        "snack": "str",
        "macros": "str"
    }
    ]
}
Remember to respond always with a plan that has 7 items (one for each day of the week) in the order of the week days!
Remember to respond always with a valid JSON format!
`

const reportSummaryTemplate = `You are a helpful assistant specialized in medical tasks. You will be given a health report of any type and should summarize it extensively keeping attention to health problems and unhealthy levels.
The summary should be medical focused and must contain less than 512 words!
Report:
{{.ReportText}}
Please respond only in valid text format with no special characters and no additional words other than the report:
`

// missingPlaceholder renders in place of any absent profile field so
// the instruction stays grammatically well-formed for the model.
const missingPlaceholder = "None"

type mealPlanData struct {
	Weight             string
	Height             string
	Age                string
	BMI                string
	Sex                string
	FitnessGoal        string
	ActivityLevel      string
	DietaryPreferences string
	MedicalConditions  string
	MedicalHistory     string
	RecipeContext      string
}

type reportSummaryData struct {
	ReportText string
}

// Builder renders the meal plan and report summary prompts
type Builder struct {
	mealPlan      *template.Template
	reportSummary *template.Template
}

// NewBuilder parses the prompt templates
func NewBuilder() *Builder {
	return &Builder{
		mealPlan:      template.Must(template.New("meal_plan").Parse(mealPlanTemplate)),
		reportSummary: template.Must(template.New("report_summary").Parse(reportSummaryTemplate)),
	}
}

// MealPlanPrompt renders the plan generation instruction for the
// given profile. healthReportText and recipeContext default to the
// explicit placeholder when empty.
func (b *Builder) MealPlanPrompt(profile *user.Profile, healthReportText, recipeContext string) (string, error) {
	data := mealPlanData{
		Weight:             intOrNone(profile.Weight),
		Height:             intOrNone(profile.Height),
		Age:                intOrNone(profile.Age),
		BMI:                bmiOrNone(profile.BMI),
		Sex:                orNone(profile.Sex),
		FitnessGoal:        orNone(profile.FitnessGoal),
		ActivityLevel:      orNone(profile.ActivityLevel),
		DietaryPreferences: orNone(profile.DietaryPreferences),
		MedicalConditions:  orNone(profile.MedicalConditions),
		MedicalHistory:     orNone(healthReportText),
		RecipeContext:      orNone(recipeContext),
	}

	var out strings.Builder
	if err := b.mealPlan.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render meal plan prompt: %w", err)
	}
	return out.String(), nil
}

// ReportSummaryPrompt renders the health report summarization
// instruction around the extracted document text.
func (b *Builder) ReportSummaryPrompt(reportText string) (string, error) {
	var out strings.Builder
	if err := b.reportSummary.Execute(&out, reportSummaryData{ReportText: reportText}); err != nil {
		return "", fmt.Errorf("failed to render report summary prompt: %w", err)
	}
	return out.String(), nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingPlaceholder
	}
	return s
}

func intOrNone(v *int) string {
	if v == nil {
		return missingPlaceholder
	}
	return strconv.Itoa(*v)
}

func bmiOrNone(v *float64) string {
	if v == nil {
		return missingPlaceholder
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
