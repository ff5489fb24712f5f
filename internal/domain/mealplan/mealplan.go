// Package mealplan contains the weekly meal plan domain model
package mealplan

import "time"

// Weekdays is the canonical Monday-first ordering used by plan items.
var Weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DaysPerWeek is the expected number of plan items.
const DaysPerWeek = 7

// Plan is the aggregate root for a user's weekly meal plan.
// At most one plan exists per user; generating a new one supersedes
// the previous plan and all of its items.
type Plan struct {
	ID          uint
	UserID      string
	Name        string
	Description string
	DateCreated time.Time
	Items       []Item
}

// Item holds the meals for one weekday slot. Items are owned
// exclusively by their plan and are deleted with it.
type Item struct {
	ID        uint
	PlanID    uint
	MealSlot  string
	Breakfast string
	Lunch     string
	Dinner    string
	Snack     string
	Macros    string
}

// RecipeDocument is a similarity-searchable chunk of recipe text
// retrieved from the vector index. Documents are immutable; the index
// is built offline and never mutated on the request path.
type RecipeDocument struct {
	Title   string
	Content string
	Score   float64
}

// Draft is the typed, validated form of a model-generated plan before
// it is persisted. Field tags carry both the wire names the model is
// instructed to emit and the validation constraints.
type Draft struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Plan        []DayDraft `json:"plan" validate:"required,len=7,dive"`
}

// DayDraft is one weekday entry of a draft plan.
type DayDraft struct {
	MealSlot  string `json:"meal_slot" validate:"required"`
	Breakfast string `json:"breakfast" validate:"required"`
	Lunch     string `json:"lunch" validate:"required"`
	Dinner    string `json:"dinner" validate:"required"`
	Snack     string `json:"snack" validate:"required"`
	Macros    string `json:"macros" validate:"required"`
}

// Normalize reorders the draft entries into canonical Monday-first
// order. The model is instructed to emit weekday order but its output
// is not trusted; when every weekday appears exactly once the entries
// are reordered, otherwise the model's ordering is kept as-is.
func (d *Draft) Normalize() {
	if len(d.Plan) != DaysPerWeek {
		return
	}
	byDay := make(map[string]DayDraft, DaysPerWeek)
	for _, day := range d.Plan {
		byDay[day.MealSlot] = day
	}
	ordered := make([]DayDraft, 0, DaysPerWeek)
	for _, weekday := range Weekdays {
		day, ok := byDay[weekday]
		if !ok {
			return
		}
		ordered = append(ordered, day)
	}
	d.Plan = ordered
}

// ToPlan converts a validated draft into a persistable plan
func (d *Draft) ToPlan(userID string) *Plan {
	plan := &Plan{
		UserID:      userID,
		Name:        d.Name,
		Description: d.Description,
		DateCreated: time.Now(),
		Items:       make([]Item, 0, len(d.Plan)),
	}
	for _, day := range d.Plan {
		plan.Items = append(plan.Items, Item{
			MealSlot:  day.MealSlot,
			Breakfast: day.Breakfast,
			Lunch:     day.Lunch,
			Dinner:    day.Dinner,
			Snack:     day.Snack,
			Macros:    day.Macros,
		})
	}
	return plan
}
