package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/internal/ports/inbound"
	"go.uber.org/zap"
)

// MealPlanHandlers serves the meal plan endpoints
type MealPlanHandlers struct {
	plans  inbound.MealPlanService
	logger *zap.Logger
}

// NewMealPlanHandlers creates the meal plan handlers
func NewMealPlanHandlers(plans inbound.MealPlanService, logger *zap.Logger) *MealPlanHandlers {
	return &MealPlanHandlers{plans: plans, logger: logger.Named("mealplan-handlers")}
}

type dayResponse struct {
	MealSlot  string `json:"meal_slot"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snack     string `json:"snack"`
	Macros    string `json:"macros"`
}

type draftResponse struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Plan        []dayResponse `json:"plan"`
}

type planResponse struct {
	ID          uint          `json:"meal_plan_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	DateCreated string        `json:"date_created"`
	Plan        []dayResponse `json:"plan"`
}

func toDraftResponse(draft *mealplan.Draft) draftResponse {
	resp := draftResponse{
		Name:        draft.Name,
		Description: draft.Description,
		Plan:        make([]dayResponse, 0, len(draft.Plan)),
	}
	for _, day := range draft.Plan {
		resp.Plan = append(resp.Plan, dayResponse{
			MealSlot:  day.MealSlot,
			Breakfast: day.Breakfast,
			Lunch:     day.Lunch,
			Dinner:    day.Dinner,
			Snack:     day.Snack,
			Macros:    day.Macros,
		})
	}
	return resp
}

func toPlanResponse(plan *mealplan.Plan) planResponse {
	resp := planResponse{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		DateCreated: plan.DateCreated.Format(time.RFC3339),
		Plan:        make([]dayResponse, 0, len(plan.Items)),
	}
	for _, item := range plan.Items {
		resp.Plan = append(resp.Plan, dayResponse{
			MealSlot:  item.MealSlot,
			Breakfast: item.Breakfast,
			Lunch:     item.Lunch,
			Dinner:    item.Dinner,
			Snack:     item.Snack,
			Macros:    item.Macros,
		})
	}
	return resp
}

// GeneratePlan runs the generation pipeline and returns the new plan
func (h *MealPlanHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	draft, err := h.plans.GeneratePlan(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toDraftResponse(draft))
}

// CurrentPlan returns the user's stored plan
func (h *MealPlanHandlers) CurrentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.plans.CurrentPlan(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toPlanResponse(plan))
}
