package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutricoach/v1/internal/domain/user"
	"github.com/nutricoach/v1/internal/ports/inbound"
	"go.uber.org/zap"
)

// UserHandlers serves the user profile endpoints
type UserHandlers struct {
	users  inbound.UserService
	logger *zap.Logger
}

// NewUserHandlers creates the user handlers
func NewUserHandlers(users inbound.UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{users: users, logger: logger.Named("user-handlers")}
}

type registerRequest struct {
	UserID string `json:"user_id"`
}

type profileUpdateRequest struct {
	Weight             int    `json:"weight"`
	Height             int    `json:"height"`
	Age                int    `json:"age"`
	Sex                string `json:"sex"`
	FitnessGoal        string `json:"fitness_goal"`
	DietaryPreferences string `json:"dietary_preferences"`
	ActivityLevel      string `json:"activity_level"`
}

type medicalConditionsRequest struct {
	MedicalConditions string `json:"medical_conditions"`
}

type profileResponse struct {
	ID                 string   `json:"id"`
	Weight             *int     `json:"weight"`
	Height             *int     `json:"height"`
	Age                *int     `json:"age"`
	BMI                *float64 `json:"bmi"`
	Sex                string   `json:"sex"`
	FitnessGoal        string   `json:"fitness_goal"`
	DietaryPreferences string   `json:"dietary_preferences"`
	ActivityLevel      string   `json:"activity_level"`
	MedicalConditions  string   `json:"medical_conditions"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func toProfileResponse(p *user.Profile) profileResponse {
	return profileResponse{
		ID:                 p.ID,
		Weight:             p.Weight,
		Height:             p.Height,
		Age:                p.Age,
		BMI:                p.BMI,
		Sex:                p.Sex,
		FitnessGoal:        p.FitnessGoal,
		DietaryPreferences: p.DietaryPreferences,
		ActivityLevel:      p.ActivityLevel,
		MedicalConditions:  p.MedicalConditions,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}

// Register creates a profile for an externally issued identity
func (h *UserHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	profile, err := h.users.Register(r.Context(), req.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// GetProfile returns the profile for the given user
func (h *UserHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile replaces the biometric and lifestyle attributes
func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), chi.URLParam(r, "userID"), inbound.ProfileUpdate{
		Weight:             req.Weight,
		Height:             req.Height,
		Age:                req.Age,
		Sex:                req.Sex,
		FitnessGoal:        req.FitnessGoal,
		DietaryPreferences: req.DietaryPreferences,
		ActivityLevel:      req.ActivityLevel,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UpdateMedicalConditions replaces the free-text medical conditions
func (h *UserHandlers) UpdateMedicalConditions(w http.ResponseWriter, r *http.Request) {
	var req medicalConditionsRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	profile, err := h.users.UpdateMedicalConditions(r.Context(), chi.URLParam(r, "userID"), req.MedicalConditions)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}
