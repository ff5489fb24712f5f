// Package handlers implements the REST API handlers
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details,omitempty"`
	} `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError translates any error into the structured error body.
// AppErrors carry their own status code; everything else is a 500
// with the details withheld from the client.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := errors.FromError(err)

	if appErr.StatusCode() >= 500 {
		logger.Error("Request failed", zap.Error(err))
	}

	var body errorBody
	body.Error.Code = string(appErr.Code)
	body.Error.Message = appErr.Message
	if appErr.StatusCode() < 500 {
		body.Error.Details = appErr.Details
	}

	respondJSON(w, appErr.StatusCode(), body)
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("invalid request body").WithCause(err)
	}
	return nil
}
