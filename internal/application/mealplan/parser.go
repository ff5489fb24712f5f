package mealplan

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/nutricoach/v1/internal/domain/mealplan"
	"github.com/nutricoach/v1/pkg/errors"
)

// Parser turns sanitized completion text into a validated plan draft.
// Parse failures and validation failures are surfaced as distinct
// error classes so callers can tell "uninterpretable output" apart
// from "structured but incomplete output".
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a parser with the draft validation rules
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// ParsePlan deserializes and validates a sanitized completion.
// Entries are normalized into canonical weekday order before return.
func (p *Parser) ParsePlan(sanitized string) (*mealplan.Draft, error) {
	var draft mealplan.Draft
	if err := json.Unmarshal([]byte(sanitized), &draft); err != nil {
		return nil, errors.NewModelOutputMalformedError(err)
	}

	if err := p.validate.Struct(&draft); err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	draft.Normalize()
	return &draft, nil
}
