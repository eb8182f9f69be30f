package dto

import (
	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/google/uuid"
)

type CreateAutomationRequest struct {
	SearchID  uuid.UUID `json:"search_id"`
	Frequency string    `json:"frequency" example:"24h" enums:"24h,daily,weekly,monthly"`
}

// Validate returns the parsed frequency.
func (r *CreateAutomationRequest) Validate() (domain.Frequency, error) {
	if r.SearchID == uuid.Nil {
		return "", apperr.NewValidation("search_id is required")
	}
	freq, err := domain.ParseFrequency(r.Frequency)
	if err != nil {
		return "", apperr.NewValidationWrap("invalid frequency", err)
	}
	return freq, nil
}

type RunResponse struct {
	AutomationID uuid.UUID `json:"automation_id"`
	Inserted     int       `json:"inserted"`
}
