package domain

import (
	"time"

	"github.com/google/uuid"
)

// CustomColumn is a user-defined annotation over the results of a saved query.
type CustomColumn struct {
	ID            uuid.UUID `json:"id"`
	SavedQueryID  uuid.UUID `json:"search_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	GeneratedByAI bool      `json:"generated_by_ai"`
	CreatedAt     time.Time `json:"created_at"`
}

type ColumnValue struct {
	ID        uuid.UUID `json:"id"`
	ColumnID  uuid.UUID `json:"column_id"`
	ResultID  uuid.UUID `json:"result_id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
