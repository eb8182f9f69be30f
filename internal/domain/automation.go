package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "24h"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency accepts the stored names plus "daily" as an alias of "24h".
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24h", "daily":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Offset is the fixed interval between runs. A month is always 30 days.
func (f Frequency) Offset() (time.Duration, error) {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour, nil
	case FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	case FrequencyMonthly:
		return 30 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown frequency %q", string(f))
}

// Automation re-runs a saved query on a recurring schedule.
type Automation struct {
	ID           uuid.UUID  `json:"id"`
	Owner        string     `json:"owner"`
	SavedQueryID uuid.UUID  `json:"search_id"`
	Frequency    Frequency  `json:"frequency"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	NextRun      time.Time  `json:"next_run"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewAutomation(owner string, savedQueryID uuid.UUID, freq Frequency, now time.Time) (Automation, error) {
	offset, err := freq.Offset()
	if err != nil {
		return Automation{}, err
	}
	return Automation{
		ID:           uuid.New(),
		Owner:        owner,
		SavedQueryID: savedQueryID,
		Frequency:    freq,
		NextRun:      now.Add(offset),
		IsActive:     true,
		CreatedAt:    now,
	}, nil
}

func (a Automation) IsDue(now time.Time) bool {
	return a.IsActive && !a.NextRun.After(now)
}

// Advance returns the (lastRun, nextRun) pair recorded after a run at now.
func (a Automation) Advance(now time.Time) (time.Time, time.Time, error) {
	offset, err := a.Frequency.Offset()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return now, now.Add(offset), nil
}
