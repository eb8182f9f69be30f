package automation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrTickAlreadyRunning is returned by RunTick while another tick is in flight.
var ErrTickAlreadyRunning = errors.New("automation tick already running")

// ErrAutomationInactive is returned by RunNow for a deactivated automation.
var ErrAutomationInactive = errors.New("automation is not active")

// ProcessingError reports why one automation could not be refreshed. The
// automation is left unmodified and stays due.
type ProcessingError struct {
	AutomationID uuid.UUID
	Err          error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("automation %s: %v", e.AutomationID, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
