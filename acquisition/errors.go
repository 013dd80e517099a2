package acquisition

import (
	"fmt"
	"time"
)

// TriggerNotFoundError reports that no locator strategy found an export
// control in the host document.
type TriggerNotFoundError struct {
	Strategies int
}

func (e *TriggerNotFoundError) Error() string {
	return fmt.Sprintf("no export trigger found after trying %d locator strategies", e.Strategies)
}

// ActionNotFoundError reports that the menu opened but no download action was
// found before the retry budget ran out.
type ActionNotFoundError struct {
	Attempts int
}

func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("no download action found in menu after %d attempts", e.Attempts)
}

// InterceptionError reports that retrieving the intercepted download payload
// failed. The underlying cause is preserved.
type InterceptionError struct {
	Cause error
}

func (e *InterceptionError) Error() string {
	return fmt.Sprintf("failed to retrieve intercepted download payload: %v", e.Cause)
}

func (e *InterceptionError) Unwrap() error { return e.Cause }

// AcquisitionTimeoutError reports that a session reached its overall timeout
// before resolving, whatever sub-state it was in.
type AcquisitionTimeoutError struct {
	Timeout time.Duration
	State   SessionState
}

func (e *AcquisitionTimeoutError) Error() string {
	return fmt.Sprintf("acquisition timed out after %s in state %s", e.Timeout, e.State)
}
