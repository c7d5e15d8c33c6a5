package deviceauth

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceCodeExpired means the user did not confirm the code in time.
	ErrDeviceCodeExpired = errors.New("device code expired, please try again")
	// ErrAuthorizationDenied means the user rejected the request.
	ErrAuthorizationDenied = errors.New("access denied by user")
	// ErrLoginInProgress is returned when Login is called while another
	// attempt on the same Client has not finished.
	ErrLoginInProgress = errors.New("a login is already in progress")
)

// DeviceCodeRequestError is returned when the device-code endpoint answers
// with a non-2xx status or an unusable body.
type DeviceCodeRequestError struct {
	StatusCode int
	Err        error
}

func (e *DeviceCodeRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to request device code (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to request device code: HTTP %d", e.StatusCode)
}

func (e *DeviceCodeRequestError) Unwrap() error { return e.Err }

// NetworkError wraps transport failures while talking to the authorization
// server, so they are not mistaken for a protocol-level answer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthenticationError carries an error code from the token endpoint that has
// no dedicated meaning in the device flow.
type AuthenticationError struct {
	Code        string
	Description string
	StatusCode  int
}

func (e *AuthenticationError) Error() string {
	code := e.Code
	if code == "" {
		code = fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	if e.Description != "" {
		return fmt.Sprintf("authentication failed: %s (%s)", code, e.Description)
	}
	return fmt.Sprintf("authentication failed: %s", code)
}

// terminalState maps a Login error to the state it ends in.
func terminalState(err error) State {
	switch {
	case errors.Is(err, ErrDeviceCodeExpired):
		return StateExpired
	case errors.Is(err, ErrAuthorizationDenied):
		return StateDenied
	default:
		return StateFailed
	}
}
