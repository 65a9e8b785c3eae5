package orgai

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrConfig  ErrorType = "config_error"
	ErrBackend ErrorType = "backend_error"
	ErrRender  ErrorType = "render_error"
)

// OrgAIError wraps configuration/transport issues with context and type.
type OrgAIError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *OrgAIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *OrgAIError) Unwrap() error { return e.Err }

// BackendExistsError indicates a duplicate backend registration attempt.
var BackendExistsError = errors.New("backend already registered")

// BackendError reports a non-success response from a completion endpoint.
type BackendError struct {
	Backend    string
	StatusCode int
	Type       string
	Message    string
}

func (e *BackendError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s returned status %d (%s): %s", e.Backend, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Backend, e.StatusCode, e.Message)
}
