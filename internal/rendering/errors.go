// Package rendering draws the 8-step learning roadmap to a PNG image.
package rendering

import "fmt"

// RenderError represents a failure building or writing the roadmap image
type RenderError struct {
	Message string
	Path    string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("render error: %s", msg)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
