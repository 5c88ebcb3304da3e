package core

import "fmt"

// ActionResult is the structured outcome of an out-of-band agent action.
// Failures are data, not errors: an unknown action name, missing parameters
// or a downstream collaborator failure all yield Success=false with a
// human-readable Error, never a panic or a Go error crossing the agent
// boundary.
type ActionResult struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ActionSuccess builds a successful result carrying the handler's data.
func ActionSuccess(data map[string]any) ActionResult {
	return ActionResult{Success: true, Data: data}
}

// ActionFailure builds a failed result with a formatted error description.
func ActionFailure(format string, args ...any) ActionResult {
	return ActionResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

// UnknownAction builds the canonical failure for an unrecognized action name.
func UnknownAction(name string) ActionResult {
	return ActionFailure("Unknown action: %s", name)
}
