package review

import (
	"github.com/aretw0/introspection"
)

// ControllerState exposes review progress for observability.
type ControllerState struct {
	RunID     string `json:"run_id,omitempty"`
	Running   bool   `json:"running"`
	Total     int    `json:"total"`
	Presented int    `json:"presented"`
	Accepted  int    `json:"accepted"`
	Declined  int    `json:"declined"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed_writes"`
}

// State implements introspection.Introspectable.
func (c *Controller) State() any {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// ComponentType implements introspection.Component.
func (c *Controller) ComponentType() string {
	return "review_controller"
}

var _ introspection.Introspectable = (*Controller)(nil)
var _ introspection.Component = (*Controller)(nil)
