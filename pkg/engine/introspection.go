package engine

import (
	"github.com/aretw0/introspection"
)

// State exposes counters across the engine's lifetime.
type State struct {
	LastRunID  string `json:"last_run_id,omitempty"`
	Plans      int    `json:"plans"`
	Reviews    int    `json:"reviews"`
	Documents  int    `json:"documents"`
	Titles     int    `json:"titles"`
	Candidates int    `json:"candidates"`
	Accepted   int    `json:"accepted"`
	Declined   int    `json:"declined"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
