package model

import (
	"time"
)

// TracingModel tracks how long the current overlay has been placed and the
// accumulated placed time across restarts. Presenters poll Values().
// The zero value is ready to use.
type TracingModel struct {
	placed      bool
	placedAt    time.Time
	current     time.Duration
	accumulated time.Duration
	placements  int
}

// NewTracingModel returns a pointer to a ready-to-use TracingModel.
func NewTracingModel() *TracingModel { return &TracingModel{} }

// OnTick advances the model from the session's placed flag at now.
func (m *TracingModel) OnTick(placed bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case placed && !m.placed:
		m.placed = true
		m.placedAt = now
		m.current = 0
		m.placements++
	case placed:
		m.current = now.Sub(m.placedAt)
	case m.placed:
		m.current = now.Sub(m.placedAt)
		m.accumulated += m.current
		m.placed = false
	}
}

// Values returns the current placement duration and the total including the
// ongoing placement.
func (m *TracingModel) Values() (current, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	current = m.current
	total = m.accumulated
	if m.placed {
		total += current
	}
	return
}

// Placements returns how many times an overlay has been placed.
func (m *TracingModel) Placements() int {
	if m == nil {
		return 0
	}
	return m.placements
}
