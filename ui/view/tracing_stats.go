package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// TracingStats shows how long the overlay has been placed.
type TracingStats interface {
	SetCurrent(d time.Duration)
	SetTotal(d time.Duration)
}

type tracingStats struct {
	currentLbl *LabelWidget
	totalLbl   *LabelWidget
}

// NewTracingStats creates current and total duration labels in a grid layout.
// The current label is placed at (row, startCol) and total label at (row, startCol+1).
// If parent is nil, labels are positioned relative to the App root.
func NewTracingStats(parent *FrameWidget, row, startCol int) TracingStats {
	s := &tracingStats{currentLbl: Label(Width(16)), totalLbl: Label(Width(14))}
	if parent != nil {
		Grid(s.currentLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.totalLbl, In(parent), Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	} else {
		Grid(s.currentLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.totalLbl, Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	}
	s.SetCurrent(0)
	s.SetTotal(0)
	return s
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetCurrent updates the current placement duration display.
func (s *tracingStats) SetCurrent(d time.Duration) {
	if s == nil || s.currentLbl == nil {
		return
	}
	s.currentLbl.Configure(Txt("Tracing: " + clock(d)))
}

// SetTotal updates the total duration display.
func (s *tracingStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}
