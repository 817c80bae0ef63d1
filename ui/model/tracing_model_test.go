package model

import (
	"testing"
	"time"
)

func TestTracingModel_Lifecycle(t *testing.T) {
	m := NewTracingModel()
	base := time.Unix(0, 0)

	m.OnTick(false, base)
	if c, tot := m.Values(); c != 0 || tot != 0 {
		t.Fatalf("expected zero before placement, got current=%v total=%v", c, tot)
	}

	m.OnTick(true, base.Add(time.Second))
	m.OnTick(true, base.Add(6*time.Second))
	c, tot := m.Values()
	if c != 5*time.Second || tot != 5*time.Second {
		t.Fatalf("expected 5s current & total; got current=%v total=%v", c, tot)
	}

	// restart clears the overlay
	m.OnTick(false, base.Add(7*time.Second))
	c, tot = m.Values()
	if c != 6*time.Second || tot != 6*time.Second {
		t.Fatalf("after unplace expected 6s; got current=%v total=%v", c, tot)
	}
	m.OnTick(false, base.Add(20*time.Second))
	if c2, tot2 := m.Values(); c2 != c || tot2 != tot {
		t.Fatalf("idle tick changed durations: %v/%v -> %v/%v", c, tot, c2, tot2)
	}

	m.OnTick(true, base.Add(30*time.Second))
	m.OnTick(true, base.Add(33*time.Second))
	c, tot = m.Values()
	if c != 3*time.Second || tot != 9*time.Second {
		t.Fatalf("second placement expected 3s/9s; got %v/%v", c, tot)
	}
	if m.Placements() != 2 {
		t.Fatalf("expected 2 placements, got %d", m.Placements())
	}
}

func TestTracingModel_NilSafe(t *testing.T) {
	var m *TracingModel
	m.OnTick(true, time.Now())
	if c, tot := m.Values(); c != 0 || tot != 0 {
		t.Fatalf("nil model should report zero")
	}
	if m.Placements() != 0 {
		t.Fatalf("nil model should report zero placements")
	}
}
