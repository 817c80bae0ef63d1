package tracking

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/surface-sketch-go/domain/surface"
)

const trackerStatsLogInterval = 5 * time.Second

type surfaceState struct {
	announced bool
	extent    surface.Extent
}

type tracker struct {
	scenario Scenario
	interval time.Duration
	logger   *slog.Logger

	running atomic.Bool
	gen     atomic.Uint64

	mu        sync.Mutex
	detecting bool
	last      time.Time
	elapsed   time.Duration
	states    []surfaceState
	queue     []Event
	pending   map[surface.ID]int // queue index per surface

	steps     atomic.Uint64
	detected  atomic.Uint64
	updated   atomic.Uint64
	coalesced atomic.Uint64
}

var _ Service = (*tracker)(nil)

// NewTracker returns a stopped tracker that plays sc, stepping every
// interval while running.
func NewTracker(sc Scenario, interval time.Duration, logger *slog.Logger) Service {
	return newTracker(sc, interval, logger)
}

func newTracker(sc Scenario, interval time.Duration, logger *slog.Logger) *tracker {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &tracker{
		scenario: sc,
		interval: interval,
		logger:   logger,
		states:   make([]surfaceState, len(sc.Surfaces)),
		pending:  make(map[surface.ID]int),
	}
}

func (t *tracker) Running() bool { return t.running.Load() }

func (t *tracker) Start() {
	if !t.running.CompareAndSwap(false, true) {
		return
	}
	gen := t.gen.Add(1)
	go t.loop(gen)
}

func (t *tracker) Stop() {
	if !t.running.CompareAndSwap(true, false) {
		return
	}
	t.gen.Add(1)
}

// SetPlaneDetection pauses or resumes the scenario clock.
func (t *tracker) SetPlaneDetection(enabled bool) {
	t.mu.Lock()
	changed := t.detecting != enabled
	if changed {
		t.detecting = enabled
		t.last = time.Time{}
	}
	t.mu.Unlock()
	if changed && t.logger != nil {
		t.logger.Debug("plane detection", "enabled", enabled)
	}
}

// Step advances the scenario clock to now and queues the resulting events.
func (t *tracker) Step(now time.Time) {
	t.steps.Add(1)
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.detecting {
		return
	}
	if !t.last.IsZero() && now.After(t.last) {
		t.elapsed += now.Sub(t.last)
	}
	t.last = now
	for i, spec := range t.scenario.Surfaces {
		ext, ok := spec.ExtentAt(t.elapsed)
		if !ok {
			continue
		}
		st := &t.states[i]
		switch {
		case !st.announced:
			st.announced = true
			st.extent = ext
			t.push(Event{Kind: EventDetected, ID: surface.ID(spec.ID), Extent: ext, Pose: spec.Anchor()})
			t.detected.Add(1)
		case ext != st.extent:
			st.extent = ext
			t.push(Event{Kind: EventUpdated, ID: surface.ID(spec.ID), Extent: ext, Pose: spec.Anchor()})
			t.updated.Add(1)
		}
	}
}

// push queues ev. A surface has at most one queued event: later geometry
// replaces the queued extent and pose, and a queued detection stays a
// detection. Caller holds mu.
func (t *tracker) push(ev Event) {
	if i, ok := t.pending[ev.ID]; ok {
		t.queue[i].Extent = ev.Extent
		t.queue[i].Pose = ev.Pose
		t.coalesced.Add(1)
		return
	}
	t.pending[ev.ID] = len(t.queue)
	t.queue = append(t.queue, ev)
}

// Drain returns and clears the queued events.
func (t *tracker) Drain() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return nil
	}
	out := t.queue
	t.queue = nil
	clear(t.pending)
	return out
}

// Rewind restarts the scenario clock so every surface is detected again.
func (t *tracker) Rewind() {
	t.mu.Lock()
	t.elapsed = 0
	t.last = time.Time{}
	t.queue = nil
	clear(t.pending)
	for i := range t.states {
		t.states[i] = surfaceState{}
	}
	t.mu.Unlock()
	if t.logger != nil {
		t.logger.Debug("tracking rewound")
	}
}

func (t *tracker) Stats() Stats {
	t.mu.Lock()
	queued, elapsed, detecting := len(t.queue), t.elapsed, t.detecting
	t.mu.Unlock()
	return Stats{
		Steps:     t.steps.Load(),
		Detected:  t.detected.Load(),
		Updated:   t.updated.Load(),
		Coalesced: t.coalesced.Load(),
		Queued:    queued,
		Elapsed:   elapsed,
		Detecting: detecting,
	}
}

func (t *tracker) loop(gen uint64) {
	defer t.recoverLog()
	logTicker := time.NewTicker(trackerStatsLogInterval)
	defer logTicker.Stop()
	for t.gen.Load() == gen {
		t.Step(time.Now())
		select {
		case <-logTicker.C:
			t.logStats()
		default:
		}
		time.Sleep(t.interval)
	}
}

func (t *tracker) logStats() {
	if t.logger == nil {
		return
	}
	stats := t.Stats()
	t.logger.Debug("tracking.stats",
		"steps", stats.Steps,
		"detected", stats.Detected,
		"updated", stats.Updated,
		"coalesced", stats.Coalesced,
		"queued", stats.Queued,
		"elapsed", stats.Elapsed,
	)
}

func (t *tracker) recoverLog() {
	if r := recover(); r != nil {
		t.running.Store(false)
		if t.logger != nil {
			t.logger.Error("tracking loop panic", "panic", r)
		}
	}
}
