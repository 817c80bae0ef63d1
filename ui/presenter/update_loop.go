package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Scene    *ScenePresenter
	State    *StatePresenter
	Tracing  *TracingPresenter
	Schedule func()
	now      func() time.Time
}

func NewLoop(scene *ScenePresenter, state *StatePresenter, tracing *TracingPresenter, schedule func()) *Loop {
	return &Loop{Scene: scene, State: state, Tracing: tracing, Schedule: schedule, now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	// Scene first so tracking events reach the session before state is shown.
	if l.Scene != nil {
		l.Scene.Tick(now)
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Tracing != nil {
		l.Tracing.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
