package presenter

import (
	"time"

	"github.com/soocke/surface-sketch-go/domain/surface"
)

// Prompts shown under the state label.
const (
	PromptChooseImage = "Choose an image, then press Next"
	PromptScanning    = "Tap to select a surface"
	PromptSelected    = "Tap the surface to rotate the image or adjust opacity to start tracing!"
)

// StateView sets the state and prompt labels in the view. Settings are only
// editable while idle.
type StateView interface {
	SetStateLabel(string)
	SetPrompt(string)
	SetConfigEditable(bool)
}

// StatePresenter receives state transitions and reflects the latest one on Tick.
type StatePresenter struct {
	view    StateView
	latest  surface.State
	shown   bool
	pending []surface.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view, latest: surface.StateIdle}
}

// OnState queues a transition. Usable as a surface.StateListener.
//
// The latest queued state will be reflected on the next Tick.
func (p *StatePresenter) OnState(_, next surface.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// OnSessionEvent queues state events coming from the session.
func (p *StatePresenter) OnSessionEvent(ev surface.Event) {
	if ev.Kind == surface.EventState {
		p.OnState(ev.Prev, ev.State)
	}
}

// Tick updates the view with the most recent state and clears the queue.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	next := p.latest
	if len(p.pending) > 0 {
		next = p.pending[len(p.pending)-1]
		p.pending = p.pending[:0]
	}
	if p.shown && next == p.latest {
		return
	}
	p.latest = next
	p.shown = true
	p.view.SetStateLabel("State: " + next.String())
	p.view.SetPrompt(Prompt(next))
	p.view.SetConfigEditable(next == surface.StateIdle)
}

// Prompt returns the instruction text for state s.
func Prompt(s surface.State) string {
	switch s {
	case surface.StateScanning:
		return PromptScanning
	case surface.StateSelected:
		return PromptSelected
	default:
		return PromptChooseImage
	}
}
