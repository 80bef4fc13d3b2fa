package glitch

import (
	"time"

	"github.com/tanema/gween/ease"
)

// DefaultTransitionDuration is the length of each half of a transition.
const DefaultTransitionDuration = 500 * time.Millisecond

// overlayThreshold is the alpha below which the overlay is not painted.
const overlayThreshold = 0.01

// Phase is the state of a Transition.
type Phase uint8

const (
	PhaseIdle      Phase = iota // no transition running, nothing painted
	PhaseFadingOut              // overlay darkening towards full black
	PhaseFadingIn               // overlay clearing after the swap
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingOut:
		return "fading-out"
	case PhaseFadingIn:
		return "fading-in"
	default:
		return "unknown"
	}
}

// Transition is a fade-through-black state machine. Start arms it with a
// midpoint callback; Update advances it from the clock. The callback runs
// exactly once per Start, on the Update that brings the overlay to full
// opacity, and before the fade-in begins.
type Transition struct {
	phase    Phase
	progress float64
	alpha    float64
	started  time.Time
	duration time.Duration
	midpoint func()

	now  func() time.Time
	ease ease.TweenFunc
}

// NewTransition creates an idle transition reading time from now (time.Now
// when nil).
func NewTransition(now func() time.Time) *Transition {
	if now == nil {
		now = time.Now
	}
	return &Transition{
		now:      now,
		ease:     ease.InOutQuad,
		duration: DefaultTransitionDuration,
	}
}

// Start begins fading out. It returns false and changes nothing unless the
// transition is idle. A duration <= 0 completes each phase on the next
// Update.
func (t *Transition) Start(onMidpoint func(), duration time.Duration) bool {
	if t.phase != PhaseIdle {
		return false
	}
	t.phase = PhaseFadingOut
	t.progress = 0
	t.alpha = 0
	t.duration = duration
	t.started = t.now()
	t.midpoint = onMidpoint
	return true
}

// Update advances the active phase. It is a no-op while idle.
func (t *Transition) Update() {
	if t.phase == PhaseIdle {
		return
	}

	now := t.now()
	t.progress = 1
	if t.duration > 0 {
		t.progress = min(1, float64(now.Sub(t.started))/float64(t.duration))
	}
	eased := float64(t.ease(float32(t.progress), 0, 1, 1))

	switch t.phase {
	case PhaseFadingOut:
		t.alpha = eased
		if t.progress >= 1 {
			t.alpha = 1
			t.phase = PhaseFadingIn
			t.started = now
			t.progress = 0
			cb := t.midpoint
			t.midpoint = nil
			if cb != nil {
				cb()
			}
		}
	case PhaseFadingIn:
		t.alpha = 1 - eased
		if t.progress >= 1 {
			t.alpha = 0
			t.phase = PhaseIdle
		}
	}
}

// Draw covers the whole surface with black at the current alpha. Nothing is
// painted while the alpha is negligible.
func (t *Transition) Draw(s RectFiller) {
	if t.alpha <= overlayThreshold {
		return
	}
	w, h := s.Size()
	s.FillRect(Rect{Width: float64(w), Height: float64(h)}, Color{A: t.alpha}, BlendNormal)
}

// Phase returns the current phase.
func (t *Transition) Phase() Phase {
	return t.phase
}

// Alpha returns the overlay opacity computed by the last Update.
func (t *Transition) Alpha() float64 {
	return t.alpha
}

// Progress returns the linear progress through the current phase.
func (t *Transition) Progress() float64 {
	return t.progress
}

// Active reports whether a transition is running.
func (t *Transition) Active() bool {
	return t.phase != PhaseIdle
}
