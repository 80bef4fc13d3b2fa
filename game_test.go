package glitch

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDebouncer(t *testing.T) {
	clock := newFakeClock()
	d := debouncer{window: KeyDebounce}
	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{0, true},
		{100 * time.Millisecond, false},
		{199 * time.Millisecond, false},
		{time.Millisecond, true},
		{299 * time.Millisecond, false},
		{time.Millisecond, true},
	}
	for i, st := range steps {
		clock.Advance(st.advance)
		if got := d.allow(clock.Now()); got != st.want {
			t.Errorf("step %d: allow = %v, want %v", i, got, st.want)
		}
	}
}

func TestGameDispatch(t *testing.T) {
	f := newEngineFixture(t, testFS(t))
	e := f.engine
	e.Start()
	g := NewGame(e)

	if !g.Dispatch(ActionNext) {
		t.Fatal("first key press rejected")
	}
	if !e.Transition().Active() {
		t.Error("ActionNext did not start a transition")
	}
	f.clock.Advance(100 * time.Millisecond)
	if g.Dispatch(ActionPause) {
		t.Error("key press inside the debounce window accepted")
	}
	if e.Paused() {
		t.Error("debounced pause was applied")
	}

	f.clock.Advance(300 * time.Millisecond)
	if !g.Dispatch(ActionPause) || !e.Paused() {
		t.Error("pause after the debounce window not applied")
	}
	f.clock.Advance(300 * time.Millisecond)
	g.Dispatch(ActionScreenshot)
	if len(e.screenshotQueue) != 1 || e.screenshotQueue[0] != "scene0" {
		t.Errorf("screenshot queue = %v, want [scene0]", e.screenshotQueue)
	}
	f.clock.Advance(300 * time.Millisecond)
	g.Dispatch(ActionStop)
	if e.Running() {
		t.Error("ActionStop did not stop the engine")
	}
	if g.Dispatch(ActionNone) {
		t.Error("ActionNone should never be accepted")
	}
}

func TestGameLayoutResizesEngine(t *testing.T) {
	cat, _ := NewCatalog(Scene{})
	e := NewEngine(cat, EngineOptions{})
	g := NewGame(e)
	w, h := g.Layout(1000, 600)
	if w != 1000 || h != 600 {
		t.Errorf("Layout = %dx%d, want 1000x600", w, h)
	}
	if got := e.Layout(); got != (Rect{100, 0, 800, 600}) {
		t.Errorf("engine layout = %v", got)
	}
}

func TestGameUpdateTerminatesAfterStop(t *testing.T) {
	cat, _ := NewCatalog(Scene{})
	e := NewEngine(cat, EngineOptions{Now: newFakeClock().Now})
	g := NewGame(e)
	g.SetKeyMap(nil)

	if err := g.Update(); err != nil {
		t.Fatalf("first Update = %v, want nil", err)
	}
	if !e.Running() {
		t.Fatal("first Update did not start the engine")
	}
	e.Stop()
	if err := g.Update(); err != ebiten.Termination {
		t.Errorf("Update after Stop = %v, want ebiten.Termination", err)
	}
}

func TestDefaultKeyMap(t *testing.T) {
	want := map[ebiten.Key]Action{
		ebiten.KeyArrowRight: ActionNext,
		ebiten.KeyArrowLeft:  ActionPrevious,
		ebiten.KeySpace:      ActionPause,
	}
	for k, a := range want {
		if DefaultKeyMap[k] != a {
			t.Errorf("DefaultKeyMap[%v] = %v, want %v", k, DefaultKeyMap[k], a)
		}
	}
}

func TestGameFPSSkippedWhilePaused(t *testing.T) {
	f := newEngineFixture(t, testFS(t))
	e := f.engine
	g := NewGame(e)
	if g.overlayFPS() {
		t.Error("readout drawn without a widget")
	}

	g.fps = &fpsWidget{}
	steps := []struct {
		name string
		do   func()
		want bool
	}{
		{"stopped", func() {}, false},
		{"running", e.Start, true},
		{"paused", e.TogglePause, false},
		{"resumed", e.TogglePause, true},
		{"stopped again", e.Stop, false},
	}
	for _, st := range steps {
		st.do()
		if got := g.overlayFPS(); got != st.want {
			t.Errorf("%s: overlayFPS = %v, want %v", st.name, got, st.want)
		}
	}
}
