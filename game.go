package glitch

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyDebounce is the minimum time between two accepted key presses.
const KeyDebounce = 300 * time.Millisecond

// Action is something a key press asks the engine to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionPause
	ActionScreenshot
	ActionStop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionPause:
		return "pause"
	case ActionScreenshot:
		return "screenshot"
	case ActionStop:
		return "stop"
	default:
		return "none"
	}
}

// DefaultKeyMap binds the arrow keys to navigation, space to pause, F12 to
// a screenshot and Escape to quit.
var DefaultKeyMap = map[ebiten.Key]Action{
	ebiten.KeyArrowRight: ActionNext,
	ebiten.KeyArrowLeft:  ActionPrevious,
	ebiten.KeySpace:      ActionPause,
	ebiten.KeyF12:        ActionScreenshot,
	ebiten.KeyEscape:     ActionStop,
}

// debouncer drops events that arrive within window of the last accepted one.
type debouncer struct {
	window time.Duration
	last   time.Time
}

func (d *debouncer) allow(now time.Time) bool {
	if !d.last.IsZero() && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	return true
}

// Game adapts an Engine to ebiten.Game. Input is read in Update and only
// calls engine methods; all rendering happens in Draw.
type Game struct {
	engine   *Engine
	surface  *EbitenSurface
	keys     map[ebiten.Key]Action
	debounce debouncer
	now      func() time.Time
	fps      *fpsWidget

	width, height int
	err           error
}

// NewGame wraps e. The engine is started on the first Update if it has not
// been started already.
func NewGame(e *Engine) *Game {
	return &Game{
		engine:   e,
		surface:  NewEbitenSurface(nil),
		keys:     DefaultKeyMap,
		debounce: debouncer{window: KeyDebounce},
		now:      e.now,
	}
}

// SetKeyMap replaces the key bindings.
func (g *Game) SetKeyMap(keys map[ebiten.Key]Action) {
	g.keys = keys
}

// Engine returns the wrapped engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Err returns the last frame error, if any.
func (g *Game) Err() error {
	return g.err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if !g.engine.Running() {
		if g.engine.started.IsZero() {
			g.engine.Start()
		} else {
			return ebiten.Termination
		}
	}
	for k, a := range g.keys {
		if inpututil.IsKeyJustPressed(k) {
			g.Dispatch(a)
		}
	}
	g.engine.Update()
	if !g.engine.Running() {
		return ebiten.Termination
	}
	return nil
}

// Dispatch performs a, subject to the key debounce. It reports whether the
// action was accepted.
func (g *Game) Dispatch(a Action) bool {
	if a == ActionNone || !g.debounce.allow(g.now()) {
		return false
	}
	switch a {
	case ActionNext:
		g.engine.GoToNext()
	case ActionPrevious:
		g.engine.GoToPrevious()
	case ActionPause:
		g.engine.TogglePause()
	case ActionScreenshot:
		g.engine.Screenshot(fmt.Sprintf("scene%d", g.engine.Catalog().Index()))
	case ActionStop:
		g.engine.Stop()
	}
	return true
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.SetTarget(screen)
	if err := g.engine.Frame(g.surface); err != nil {
		g.err = err
	}
	if g.overlayFPS() {
		g.fps.Draw(screen, g.now())
	}
}

// overlayFPS reports whether the FPS readout is drawn this frame. The screen
// is not cleared between frames, so a frame the engine skips must not
// composite the translucent readout again.
func (g *Game) overlayFPS() bool {
	return g.fps != nil && g.engine.Running() && !g.engine.Paused()
}

// Layout implements ebiten.Game. The surface matches the window so the
// letterbox is recomputed on every resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.engine.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close releases the GPU resources held by the game and its engine.
func (g *Game) Close() {
	g.engine.Close()
	g.surface.Dispose()
	if g.fps != nil {
		g.fps.Dispose()
	}
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	ShowFPS    bool
}

// Run opens a window and runs the slideshow until it is stopped or the
// window is closed.
func Run(g *Game, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	// A paused engine draws nothing; the last frame must stay on screen.
	ebiten.SetScreenClearedEveryFrame(false)
	if cfg.ShowFPS {
		g.fps = newFPSWidget()
	}
	defer g.Close()

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("glitch: run: %w", err)
	}
	return nil
}
