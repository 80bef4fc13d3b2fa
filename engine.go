package glitch

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// AspectRatio is the width:height ratio of the letterboxed image area.
const AspectRatio = 4.0 / 3.0

// EngineOptions configures NewEngine. The zero value is usable.
type EngineOptions struct {
	// Loader supplies scene images. Defaults to a loader over the working
	// directory.
	Loader *Loader
	// Rand drives the symbol overlay. Defaults to a time-seeded source.
	Rand *rand.Rand
	// Now is the wall clock used by the bend effect, the transition and the
	// frame timestamps. Defaults to time.Now.
	Now func() time.Time
	// TransitionDuration is the length of each fade half. Zero means
	// DefaultTransitionDuration; negative means instant.
	TransitionDuration time.Duration
	// Logger receives load failures, recovered panics and debug stats.
	// Defaults to a disabled logger.
	Logger *zerolog.Logger
	// Debug logs per-frame phase timings at debug level.
	Debug bool
}

// Engine owns the slideshow: the scene catalog, the transition, the effect
// renderer and the image bound for drawing. All methods must be called from
// the frame loop goroutine.
type Engine struct {
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	catalog    *Catalog
	transition *Transition
	effects    *EffectRenderer
	caption    *TextOverlay
	loader     *Loader
	log        zerolog.Logger
	now        func() time.Time
	duration   time.Duration

	images  map[string]Image       // imported, ready to draw
	decoded map[string]image.Image // decoded, awaiting Import on the loop
	bound   Image
	backup  Image // surface contents before the current frame
	// boundSrc is the source of bound; pendingSrc is the source the current
	// scene wants. They differ while a load is in flight.
	boundSrc   string
	pendingSrc string

	width, height int
	layout        Rect

	running bool
	paused  bool
	started time.Time

	debug bool
	stats frameStats

	script          *ScriptRunner
	screenshotQueue []string
	shots           int
}

// NewEngine creates a stopped engine over cat.
func NewEngine(cat *Catalog, opts EngineOptions) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now().UnixNano()), 0))
	}
	loader := opts.Loader
	if loader == nil {
		loader = NewLoader(nil)
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	d := opts.TransitionDuration
	if d == 0 {
		d = DefaultTransitionDuration
	}
	return &Engine{
		ScreenshotDir: DefaultScreenshotDir,
		catalog:       cat,
		transition:    NewTransition(now),
		effects:       NewEffectRenderer(rng, now),
		caption:       NewTextOverlay(),
		loader:        loader,
		log:           logger,
		now:           now,
		duration:      d,
		images:        make(map[string]Image),
		decoded:       make(map[string]image.Image),
		debug:         opts.Debug,
	}
}

// Catalog returns the scene catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Transition returns the transition controller.
func (e *Engine) Transition() *Transition {
	return e.transition
}

// Resize records the surface size and recomputes the letterbox: the largest
// 4:3 rectangle that fits, centered.
func (e *Engine) Resize(w, h int) {
	e.width, e.height = w, h
	e.layout = letterbox(float64(w), float64(h))
}

func letterbox(w, h float64) Rect {
	tw := w
	th := w / AspectRatio
	if th > h {
		th = h
		tw = h * AspectRatio
	}
	return Rect{X: (w - tw) / 2, Y: (h - th) / 2, Width: tw, Height: th}
}

// Layout returns the letterbox rectangle the image is drawn into.
func (e *Engine) Layout() Rect {
	return e.layout
}

// Size returns the size given to the last Resize.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// Start applies the current scene, requests its image and begins rendering.
// It does nothing if the engine is already running.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.started = e.now()
	sc := e.catalog.Current()
	e.catalog.Apply(sc)
	e.request(sc.Image)
	e.log.Info().Int("scenes", e.catalog.Len()).Msg("slideshow started")
}

// Stop clears the running flag. The frame loop observes it and exits.
func (e *Engine) Stop() {
	if e.running {
		e.log.Info().Msg("slideshow stopped")
	}
	e.running = false
}

// TogglePause freezes or resumes rendering. A paused engine leaves the last
// frame on screen and does not advance the transition.
func (e *Engine) TogglePause() {
	e.paused = !e.paused
}

// Running reports whether the engine has been started and not stopped.
func (e *Engine) Running() bool {
	return e.running
}

// Paused reports whether rendering is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// GoToNext fades to the next scene, wrapping at the end. It returns false if
// a transition is already running.
func (e *Engine) GoToNext() bool {
	return e.navigate(e.catalog.Next)
}

// GoToPrevious fades to the previous scene, wrapping at the start.
func (e *Engine) GoToPrevious() bool {
	return e.navigate(e.catalog.Previous)
}

// GoTo fades to scene index. An out-of-range index still runs the fade but
// leaves the scene unchanged.
func (e *Engine) GoTo(index int) bool {
	return e.navigate(func() (Scene, bool) { return e.catalog.ChangeTo(index) })
}

// navigate starts a transition whose midpoint selects a scene with pick.
func (e *Engine) navigate(pick func() (Scene, bool)) bool {
	return e.transition.Start(func() {
		sc, ok := pick()
		if !ok {
			e.log.Warn().Int("scenes", e.catalog.Len()).Msg("scene index out of range")
			return
		}
		e.catalog.Apply(sc)
		e.request(sc.Image)
		e.log.Debug().Int("scene", e.catalog.Index()).Str("image", sc.Image).Msg("scene changed")
	}, e.duration)
}

// request makes src the wanted image, binding it at once if it is already
// available and loading it otherwise.
func (e *Engine) request(src string) {
	e.pendingSrc = src
	if src == "" || src == e.boundSrc {
		return
	}
	if _, ok := e.images[src]; ok {
		return
	}
	if _, ok := e.decoded[src]; ok {
		return
	}
	e.loader.Load(src)
}

// Preload decodes every distinct scene image before the show starts. Load
// failures are logged and skipped.
func (e *Engine) Preload(ctx context.Context) error {
	seen := make(map[string]bool)
	var srcs []string
	for _, sc := range e.catalog.Scenes() {
		if sc.Image == "" || seen[sc.Image] {
			continue
		}
		seen[sc.Image] = true
		srcs = append(srcs, sc.Image)
	}
	e.log.Debug().Strs("sources", srcs).Msg("preloading images")
	results, err := e.loader.Preload(ctx, srcs)
	if err != nil {
		return err
	}
	for _, r := range results {
		e.accept(r)
	}
	return nil
}

// accept stores a finished load. Failures leave the previous image bound.
func (e *Engine) accept(r LoadResult) {
	if r.Err != nil {
		e.log.Warn().Err(r.Err).Str("image", r.Source).Msg("image load failed")
		return
	}
	e.decoded[r.Source] = r.Image
	e.log.Debug().Str("image", r.Source).Msg("image loaded")
}

// bindPending drains finished loads and binds the wanted image once it is
// available. Until then the previous image stays bound.
func (e *Engine) bindPending(s Surface) {
	for _, r := range e.loader.Poll() {
		e.accept(r)
	}
	if e.pendingSrc == "" || e.pendingSrc == e.boundSrc {
		return
	}
	img, ok := e.images[e.pendingSrc]
	if !ok {
		dec, ok := e.decoded[e.pendingSrc]
		if !ok {
			return
		}
		img = s.Import(dec)
		e.images[e.pendingSrc] = img
		delete(e.decoded, e.pendingSrc)
	}
	e.bound = img
	e.boundSrc = e.pendingSrc
}

// Bound returns the source of the image currently drawn.
func (e *Engine) Bound() string {
	return e.boundSrc
}

// Frame renders one frame at the current wall-clock time.
func (e *Engine) Frame(s Surface) error {
	var ts float64
	if !e.started.IsZero() {
		ts = float64(e.now().Sub(e.started)) / float64(time.Millisecond)
	}
	return e.RenderAt(s, ts)
}

// RenderAt renders one frame using tsMs as the animation timestamp in
// milliseconds. Finished image loads are picked up first. Nothing is drawn
// unless the engine is running and not paused. A panic during the frame is
// recovered and returned as an error, and the surface is put back the way
// it was before the frame started.
func (e *Engine) RenderAt(s Surface, tsMs float64) (err error) {
	depth, saved := 0, false
	defer func() {
		if r := recover(); r != nil {
			for ; depth > 0; depth-- {
				s.PopClip()
			}
			if saved {
				e.restoreBackup(s)
			}
			err = fmt.Errorf("glitch: frame panic: %v", r)
			e.log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("frame recovered")
		}
	}()

	var st frameStats
	t0 := time.Now()
	e.bindPending(s)
	st.bindTime = time.Since(t0)

	if !e.running || e.paused {
		return nil
	}

	if w, h := s.Size(); w != e.width || h != e.height {
		e.Resize(w, h)
	}
	saved = e.saveBackup(s)
	sc := e.catalog.Current()

	t0 = time.Now()
	s.Clear()
	s.PushClip(e.layout)
	depth++
	if e.bound != nil {
		b := e.bound.Bounds()
		s.DrawImage(e.bound, Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}, e.layout)
	}
	st.imageTime = time.Since(t0)

	t0 = time.Now()
	e.effects.HueGradient(s, tsMs, e.layout)
	e.effects.Symbols(s, sc.Effects)
	e.effects.Bend(s, sc.Effects)
	s.PopClip()
	depth--
	st.effectsTime = time.Since(t0)

	t0 = time.Now()
	text, pos := e.catalog.Caption()
	e.caption.Render(s, text, pos, float64(e.width), float64(e.height))
	st.captionTime = time.Since(t0)

	t0 = time.Now()
	e.transition.Update()
	e.transition.Draw(s)
	st.transitionTime = time.Since(t0)

	e.flushScreenshots(s)
	e.stats.record(st)
	e.debugLog(st)
	return nil
}

// saveBackup copies the surface before drawing so a failed frame can be
// rolled back to the previous one.
func (e *Engine) saveBackup(s Surface) bool {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return false
	}
	if e.backup != nil {
		if b := e.backup.Bounds(); b.Dx() != w || b.Dy() != h {
			disposeImage(e.backup)
			e.backup = nil
		}
	}
	if e.backup == nil {
		e.backup = s.NewImage(w, h)
	}
	s.Snapshot(e.backup)
	return true
}

// restoreBackup puts back the surface saved at the start of the frame.
func (e *Engine) restoreBackup(s Surface) {
	s.Clear()
	b := e.backup.Bounds()
	full := Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}
	s.DrawImage(e.backup, full, full)
}

// Close releases the effect scratch buffer, the frame backup and every
// imported image.
func (e *Engine) Close() {
	e.effects.Close()
	if e.backup != nil {
		disposeImage(e.backup)
		e.backup = nil
	}
	for src, img := range e.images {
		disposeImage(img)
		delete(e.images, src)
	}
	clear(e.decoded)
	e.bound = nil
	e.boundSrc = ""
}
