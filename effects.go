package glitch

import (
	"math"
	"math/rand/v2"
	"time"
)

// Hue overlay gradient endpoints.
const (
	hueDark  = "#1a001a"
	hueLight = "#ffe6f0"
)

// bendTimeScale converts wall-clock milliseconds into bend phase.
const bendTimeScale = 0.002

// minBendAmplitude is the smallest |amplitude| that is worth rendering.
const minBendAmplitude = 0.1

// EffectRenderer draws the per-scene glitch effects. Each call is
// independent apart from the scratch buffer used by Bend, which is owned by
// the renderer and reallocated only when the surface size changes.
type EffectRenderer struct {
	rng *rand.Rand
	now func() time.Time

	scratch Image

	// fallback parsed values for malformed settings
	symbolColor Color
	symbolFont  FontSpec
}

// NewEffectRenderer creates a renderer drawing glyph choices from rng and
// bend phase from now. Nil arguments select a time-seeded source and
// time.Now.
func NewEffectRenderer(rng *rand.Rand, now func() time.Time) *EffectRenderer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if now == nil {
		now = time.Now
	}
	d := DefaultEffectSettings()
	return &EffectRenderer{
		rng:         rng,
		now:         now,
		symbolColor: MustParseColor(d.SymbolColor),
		symbolFont:  mustParseFont(d.SymbolFont),
	}
}

// HueGradient paints a slowly oscillating dark-to-light vertical gradient
// over area in hue blend mode. timeMs is the animation timestamp.
func (r *EffectRenderer) HueGradient(s RectFiller, timeMs float64, area Rect) {
	if area.Empty() {
		return
	}
	stops := hueGradientStops(timeMs)
	g := NewLinearGradient(0, area.Y, 0, area.Y+area.Height)
	g.AddColorStop(0, hexColor(stops[0]))
	g.AddColorStop(0.5, hexColor(stops[1]))
	g.AddColorStop(1, hexColor(stops[2]))

	s.FillRect(area, g, BlendHue)
}

// hueGradientStops returns the three stop colors used by HueGradient at
// timeMs.
func hueGradientStops(timeMs float64) [3]string {
	t := math.Sin(timeMs*0.0005)*0.5 + 0.5
	return [3]string{
		LerpHex(hueDark, hueLight, t*0.2),
		LerpHex(hueDark, hueLight, 0.5+t*0.2),
		LerpHex(hueDark, hueLight, 1.0),
	}
}

// Symbols scatters random glyphs from the scene's alphabet on a grid
// covering the whole surface. A grid point is left empty when a uniform
// draw is <= SymbolDensity.
func (r *EffectRenderer) Symbols(s GlyphPainter, fx EffectSettings) {
	step := fx.SymbolSpacing
	if step <= 0 || len(fx.Symbols) == 0 {
		return
	}
	c, err := ParseColor(fx.SymbolColor)
	if err != nil {
		c = r.symbolColor
	}
	f, err := ParseFont(fx.SymbolFont)
	if err != nil {
		f = r.symbolFont
	}

	w, h := s.Size()
	for y := 0.0; y < float64(h); y += step {
		for x := 0.0; x < float64(w); x += step {
			if r.rng.Float64() > fx.SymbolDensity {
				glyph := fx.Symbols[r.rng.IntN(len(fx.Symbols))]
				s.DrawText(glyph, f, c, x, y)
			}
		}
	}
}

// Bend displaces horizontal slices of the surface by a sine of their row
// and the wall clock. Amplitudes below 0.1 in magnitude leave the surface
// untouched.
func (r *EffectRenderer) Bend(s Bender, fx EffectSettings) {
	if math.Abs(fx.BendAmplitude) < minBendAmplitude {
		return
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	scratch := r.ensureScratch(s, w, h)
	s.Snapshot(scratch)
	s.Clear()

	slice := math.Max(1, math.Floor(fx.BendHeight))
	phase := float64(r.now().UnixMilli()) * bendTimeScale
	fw := float64(w)

	for y := 0.0; y < float64(h); y += slice {
		dx := math.Sin(y*fx.BendFrequency+phase) * fx.BendAmplitude
		s.DrawImage(scratch,
			Rect{X: 0, Y: y, Width: fw, Height: slice},
			Rect{X: dx, Y: y, Width: fw, Height: slice},
		)
	}
}

// ensureScratch returns the scratch buffer, replacing it when the surface
// size no longer matches.
func (r *EffectRenderer) ensureScratch(s Bender, w, h int) Image {
	if r.scratch != nil {
		b := r.scratch.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return r.scratch
		}
		disposeImage(r.scratch)
	}
	r.scratch = s.NewImage(w, h)
	return r.scratch
}

// Close releases the scratch buffer.
func (r *EffectRenderer) Close() {
	if r.scratch != nil {
		disposeImage(r.scratch)
		r.scratch = nil
	}
}

// hexColor converts a "#rrggbb" string to an opaque Color, or black.
func hexColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		return ColorBlack
	}
	return c
}

func mustParseFont(s string) FontSpec {
	f, err := ParseFont(s)
	if err != nil {
		panic(err)
	}
	return f
}
