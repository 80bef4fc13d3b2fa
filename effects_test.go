package glitch

import (
	"bytes"
	"image"
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

// fillRecorder records FillRect calls.
type fillRecorder struct {
	w, h  int
	rects []Rect
	brush []Brush
	modes []BlendMode
}

func (r *fillRecorder) Size() (int, int) { return r.w, r.h }

func (r *fillRecorder) FillRect(rect Rect, b Brush, mode BlendMode) {
	r.rects = append(r.rects, rect)
	r.brush = append(r.brush, b)
	r.modes = append(r.modes, mode)
}

// patterned returns a surface where every pixel is opaque and distinct.
func patterned(w, h int) *RasterSurface {
	s := NewRasterSurface(w, h)
	img := s.Image()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 16)
			img.Pix[i+1] = uint8(y * 16)
			img.Pix[i+2] = uint8(x + y)
			img.Pix[i+3] = 255
		}
	}
	return s
}

func fixedClock(ms int64) func() time.Time {
	t := time.UnixMilli(ms)
	return func() time.Time { return t }
}

// --- HueGradient ---

func TestHueGradientStops(t *testing.T) {
	stops := hueGradientStops(0)
	want := [3]string{"#31172f", LerpHex(hueDark, hueLight, 0.6), hueLight}
	if stops != want {
		t.Errorf("hueGradientStops(0) = %v, want %v", stops, want)
	}
}

func TestHueGradientFill(t *testing.T) {
	rec := &fillRecorder{w: 100, h: 100}
	r := NewEffectRenderer(rand.New(rand.NewPCG(1, 0)), fixedClock(0))
	area := Rect{X: 10, Y: 20, Width: 80, Height: 60}
	r.HueGradient(rec, 1234, area)

	if len(rec.rects) != 1 {
		t.Fatalf("FillRect calls = %d, want 1", len(rec.rects))
	}
	if rec.rects[0] != area {
		t.Errorf("filled %v, want %v", rec.rects[0], area)
	}
	if rec.modes[0] != BlendHue {
		t.Errorf("mode = %v, want hue", rec.modes[0])
	}
	g, ok := rec.brush[0].(*LinearGradient)
	if !ok {
		t.Fatalf("brush = %T, want *LinearGradient", rec.brush[0])
	}
	if g.Y0 != 20 || g.Y1 != 80 || g.X0 != g.X1 {
		t.Errorf("gradient axis = (%v,%v)-(%v,%v), want vertical 20..80", g.X0, g.Y0, g.X1, g.Y1)
	}
	stops := hueGradientStops(1234)
	for i, off := range []float64{0, 0.5, 1} {
		if g.Stops[i].Offset != off {
			t.Errorf("stop %d offset = %v, want %v", i, g.Stops[i].Offset, off)
		}
		if g.Stops[i].Color != hexColor(stops[i]) {
			t.Errorf("stop %d color = %v, want %s", i, g.Stops[i].Color, stops[i])
		}
	}
}

func TestHueGradientEmptyArea(t *testing.T) {
	rec := &fillRecorder{w: 10, h: 10}
	NewEffectRenderer(nil, nil).HueGradient(rec, 0, Rect{})
	if len(rec.rects) != 0 {
		t.Error("empty area should not be filled")
	}
}

// --- Symbols ---

func TestSymbolsDensity(t *testing.T) {
	tests := []struct {
		name    string
		density float64
		spacing float64
		want    int
	}{
		{"all suppressed", 1, 8, 0},
		{"none suppressed", 0, 8, 9},
		{"no spacing", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &textRecorder{w: 24, h: 17}
			fx := DefaultEffectSettings()
			fx.SymbolDensity = tt.density
			fx.SymbolSpacing = tt.spacing
			NewEffectRenderer(rand.New(rand.NewPCG(7, 0)), nil).Symbols(rec, fx)
			if len(rec.calls) != tt.want {
				t.Errorf("glyphs drawn = %d, want %d", len(rec.calls), tt.want)
			}
		})
	}
}

func TestSymbolsGridAndAlphabet(t *testing.T) {
	rec := &textRecorder{w: 16, h: 16}
	fx := DefaultEffectSettings()
	fx.SymbolDensity = 0
	fx.SymbolColor = "rgba(255, 0, 0, 0.2)"
	NewEffectRenderer(rand.New(rand.NewPCG(3, 0)), nil).Symbols(rec, fx)

	want := [][2]float64{{0, 0}, {8, 0}, {0, 8}, {8, 8}}
	if len(rec.calls) != len(want) {
		t.Fatalf("glyphs drawn = %d, want %d", len(rec.calls), len(want))
	}
	allowed := map[string]bool{}
	for _, g := range fx.Symbols {
		allowed[g] = true
	}
	for i, c := range rec.calls {
		if c.x != want[i][0] || c.y != want[i][1] {
			t.Errorf("glyph %d at (%v, %v), want %v", i, c.x, c.y, want[i])
		}
		if !allowed[c.text] {
			t.Errorf("glyph %d = %q, not in alphabet", i, c.text)
		}
		if !colorNear(c.c, Color{1, 0, 0, 0.2}, 1e-9) {
			t.Errorf("glyph %d color = %v", i, c.c)
		}
	}
}

func TestSymbolsBadSettingsFallBack(t *testing.T) {
	rec := &textRecorder{w: 8, h: 8}
	fx := DefaultEffectSettings()
	fx.SymbolDensity = 0
	fx.SymbolColor = "not a color"
	fx.SymbolFont = "huge"
	NewEffectRenderer(rand.New(rand.NewPCG(3, 0)), nil).Symbols(rec, fx)
	if len(rec.calls) != 1 {
		t.Fatalf("glyphs drawn = %d, want 1", len(rec.calls))
	}
	c := rec.calls[0]
	if !colorNear(c.c, Color{0, 0, 0, 0.15}, 1e-9) || c.font.Size != 16 {
		t.Errorf("fallback style = %v %v, want default color and 16px", c.c, c.font)
	}
}

func TestSymbolsDeterministicWithSeed(t *testing.T) {
	render := func() []byte {
		s := NewRasterSurface(64, 48)
		NewEffectRenderer(rand.New(rand.NewPCG(42, 0)), nil).Symbols(s, DefaultEffectSettings())
		return append([]byte(nil), s.Image().Pix...)
	}
	if !bytes.Equal(render(), render()) {
		t.Error("same seed produced different symbol overlays")
	}
}

// --- Bend ---

func TestBendBelowThresholdIsIdentity(t *testing.T) {
	for _, amp := range []float64{0, 0.05, -0.09} {
		s := patterned(16, 8)
		before := append([]byte(nil), s.Image().Pix...)
		fx := DefaultEffectSettings()
		fx.BendAmplitude = amp
		r := NewEffectRenderer(nil, fixedClock(0))
		r.Bend(s, fx)
		if !bytes.Equal(before, s.Image().Pix) {
			t.Errorf("amplitude %v changed pixels", amp)
		}
		if r.scratch != nil {
			t.Errorf("amplitude %v allocated a scratch buffer", amp)
		}
	}
}

func TestBendZeroPhaseIsIdentity(t *testing.T) {
	s := patterned(16, 8)
	before := append([]byte(nil), s.Image().Pix...)
	fx := DefaultEffectSettings()
	fx.BendFrequency = 0
	NewEffectRenderer(nil, fixedClock(0)).Bend(s, fx)
	if !bytes.Equal(before, s.Image().Pix) {
		t.Error("sin(0) displacement changed pixels")
	}
}

func TestBendShiftsRows(t *testing.T) {
	s := patterned(8, 3)
	orig := patterned(8, 3).Image()
	fx := DefaultEffectSettings()
	fx.BendAmplitude = 3
	fx.BendHeight = 1
	fx.BendFrequency = math.Pi / 2 // row 1 peaks, rows 0 and 2 sit at zero
	NewEffectRenderer(nil, fixedClock(0)).Bend(s, fx)

	img := s.Image()
	for x := 0; x < 8; x++ {
		if !bytes.Equal(pixelAt(img, x, 0), pixelAt(orig, x, 0)) {
			t.Errorf("row 0 pixel %d moved", x)
		}
		if !bytes.Equal(pixelAt(img, x, 2), pixelAt(orig, x, 2)) {
			t.Errorf("row 2 pixel %d moved", x)
		}
	}
	for x := 0; x < 3; x++ {
		if a := pixelAt(img, x, 1)[3]; a != 0 {
			t.Errorf("row 1 pixel %d alpha = %d, want cleared", x, a)
		}
	}
	for x := 3; x < 8; x++ {
		if !bytes.Equal(pixelAt(img, x, 1), pixelAt(orig, x-3, 1)) {
			t.Errorf("row 1 pixel %d = %v, want source pixel %d %v", x, pixelAt(img, x, 1), x-3, pixelAt(orig, x-3, 1))
		}
	}
}

func TestBendScratchReuse(t *testing.T) {
	s := patterned(16, 8)
	r := NewEffectRenderer(nil, fixedClock(500))
	fx := DefaultEffectSettings()

	r.Bend(s, fx)
	first := r.scratch
	if first == nil {
		t.Fatal("Bend did not allocate a scratch buffer")
	}
	r.Bend(s, fx)
	if r.scratch != first {
		t.Error("scratch reallocated without a size change")
	}

	s.Resize(20, 10)
	r.Bend(s, fx)
	if r.scratch == first {
		t.Fatal("scratch not reallocated after resize")
	}
	if b := r.scratch.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("scratch size = %dx%d, want 20x10", b.Dx(), b.Dy())
	}

	r.Close()
	if r.scratch != nil {
		t.Error("Close kept the scratch buffer")
	}
}

func TestBendRespectsClip(t *testing.T) {
	s := patterned(16, 8)
	orig := patterned(16, 8).Image()
	fx := DefaultEffectSettings()
	fx.BendAmplitude = 3
	fx.BendFrequency = math.Pi / 2
	s.PushClip(Rect{X: 4, Y: 0, Width: 8, Height: 8})
	NewEffectRenderer(nil, fixedClock(0)).Bend(s, fx)
	s.PopClip()

	img := s.Image()
	for y := 0; y < 8; y++ {
		for _, x := range []int{0, 3, 12, 15} {
			if !bytes.Equal(pixelAt(img, x, y), pixelAt(orig, x, y)) {
				t.Errorf("pixel (%d, %d) outside the clip changed", x, y)
			}
		}
	}
}

func pixelAt(img *image.RGBA, x, y int) []byte {
	i := img.PixOffset(x, y)
	return img.Pix[i : i+4]
}
