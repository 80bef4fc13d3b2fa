package glitch

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"
)

// Image is a drawable bitmap owned by a particular surface backend. Images
// created by one backend are ignored by another.
type Image interface {
	Bounds() image.Rectangle
}

// Sizer reports the pixel dimensions of a surface.
type Sizer interface {
	Size() (width, height int)
}

// RectFiller fills rectangles with a brush in a compositing mode. Fills
// respect the current clip.
type RectFiller interface {
	Sizer
	FillRect(r Rect, b Brush, mode BlendMode)
}

// Clipper restricts drawing to a rectangle. Clips nest; PopClip restores the
// previous region.
type Clipper interface {
	PushClip(r Rect)
	PopClip()
}

// Blitter copies image regions, scaling when src and dst differ in size.
type Blitter interface {
	DrawImage(img Image, src, dst Rect)
}

// TextPainter measures and draws single-line text. y is the baseline.
type TextPainter interface {
	MeasureText(text string, f FontSpec) float64
	DrawText(text string, f FontSpec, c Color, x, y float64)
}

// GlyphPainter is what the symbol overlay needs: the surface extent and text.
type GlyphPainter interface {
	Sizer
	TextPainter
}

// Bender is what the bend distortion needs: a scratch image of the surface's
// size, a way to copy the surface into it, clearing, and row blits.
type Bender interface {
	Sizer
	Blitter
	Clear()
	NewImage(width, height int) Image
	Snapshot(dst Image)
}

// Surface is the full drawing capability set used by the engine.
type Surface interface {
	RectFiller
	Clipper
	Blitter
	TextPainter
	Clear()
	NewImage(width, height int) Image
	Snapshot(dst Image)
	// Import converts a decoded image into a backend image.
	Import(img image.Image) Image
}

// disposeImage releases backend resources held by img when the backend
// supports it.
func disposeImage(img Image) {
	if d, ok := img.(interface{ Deallocate() }); ok {
		d.Deallocate()
	}
}

// --- Brushes ---

// Brush is a fill source: a solid Color or a *LinearGradient.
type Brush interface {
	brush()
}

// ColorStop is a gradient stop. Offset is in [0, 1] along the gradient axis.
type ColorStop struct {
	Offset float64
	Color  Color
}

// LinearGradient interpolates colors along the line (X0,Y0)-(X1,Y1).
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

func (*LinearGradient) brush() {}

// NewLinearGradient creates a gradient along the given axis with no stops.
func NewLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// AddColorStop inserts a stop, keeping stops ordered by offset. Stops with
// equal offsets keep insertion order. Offsets are clamped to [0, 1].
func (g *LinearGradient) AddColorStop(offset float64, c Color) {
	offset = clamp01(offset)
	i := sort.Search(len(g.Stops), func(i int) bool { return g.Stops[i].Offset > offset })
	g.Stops = append(g.Stops, ColorStop{})
	copy(g.Stops[i+1:], g.Stops[i:])
	g.Stops[i] = ColorStop{Offset: offset, Color: c}
}

// param projects (x, y) onto the gradient axis, returning the unclamped
// position where 0 is the start and 1 the end.
func (g *LinearGradient) param(x, y float64) float64 {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	return ((x-g.X0)*dx + (y-g.Y0)*dy) / l2
}

// At returns the gradient color at axis position t.
func (g *LinearGradient) At(t float64) Color {
	n := len(g.Stops)
	if n == 0 {
		return Color{}
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	if t >= g.Stops[n-1].Offset {
		return g.Stops[n-1].Color
	}
	for i := 1; i < n; i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		k := (t - a.Offset) / span
		return Color{
			R: a.Color.R + (b.Color.R-a.Color.R)*k,
			G: a.Color.G + (b.Color.G-a.Color.G)*k,
			B: a.Color.B + (b.Color.B-a.Color.B)*k,
			A: a.Color.A + (b.Color.A-a.Color.A)*k,
		}
	}
	return g.Stops[n-1].Color
}

// ColorAt returns the gradient color at the point (x, y).
func (g *LinearGradient) ColorAt(x, y float64) Color {
	return g.At(g.param(x, y))
}

// --- Fonts ---

// FontSpec names a font by family and pixel size.
type FontSpec struct {
	Family string
	Size   float64
	Bold   bool
}

// String formats the font in CSS shorthand, e.g. "bold 16px monospace".
func (f FontSpec) String() string {
	s := strconv.FormatFloat(f.Size, 'f', -1, 64) + "px " + f.Family
	if f.Bold {
		s = "bold " + s
	}
	return s
}

// ParseFont parses a CSS font shorthand of the form "[bold] <size>px <family>".
func ParseFont(s string) (FontSpec, error) {
	fields := strings.Fields(s)
	var spec FontSpec
	i := 0
	for i < len(fields) && !strings.HasSuffix(fields[i], "px") {
		switch fields[i] {
		case "bold":
			spec.Bold = true
		case "normal", "italic":
		default:
			return FontSpec{}, fmt.Errorf("glitch: unsupported font keyword %q in %q", fields[i], s)
		}
		i++
	}
	if i >= len(fields) {
		return FontSpec{}, fmt.Errorf("glitch: font %q has no pixel size", s)
	}
	size, err := strconv.ParseFloat(strings.TrimSuffix(fields[i], "px"), 64)
	if err != nil || size <= 0 {
		return FontSpec{}, fmt.Errorf("glitch: bad font size in %q", s)
	}
	spec.Size = size
	spec.Family = "sans-serif"
	if rest := strings.Join(fields[i+1:], " "); rest != "" {
		spec.Family = strings.Trim(rest, `"'`)
	}
	return spec, nil
}
