package glitch

import "github.com/hajimehoshi/ebiten/v2"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a surface writes the pixel.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorWhite = Color{1, 1, 1, 1}
)

func (Color) brush() {}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// BlendMode selects a compositing operation for FillRect.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendHue                     // hue of the source, saturation and luminosity of the destination
)

// String returns the canvas name of the mode.
func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "source-over"
	case BlendHue:
		return "hue"
	default:
		return "unknown"
	}
}

// EbitenBlend returns the ebiten.Blend used when submitting a fill in this
// mode. Non-separable modes are resolved in a shader against a copy of the
// destination, so the shader output replaces the destination outright.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendHue:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// CaptionPosition controls where the scene caption is placed.
type CaptionPosition uint8

const (
	CaptionLeft   CaptionPosition = iota // flush to the left padding
	CaptionRight                         // flush to the right padding
	CaptionCenter                        // horizontally centered
	CaptionNone                          // caption hidden
)

// String returns the lower-case name used in show files.
func (p CaptionPosition) String() string {
	switch p {
	case CaptionLeft:
		return "left"
	case CaptionRight:
		return "right"
	case CaptionCenter:
		return "center"
	case CaptionNone:
		return "none"
	default:
		return "unknown"
	}
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// colorRGBA implements the color.Color interface for premultiplied fills.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
