package glitch

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		r    Rect
		want bool
	}{
		{Rect{0, 0, 1, 1}, false},
		{Rect{5, 5, 0, 10}, true},
		{Rect{5, 5, 10, -1}, true},
	}
	for _, tt := range tests {
		if got := tt.r.Empty(); got != tt.want {
			t.Errorf("Rect%v.Empty() = %v, want %v", tt.r, got, tt.want)
		}
	}
}

// --- BlendMode ---

func TestBlendModeString(t *testing.T) {
	if got := BlendNormal.String(); got != "source-over" {
		t.Errorf("BlendNormal.String() = %q, want %q", got, "source-over")
	}
	if got := BlendHue.String(); got != "hue" {
		t.Errorf("BlendHue.String() = %q, want %q", got, "hue")
	}
}

func TestBlendModeEbitenBlend(t *testing.T) {
	if BlendNormal.EbitenBlend() != ebiten.BlendSourceOver {
		t.Error("BlendNormal should submit with BlendSourceOver")
	}
	if BlendHue.EbitenBlend() != ebiten.BlendCopy {
		t.Error("BlendHue should submit with BlendCopy")
	}
}

// --- Color ---

func TestColorToRGBAPremultiplies(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 0.5}.toRGBA()
	if c.R != 128 || c.G != 64 || c.B != 0 || c.A != 128 {
		t.Errorf("toRGBA = %+v, want {128 64 0 128}", c)
	}
}

func TestCaptionPositionString(t *testing.T) {
	tests := []struct {
		p    CaptionPosition
		want string
	}{
		{CaptionLeft, "left"},
		{CaptionRight, "right"},
		{CaptionCenter, "center"},
		{CaptionNone, "none"},
		{CaptionPosition(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("CaptionPosition(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
