package glitch

import "testing"

// textCall records one DrawText.
type textCall struct {
	text string
	x, y float64
	font FontSpec
	c    Color
}

// textRecorder measures every rune as 10px and records draws.
type textRecorder struct {
	w, h     int
	measured int
	calls    []textCall
}

func (r *textRecorder) Size() (int, int) { return r.w, r.h }

func (r *textRecorder) MeasureText(text string, _ FontSpec) float64 {
	r.measured++
	return float64(len([]rune(text))) * 10
}

func (r *textRecorder) DrawText(text string, f FontSpec, c Color, x, y float64) {
	r.calls = append(r.calls, textCall{text: text, x: x, y: y, font: f, c: c})
}

func TestTextOverlayPlacement(t *testing.T) {
	tests := []struct {
		name  string
		pos   CaptionPosition
		wantX float64
	}{
		{"left", CaptionLeft, 50},
		{"right", CaptionRight, 800 - 50 - 50},
		{"center", CaptionCenter, (800 - 50) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &textRecorder{}
			o := NewTextOverlay()
			o.Render(rec, "hello", tt.pos, 800, 600)
			if len(rec.calls) != 1 {
				t.Fatalf("DrawText calls = %d, want 1", len(rec.calls))
			}
			c := rec.calls[0]
			if c.x != tt.wantX || c.y != 300 {
				t.Errorf("drawn at (%v, %v), want (%v, 300)", c.x, c.y, tt.wantX)
			}
			if c.c != ColorWhite || c.font.Size != 24 || !isMonospace(c.font.Family) {
				t.Errorf("style = %v %v, want white 24px monospace", c.c, c.font)
			}
		})
	}
}

func TestTextOverlayNoOps(t *testing.T) {
	rec := &textRecorder{}
	o := NewTextOverlay()
	o.Render(rec, "", CaptionCenter, 800, 600)
	o.Render(rec, "hidden", CaptionNone, 800, 600)
	if len(rec.calls) != 0 {
		t.Errorf("DrawText calls = %d, want 0", len(rec.calls))
	}
	if rec.measured != 0 {
		t.Errorf("MeasureText calls = %d, want 0", rec.measured)
	}
}

func TestTextOverlayRaster(t *testing.T) {
	s := NewRasterSurface(200, 100)
	NewTextOverlay().Render(s, "WWW", CaptionLeft, 200, 100)

	img := s.Image()
	drawn := false
	for y := 0; y < 100 && !drawn; y++ {
		for x := 0; x < 45; x++ {
			if img.Pix[img.PixOffset(x, y)+3] != 0 {
				t.Fatalf("pixel (%d, %d) painted inside the left padding", x, y)
			}
		}
		for x := 50; x < 200; x++ {
			if img.Pix[img.PixOffset(x, y)+3] != 0 {
				drawn = true
				break
			}
		}
	}
	if !drawn {
		t.Error("caption left no pixels")
	}
}
