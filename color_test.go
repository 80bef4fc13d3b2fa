package glitch

import (
	"math"
	"testing"
)

func TestLerpHex(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		amount float64
		want   string
	}{
		{"start", "#1a001a", "#ffe6f0", 0, "#1a001a"},
		{"end", "#1a001a", "#ffe6f0", 1, "#ffe6f0"},
		{"midpoint", "#000000", "#ffffff", 0.5, "#808080"},
		{"tenth", "#1a001a", "#ffe6f0", 0.1, "#31172f"},
		{"upper case input", "#FF0000", "#0000FF", 0, "#ff0000"},
		{"overshoot clamps", "#000000", "#ffffff", 2, "#ffffff"},
		{"undershoot clamps", "#808080", "#ffffff", -3, "#000000"},
		{"a named color", "red", "#0000ff", 0.5, "#0000ff"},
		{"a short hex", "#abc", "#0000ff", 0.5, "#0000ff"},
		{"b malformed", "#ff0000", "blue", 0.5, "#ff0000"},
		{"both malformed", "red", "blue", 0.5, "blue"},
		{"bad digits", "#gg0000", "#ffffff", 0.5, "#000000"},
		{"nan amount", "#000000", "#ffffff", math.NaN(), "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LerpHex(tt.a, tt.b, tt.amount)
			if got != tt.want {
				t.Errorf("LerpHex(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.amount, got, tt.want)
			}
		})
	}
}

func TestLerpHexIdentity(t *testing.T) {
	for _, c := range []string{"#000000", "#ffffff", "#1a001a", "#7f3c99"} {
		for _, amt := range []float64{0, 0.25, 0.5, 1, 5} {
			if got := LerpHex(c, c, amt); got != c {
				t.Errorf("LerpHex(%q, %q, %v) = %q, want %q", c, c, amt, got, c)
			}
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{1, 0, 0, 1}},
		{"#f00", Color{1, 0, 0, 1}},
		{"#00ff0080", Color{0, 1, 0, 128.0 / 255.0}},
		{"rgb(255, 0, 0)", Color{1, 0, 0, 1}},
		{"rgba(0, 0, 0, 0.15)", Color{0, 0, 0, 0.15}},
		{"rgba(255, 0, 0, 0.2)", Color{1, 0, 0, 0.2}},
		{"  White ", Color{1, 1, 1, 1}},
		{"transparent", Color{}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tt.in, err)
			continue
		}
		if !colorNear(got, tt.want, 1e-6) {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "chartreuse-ish", "#12", "rgb(1, 2)", "rgba(a, b, c, d)", "#zzzzzz"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) should fail", in)
		}
	}
}

func TestMustParseColorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseColor should panic on bad input")
		}
	}()
	MustParseColor("nope")
}

func TestHueBlendKeepsLuminosity(t *testing.T) {
	pink := MustParseColor("#ffe6f0")
	tests := []struct {
		name      string
		base, src Color
	}{
		{"red under blue", Color{1, 0, 0, 1}, Color{0, 0, 1, 1}},
		{"yellow under blue", Color{1, 1, 0, 1}, Color{0, 0, 1, 1}},
		{"green under red", Color{0.2, 0.6, 0.2, 1}, Color{1, 0, 0, 1}},
		{"dark purple under pink", Color{0.1, 0, 0.1, 0.5}, pink},
		{"white under blue", Color{1, 1, 1, 1}, Color{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hueBlend(tt.base, tt.src)
			gotLum := lum([3]float64{got.R, got.G, got.B})
			wantLum := lum([3]float64{tt.base.R, tt.base.G, tt.base.B})
			if math.Abs(gotLum-wantLum) > 1e-9 {
				t.Errorf("lum(hueBlend) = %v, want %v (got %v)", gotLum, wantLum, got)
			}
			for _, v := range []float64{got.R, got.G, got.B} {
				if v < -1e-9 || v > 1+1e-9 {
					t.Errorf("hueBlend = %v, channel outside [0, 1]", got)
				}
			}
			if got.A != tt.base.A {
				t.Errorf("alpha = %v, want %v", got.A, tt.base.A)
			}
		})
	}
}

func TestHueBlend(t *testing.T) {
	tests := []struct {
		name      string
		base, src Color
		want      Color
	}{
		// Blue at red's luminosity is out of gamut and gets pulled toward gray.
		{"red under blue", Color{1, 0, 0, 1}, Color{0, 0, 1, 1}, Color{0.3 - 0.077/0.89, 0.3 - 0.077/0.89, 1, 1}},
		{"green under red", Color{0.2, 0.6, 0.2, 1}, Color{1, 0, 0, 1}, Color{0.716, 0.316, 0.316, 1}},
		{"gray stays gray", Color{0.5, 0.5, 0.5, 0.7}, Color{0, 0, 1, 1}, Color{0.5, 0.5, 0.5, 0.7}},
		{"gray source drops saturation", Color{1, 0, 0, 1}, Color{0.4, 0.4, 0.4, 1}, Color{0.3, 0.3, 0.3, 1}},
	}
	for _, tt := range tests {
		if got := hueBlend(tt.base, tt.src); !colorNear(got, tt.want, 1e-9) {
			t.Errorf("%s: hueBlend = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSetSat(t *testing.T) {
	got := setSat([3]float64{0.2, 0.8, 0.5}, 0.3)
	want := [3]float64{0, 0.3, 0.15}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("setSat = %v, want %v", got, want)
			break
		}
	}
	if got := sat(got); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("sat(setSat(c, 0.3)) = %v, want 0.3", got)
	}
}

func colorNear(a, b Color, eps float64) bool {
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps &&
		math.Abs(a.B-b.B) <= eps && math.Abs(a.A-b.A) <= eps
}
