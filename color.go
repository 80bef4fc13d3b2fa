package glitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// fallbackHex is returned by LerpHex when a well-formed string fails to parse.
const fallbackHex = "#000000"

// LerpHex linearly interpolates between two "#RRGGBB" colors. Each channel is
// round(a + (b-a)*amount) clamped to [0, 255]; amount itself is not clamped.
//
// If a is malformed, b is returned as given. If only b is malformed, a is
// returned. Hex digits that fail to parse yield "#000000". LerpHex never
// panics.
func LerpHex(a, b string, amount float64) string {
	if !wellFormedHex(a) {
		return b
	}
	if !wellFormedHex(b) {
		return a
	}

	ar, ag, ab, ok1 := parseHexChannels(a)
	br, bg, bb, ok2 := parseHexChannels(b)
	if !ok1 || !ok2 {
		return fallbackHex
	}

	r := lerpChannel(ar, br, amount)
	g := lerpChannel(ag, bg, amount)
	bl := lerpChannel(ab, bb, amount)
	return fmt.Sprintf("#%02x%02x%02x", r, g, bl)
}

func wellFormedHex(s string) bool {
	return len(s) == 7 && s[0] == '#'
}

func parseHexChannels(s string) (r, g, b float64, ok bool) {
	var v [3]float64
	for i := range v {
		n, err := strconv.ParseUint(s[1+i*2:3+i*2], 16, 8)
		if err != nil {
			return 0, 0, 0, false
		}
		v[i] = float64(n)
	}
	return v[0], v[1], v[2], true
}

// lerpChannel rounds half away from zero for positive values, matching
// Math.round on the non-negative range that reaches the clamp.
func lerpChannel(a, b, amount float64) int {
	v := math.Floor(a + (b-a)*amount + 0.5)
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Min(255, math.Max(0, v)))
}

// namedColors covers the CSS keywords used by show files.
var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 128.0 / 255.0, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"cyan":        {0, 1, 1, 1},
	"magenta":     {1, 0, 1, 1},
	"gray":        {128.0 / 255.0, 128.0 / 255.0, 128.0 / 255.0, 1},
	"grey":        {128.0 / 255.0, 128.0 / 255.0, 128.0 / 255.0, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses a CSS-style color: "#rgb", "#rrggbb", "#rrggbbaa",
// "rgb(r, g, b)", "rgba(r, g, b, a)" or one of a few color keywords.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[len("rgba(") : len(s)-1])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[len("rgb(") : len(s)-1])
	}
	return Color{}, fmt.Errorf("glitch: unrecognized color %q", s)
}

// MustParseColor is like ParseColor but panics on error. Intended for
// package-level literals.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHexColor(s string) (Color, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("glitch: bad alpha in %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("glitch: bad hex color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func parseRGBFunc(args string) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("glitch: rgb() wants 3 or 4 components, got %d", len(parts))
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("glitch: bad rgb component %q: %w", parts[i], err)
		}
		ch[i] = clamp01(v / 255)
	}
	alpha := 1.0
	if len(parts) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("glitch: bad alpha %q: %w", parts[3], err)
		}
		alpha = clamp01(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// hueBlend is the non-separable "hue" blend: the hue of src with the
// saturation and luminosity of dst. Alpha is taken from dst.
func hueBlend(dst, src Color) Color {
	base := [3]float64{dst.R, dst.G, dst.B}
	out := setLum(setSat([3]float64{src.R, src.G, src.B}, sat(base)), lum(base))
	return Color{R: out[0], G: out[1], B: out[2], A: dst.A}
}

// lum is the blend luminosity of an RGB triple.
func lum(c [3]float64) float64 {
	return 0.3*c[0] + 0.59*c[1] + 0.11*c[2]
}

// sat is the spread between the largest and smallest channel.
func sat(c [3]float64) float64 {
	return max(c[0], c[1], c[2]) - min(c[0], c[1], c[2])
}

// setLum shifts c to luminosity l, pulling out-of-gamut channels back
// toward the gray of the same luminosity.
func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	c = [3]float64{c[0] + d, c[1] + d, c[2] + d}
	l = lum(c)
	lo := min(c[0], c[1], c[2])
	hi := max(c[0], c[1], c[2])
	for i := range c {
		if lo < 0 {
			c[i] = l + (c[i]-l)*l/(l-lo)
		}
		if hi > 1 {
			c[i] = l + (c[i]-l)*(1-l)/(hi-l)
		}
	}
	return c
}

// setSat rescales c so its channel spread is s. The smallest channel
// becomes 0 and the order of the channels is kept.
func setSat(c [3]float64, s float64) [3]float64 {
	lo := min(c[0], c[1], c[2])
	hi := max(c[0], c[1], c[2])
	if hi <= lo {
		return [3]float64{}
	}
	for i := range c {
		c[i] = (c[i] - lo) * s / (hi - lo)
	}
	return c
}
