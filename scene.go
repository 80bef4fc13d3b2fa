package glitch

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scene is one slide of the show: an image, a caption and the effect
// settings used while it is on screen. Scenes are values; the catalog hands
// out copies.
type Scene struct {
	Image    string          `yaml:"image"`
	Caption  string          `yaml:"text"`
	Position CaptionPosition `yaml:"position"`
	Effects  EffectSettings  `yaml:"effects"`
}

// EffectSettings tunes the glitch effects of a scene.
type EffectSettings struct {
	HueShiftSpeed float64  `yaml:"hue_shift_speed"`
	RGBShift      float64  `yaml:"rgb_shift"`
	BendAmplitude float64  `yaml:"bend_amplitude"`
	BendHeight    float64  `yaml:"bend_height"`    // slice height in rows
	BendFrequency float64  `yaml:"bend_frequency"` // radians per row
	Symbols       Alphabet `yaml:"symbols"`
	SymbolSpacing float64  `yaml:"symbol_spacing"` // grid step in pixels
	SymbolDensity float64  `yaml:"symbol_density"` // probability a grid point stays empty
	SymbolColor   string   `yaml:"symbol_color"`   // CSS color
	SymbolFont    string   `yaml:"symbol_font"`    // e.g. "16px monospace"
	PixelSize     float64  `yaml:"pixel_size"`
}

// DefaultEffectSettings returns the settings scenes start from before their
// own overrides are applied.
func DefaultEffectSettings() EffectSettings {
	return EffectSettings{
		HueShiftSpeed: 0.1,
		RGBShift:      0,
		BendAmplitude: 2,
		BendHeight:    1,
		BendFrequency: 0.5,
		Symbols:       NewAlphabet("░▒▓█☰☷"),
		SymbolSpacing: 8,
		SymbolDensity: 0.3,
		SymbolColor:   "rgba(0, 0, 0, 0.15)",
		SymbolFont:    "16px monospace",
		PixelSize:     10,
	}
}

// Clone returns a copy that shares no memory with s.
func (s EffectSettings) Clone() EffectSettings {
	s.Symbols = append(Alphabet(nil), s.Symbols...)
	return s
}

// Alphabet is the ordered set of glyphs the symbol overlay picks from. Each
// entry is drawn as one unit.
type Alphabet []string

// NewAlphabet splits s into one glyph per rune.
func NewAlphabet(s string) Alphabet {
	a := make(Alphabet, 0, len(s))
	for _, r := range s {
		a = append(a, string(r))
	}
	return a
}

// String joins the glyphs.
func (a Alphabet) String() string {
	return strings.Join(a, "")
}

// UnmarshalYAML accepts either a string (one glyph per rune) or a sequence
// of glyph strings.
func (a *Alphabet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*a = NewAlphabet(value.Value)
		return nil
	case yaml.SequenceNode:
		var glyphs []string
		if err := value.Decode(&glyphs); err != nil {
			return err
		}
		*a = Alphabet(glyphs)
		return nil
	}
	return fmt.Errorf("glitch: line %d: symbols must be a string or a list", value.Line)
}

// MarshalYAML writes the alphabet back as a single string.
func (a Alphabet) MarshalYAML() (any, error) {
	return a.String(), nil
}

// ParseCaptionPosition parses "left", "right", "center" or "none". The empty
// string maps to left.
func ParseCaptionPosition(s string) (CaptionPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return CaptionLeft, nil
	case "right":
		return CaptionRight, nil
	case "center", "centre":
		return CaptionCenter, nil
	case "none":
		return CaptionNone, nil
	}
	return CaptionLeft, fmt.Errorf("glitch: unknown caption position %q", s)
}

// UnmarshalYAML decodes a caption position name.
func (p *CaptionPosition) UnmarshalYAML(value *yaml.Node) error {
	pos, err := ParseCaptionPosition(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = pos
	return nil
}

// MarshalYAML writes the position name.
func (p CaptionPosition) MarshalYAML() (any, error) {
	return p.String(), nil
}
