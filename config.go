package glitch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoScenes is returned when a show file lists no scenes.
var ErrNoScenes = errors.New("glitch: show has no scenes")

// WindowConfig sizes the window.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
}

// Config is a show file: window settings, run options and the scene list.
//
// Each scene's effects start from the show's defaults block, which itself
// starts from DefaultEffectSettings, so a scene only lists what it changes:
//
//	defaults:
//	  symbol_density: 0.5
//	scenes:
//	  - image: images/photo1.jpg
//	    text: Final scene
//	    position: right
//	    effects:
//	      symbol_color: rgba(255, 0, 0, 0.2)
type Config struct {
	Title         string         `yaml:"title"`
	Window        WindowConfig   `yaml:"window"`
	TransitionMS  int            `yaml:"transition_ms"`
	Seed          int64          `yaml:"seed"`
	Debug         bool           `yaml:"debug"`
	ShowFPS       bool           `yaml:"show_fps"`
	ScreenshotDir string         `yaml:"screenshot_dir"`
	ImageDir      string         `yaml:"image_dir"`
	Defaults      EffectSettings `yaml:"-"`
	Scenes        []Scene        `yaml:"-"`
}

// rawConfig defers decoding of the parts that are merged onto defaults.
type rawConfig struct {
	Config   `yaml:",inline"`
	Defaults yaml.Node   `yaml:"defaults"`
	Scenes   []yaml.Node `yaml:"scenes"`
}

// DefaultConfig returns the settings used for anything a show file omits.
func DefaultConfig() Config {
	return Config{
		Title:         "glitch",
		Window:        WindowConfig{Width: 1024, Height: 768},
		TransitionMS:  int(DefaultTransitionDuration / time.Millisecond),
		ScreenshotDir: DefaultScreenshotDir,
		ImageDir:      ".",
		Defaults:      DefaultEffectSettings(),
	}
}

// LoadConfig reads and parses a show file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("glitch: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a show file held in memory.
func ParseConfig(data []byte) (Config, error) {
	raw := rawConfig{Config: DefaultConfig()}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("glitch: parse config: %w", err)
	}
	cfg := raw.Config
	cfg.Defaults = DefaultEffectSettings()
	if !raw.Defaults.IsZero() {
		if err := raw.Defaults.Decode(&cfg.Defaults); err != nil {
			return Config{}, fmt.Errorf("glitch: parse config defaults: %w", err)
		}
	}
	if len(raw.Scenes) == 0 {
		return Config{}, ErrNoScenes
	}
	cfg.Scenes = make([]Scene, 0, len(raw.Scenes))
	for i := range raw.Scenes {
		sc := Scene{Effects: cfg.Defaults.Clone()}
		if err := raw.Scenes[i].Decode(&sc); err != nil {
			return Config{}, fmt.Errorf("glitch: parse scene %d: %w", i, err)
		}
		cfg.Scenes = append(cfg.Scenes, sc)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a show cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("glitch: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Scenes) == 0 {
		return ErrNoScenes
	}
	for i, sc := range c.Scenes {
		if sc.Effects.SymbolDensity < 0 || sc.Effects.SymbolDensity > 1 {
			return fmt.Errorf("glitch: scene %d: symbol_density %v outside [0, 1]", i, sc.Effects.SymbolDensity)
		}
	}
	return nil
}

// TransitionDuration returns the configured fade length. Zero and negative
// values mean an instant swap.
func (c Config) TransitionDuration() time.Duration {
	if c.TransitionMS <= 0 {
		return -1
	}
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// Catalog builds a scene catalog from the show.
func (c Config) Catalog() (*Catalog, error) {
	return NewCatalog(c.Scenes...)
}
