package glitch

import "errors"

// ErrEmptyCatalog is returned when a catalog would hold no scenes.
var ErrEmptyCatalog = errors.New("glitch: catalog needs at least one scene")

// Catalog is the ordered list of scenes with a cursor on the current one.
// The index always satisfies 0 <= index < Len().
//
// Selecting a scene and applying its caption are separate steps: the engine
// selects during a transition's midpoint callback and then calls Apply, so
// the swap happens while the screen is fully covered.
type Catalog struct {
	scenes  []Scene
	current int

	caption  string
	position CaptionPosition
}

// NewCatalog creates a catalog positioned on the first scene.
func NewCatalog(scenes ...Scene) (*Catalog, error) {
	if len(scenes) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{scenes: make([]Scene, 0, len(scenes))}
	for _, s := range scenes {
		c.Add(s)
	}
	return c, nil
}

// Add appends a scene and returns its index.
func (c *Catalog) Add(s Scene) int {
	s.Effects = s.Effects.Clone()
	c.scenes = append(c.scenes, s)
	return len(c.scenes) - 1
}

// Len returns the number of scenes.
func (c *Catalog) Len() int {
	return len(c.scenes)
}

// Index returns the current scene index.
func (c *Catalog) Index() int {
	return c.current
}

// Current returns the current scene.
func (c *Catalog) Current() Scene {
	return c.scenes[c.current]
}

// Scenes returns a copy of all scenes in order.
func (c *Catalog) Scenes() []Scene {
	out := make([]Scene, len(c.scenes))
	copy(out, c.scenes)
	return out
}

// ChangeTo moves the cursor to index and returns that scene. If index is
// out of range the cursor is left alone and ok is false.
func (c *Catalog) ChangeTo(index int) (s Scene, ok bool) {
	if index < 0 || index >= len(c.scenes) {
		return Scene{}, false
	}
	c.current = index
	return c.scenes[index], true
}

// Next advances the cursor, wrapping to the first scene.
func (c *Catalog) Next() (Scene, bool) {
	return c.ChangeTo((c.current + 1) % len(c.scenes))
}

// Previous moves the cursor back, wrapping to the last scene.
func (c *Catalog) Previous() (Scene, bool) {
	n := len(c.scenes)
	return c.ChangeTo((c.current - 1 + n) % n)
}

// Apply makes s's caption the one on display.
func (c *Catalog) Apply(s Scene) {
	c.caption = s.Caption
	c.position = s.Position
}

// Caption returns the applied caption text and position.
func (c *Catalog) Caption() (string, CaptionPosition) {
	return c.caption, c.position
}
