package glitch

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Index  int    `json:"index,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// script is the top-level JSON structure of a script file.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays navigation, pauses and screenshots across frames for
// automated visual runs. Attach to an Engine with SetScript.
//
// Supported actions: next, previous, goto (index), pause, wait (frames),
// settle, screenshot (label) and stop. "settle" waits until no transition is
// running.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script and returns a runner ready to be attached
// with Engine.SetScript.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("glitch: parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("glitch: parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "next", "previous", "goto", "pause", "wait", "settle", "screenshot", "stop":
		default:
			return nil, fmt.Errorf("glitch: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches a runner. It advances one step per Update.
func (e *Engine) SetScript(r *ScriptRunner) {
	e.script = r
}

// Update runs per-tick work that is not rendering: the attached script.
func (e *Engine) Update() {
	if e.script != nil {
		e.script.step(e)
	}
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	if st.Action == "settle" && e.transition.Active() {
		return
	}
	r.cursor++

	switch st.Action {
	case "next":
		e.GoToNext()
	case "previous":
		e.GoToPrevious()
	case "goto":
		e.GoTo(st.Index)
	case "pause":
		e.TogglePause()
	case "screenshot":
		e.Screenshot(st.Label)
	case "stop":
		e.Stop()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
