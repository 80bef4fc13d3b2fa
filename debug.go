package glitch

import "time"

// frameStats holds per-frame phase timings.
type frameStats struct {
	bindTime       time.Duration
	imageTime      time.Duration
	effectsTime    time.Duration
	captionTime    time.Duration
	transitionTime time.Duration

	frames int
	worst  time.Duration
}

func (st frameStats) total() time.Duration {
	return st.bindTime + st.imageTime + st.effectsTime + st.captionTime + st.transitionTime
}

// record folds one frame into the running totals.
func (st *frameStats) record(f frameStats) {
	frames, worst := st.frames+1, max(st.worst, f.total())
	*st = f
	st.frames = frames
	st.worst = worst
}

// Frames returns how many frames have been fully rendered.
func (e *Engine) Frames() int {
	return e.stats.frames
}

// debugLog writes the phase timings of a frame at debug level. Only active
// when the engine was created with Debug set.
func (e *Engine) debugLog(st frameStats) {
	if !e.debug {
		return
	}
	e.log.Debug().
		Int("frame", e.stats.frames).
		Dur("bind", st.bindTime).
		Dur("image", st.imageTime).
		Dur("effects", st.effectsTime).
		Dur("caption", st.captionTime).
		Dur("transition", st.transitionTime).
		Dur("total", st.total()).
		Dur("worst", e.stats.worst).
		Str("phase", e.transition.Phase().String()).
		Msg("frame")
}
