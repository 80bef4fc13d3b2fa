package glitch

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS readout is redrawn.
const fpsRefresh = 500 * time.Millisecond

// fpsWidget displays the current FPS and TPS in the top-left corner.
// The readout is redrawn into its own image about twice a second with
// ebitenutil.DebugPrint and composited every frame.
type fpsWidget struct {
	img        *ebiten.Image
	lastUpdate time.Time
}

func newFPSWidget() *fpsWidget {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsWidget{img: ebiten.NewImage(100, 32)}
}

// Draw refreshes the readout if it is stale and draws it onto screen.
func (w *fpsWidget) Draw(screen *ebiten.Image, now time.Time) {
	if now.Sub(w.lastUpdate) >= fpsRefresh {
		w.lastUpdate = now
		w.img.Clear()
		// Semi-transparent background for readability
		w.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(w.img, nil)
}

// Dispose frees the readout image.
func (w *fpsWidget) Dispose() {
	w.img.Deallocate()
}
