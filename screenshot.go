package glitch

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// DefaultScreenshotDir is where screenshots are written unless
// Engine.ScreenshotDir is changed.
const DefaultScreenshotDir = "screenshots"

// FrameReader is implemented by surfaces that can hand back the rendered
// frame as straight-alpha pixels.
type FrameReader interface {
	ReadFrame() *image.NRGBA
}

// ReadFrame returns a straight-alpha copy of the surface.
func (s *RasterSurface) ReadFrame() *image.NRGBA {
	w, h := s.Size()
	return unpremultiply(s.img.Pix, w, h)
}

// ReadFrame reads the target back from the GPU. It may only be called while
// the game loop is running.
func (s *EbitenSurface) ReadFrame() *image.NRGBA {
	w, h := s.Size()
	pixels := make([]byte, 4*w*h)
	if s.root != nil {
		s.root.ReadPixels(pixels)
	}
	return unpremultiply(pixels, w, h)
}

// unpremultiply converts tightly packed premultiplied RGBA to NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// Screenshot queues a labeled capture of the next rendered frame. The PNG is
// written to ScreenshotDir when the frame finishes.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

// flushScreenshots writes every queued capture of the frame just rendered.
// Surfaces that cannot be read back drop the queue.
func (e *Engine) flushScreenshots(s Surface) {
	if len(e.screenshotQueue) == 0 {
		return
	}
	defer func() { e.screenshotQueue = e.screenshotQueue[:0] }()

	fr, ok := s.(FrameReader)
	if !ok {
		e.log.Warn().Msg("screenshot: surface cannot be read back")
		return
	}
	if err := os.MkdirAll(e.ScreenshotDir, 0o755); err != nil {
		e.log.Error().Err(err).Str("dir", e.ScreenshotDir).Msg("screenshot: mkdir")
		return
	}

	img := fr.ReadFrame()
	stamp := e.now().Format("20060102_150405")
	for _, label := range e.screenshotQueue {
		path := filepath.Join(e.ScreenshotDir, fmt.Sprintf("%s_%03d_%s.png", stamp, e.shots, sanitizeLabel(label)))
		e.shots++
		if err := writePNG(path, img); err != nil {
			e.log.Error().Err(err).Msg("screenshot")
			continue
		}
		e.log.Info().Str("path", path).Msg("screenshot saved")
	}
}

// WritePNG encodes the current frame of s to path.
func WritePNG(path string, s FrameReader) error {
	return writePNG(path, s.ReadFrame())
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("glitch: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("glitch: encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel turns a screenshot label into a file name fragment. Each run
// of characters other than letters, digits, '-', '_' and '.' becomes a single
// underscore, and underscores at either end are dropped. Labels with nothing
// usable left become "unlabeled".
func sanitizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	gap := false
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			if gap && b.Len() > 0 {
				b.WriteByte('_')
			}
			gap = false
			b.WriteRune(r)
		default:
			gap = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "unlabeled"
	}
	return out
}
