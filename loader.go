package glitch

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io/fs"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
	"golang.org/x/sync/errgroup"
)

// preloadLimit caps the number of images decoded at once by Preload.
const preloadLimit = 4

// LoadResult is a finished image load. Exactly one of Image and Err is set.
type LoadResult struct {
	Source string
	Image  image.Image
	Err    error
}

// Loader decodes images from a file system on background goroutines.
// Completed loads queue up until the frame loop collects them with Poll, so
// nothing outside the loop ever touches render state.
type Loader struct {
	fsys fs.FS

	mu       sync.Mutex
	done     []LoadResult
	inflight map[string]bool
	wg       sync.WaitGroup
}

// NewLoader creates a loader reading from fsys. A nil fsys reads from the
// current working directory.
func NewLoader(fsys fs.FS) *Loader {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	return &Loader{
		fsys:     fsys,
		inflight: make(map[string]bool),
	}
}

// Load starts decoding src and returns immediately. A request for a source
// that is already being decoded is dropped; its result arrives once.
func (l *Loader) Load(src string) {
	l.mu.Lock()
	if l.inflight[src] {
		l.mu.Unlock()
		return
	}
	l.inflight[src] = true
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, err := Decode(l.fsys, src)
		l.finish(LoadResult{Source: src, Image: img, Err: err})
	}()
}

func (l *Loader) finish(r LoadResult) {
	l.mu.Lock()
	delete(l.inflight, r.Source)
	l.done = append(l.done, r)
	l.mu.Unlock()
}

// Poll returns the loads that finished since the last call, oldest first.
func (l *Loader) Poll() []LoadResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.done) == 0 {
		return nil
	}
	out := l.done
	l.done = nil
	return out
}

// Pending reports how many loads started with Load have not finished.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inflight)
}

// Wait blocks until every load started with Load has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Preload decodes every source concurrently and returns the results in the
// order given. Individual failures are reported in the results; the returned
// error is only set when ctx is cancelled.
func (l *Loader) Preload(ctx context.Context, srcs []string) ([]LoadResult, error) {
	results := make([]LoadResult, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)
	for i, src := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Decode(l.fsys, src)
			results[i] = LoadResult{Source: src, Image: img, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("glitch: preload: %w", err)
	}
	return results, nil
}

// Decode reads and decodes a single image from fsys.
func Decode(fsys fs.FS, src string) (image.Image, error) {
	f, err := fsys.Open(src)
	if err != nil {
		return nil, fmt.Errorf("glitch: open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("glitch: decode %s: %w", src, err)
	}
	return img, nil
}
