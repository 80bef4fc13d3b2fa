package glitch

import (
	"bytes"
	"image"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WhitePixel is a 1x1 white image used as the source for solid fills.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// EbitenSurface is a GPU Surface drawing onto an *ebiten.Image, normally the
// screen passed to ebiten.Game.Draw. Clips are implemented with SubImage.
// Gradients are rendered as vertex-colored bands along the dominant axis of
// the gradient line.
type EbitenSurface struct {
	root  *ebiten.Image
	clips []image.Rectangle
	pool  renderTexturePool

	sources map[[2]bool]*text.GoTextFaceSource
	faces   map[fontKey]*text.GoTextFace

	vertices []ebiten.Vertex
	indices  []uint16
	shaderOp ebiten.DrawTrianglesShaderOptions
	uniforms map[string]any
}

var _ Surface = (*EbitenSurface)(nil)

// NewEbitenSurface creates a surface drawing onto target. target may be nil
// until the first SetTarget.
func NewEbitenSurface(target *ebiten.Image) *EbitenSurface {
	s := &EbitenSurface{
		root:     target,
		faces:    make(map[fontKey]*text.GoTextFace),
		sources:  make(map[[2]bool]*text.GoTextFaceSource),
		uniforms: make(map[string]any, 1),
	}
	s.shaderOp.Uniforms = s.uniforms
	return s
}

// SetTarget retargets the surface, discarding any clips.
func (s *EbitenSurface) SetTarget(target *ebiten.Image) {
	s.root = target
	s.clips = s.clips[:0]
}

// Target returns the full (unclipped) target image.
func (s *EbitenSurface) Target() *ebiten.Image {
	return s.root
}

// Dispose releases pooled scratch textures.
func (s *EbitenSurface) Dispose() {
	s.pool.Dispose()
}

// Size returns the target dimensions in pixels.
func (s *EbitenSurface) Size() (int, int) {
	if s.root == nil {
		return 0, 0
	}
	b := s.root.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) clip() image.Rectangle {
	if n := len(s.clips); n > 0 {
		return s.clips[n-1]
	}
	return s.root.Bounds()
}

// target returns the root restricted to the active clip. Coordinates on the
// returned image are the same as on the root.
func (s *EbitenSurface) target() *ebiten.Image {
	if len(s.clips) == 0 {
		return s.root
	}
	return s.root.SubImage(s.clip()).(*ebiten.Image)
}

// PushClip intersects the active clip with r.
func (s *EbitenSurface) PushClip(r Rect) {
	s.clips = append(s.clips, s.clip().Intersect(pixelRect(r)))
}

// PopClip restores the previous clip. Extra pops are ignored.
func (s *EbitenSurface) PopClip() {
	if n := len(s.clips); n > 0 {
		s.clips = s.clips[:n-1]
	}
}

// Clear sets the clipped region to transparent black.
func (s *EbitenSurface) Clear() {
	if s.clip().Empty() {
		return
	}
	s.target().Clear()
}

// FillRect paints r with the brush in the given blend mode.
func (s *EbitenSurface) FillRect(r Rect, b Brush, mode BlendMode) {
	area := pixelRect(r).Intersect(s.clip())
	if area.Empty() {
		return
	}
	if c, ok := b.(Color); ok && mode == BlendNormal {
		s.fillSolid(area, c)
		return
	}

	bands := gradientBands(area, b)
	if len(bands) == 0 {
		return
	}
	s.buildBandVertices(bands, area)

	s.shaderOp.Blend = mode.EbitenBlend()
	s.shaderOp.Images[0] = nil
	s.uniforms["Mode"] = float32(0)

	var backdrop *ebiten.Image
	if mode == BlendHue {
		backdrop = s.pool.Acquire(area.Dx(), area.Dy())
		sub := backdrop.SubImage(image.Rect(0, 0, area.Dx(), area.Dy())).(*ebiten.Image)
		var op ebiten.DrawImageOptions
		op.Blend = ebiten.BlendCopy
		sub.DrawImage(s.root.SubImage(area).(*ebiten.Image), &op)
		s.shaderOp.Images[0] = sub
		s.uniforms["Mode"] = float32(1)
	}

	s.target().DrawTrianglesShader(s.vertices, s.indices, ensureFillShader(), &s.shaderOp)

	if backdrop != nil {
		s.shaderOp.Images[0] = nil
		s.pool.Release(backdrop)
	}
}

func (s *EbitenSurface) fillSolid(area image.Rectangle, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(area.Dx()), float64(area.Dy()))
	op.GeoM.Translate(float64(area.Min.X), float64(area.Min.Y))
	op.ColorScale.ScaleWithColor(c.toRGBA())
	s.target().DrawImage(WhitePixel, &op)
}

// buildBandVertices fills the vertex and index buffers with one quad per
// band. Source coordinates address the destination copy, which starts at
// the area's top-left.
func (s *EbitenSurface) buildBandVertices(bands []band, area image.Rectangle) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	ox, oy := float32(area.Min.X), float32(area.Min.Y)

	for _, bd := range bands {
		c0, c1 := bd.c0.toRGBA(), bd.c1.toRGBA()
		corners := [4]struct {
			x, y float64
			c    colorRGBA
		}{
			{bd.x0, bd.y0, c0},
			{bd.x1, bd.y0, c0},
			{bd.x0, bd.y1, c1},
			{bd.x1, bd.y1, c1},
		}
		if !bd.vertical {
			corners[1].c, corners[2].c = c1, c0
		}
		base := uint16(len(s.vertices))
		for _, p := range corners {
			s.vertices = append(s.vertices, ebiten.Vertex{
				DstX:   float32(p.x),
				DstY:   float32(p.y),
				SrcX:   float32(p.x) - ox,
				SrcY:   float32(p.y) - oy,
				ColorR: float32(p.c.R) / 255,
				ColorG: float32(p.c.G) / 255,
				ColorB: float32(p.c.B) / 255,
				ColorA: float32(p.c.A) / 255,
			})
		}
		s.indices = append(s.indices, base, base+1, base+2, base+1, base+3, base+2)
	}
}

// band is a strip of a fill across which color changes linearly from c0 to
// c1. vertical bands change color top to bottom, otherwise left to right.
type band struct {
	x0, y0, x1, y1 float64
	c0, c1         Color
	vertical       bool
}

// gradientBands splits area into strips so that linear interpolation of the
// strip end colors reproduces the brush exactly along the dominant axis.
func gradientBands(area image.Rectangle, b Brush) []band {
	x0, y0 := float64(area.Min.X), float64(area.Min.Y)
	x1, y1 := float64(area.Max.X), float64(area.Max.Y)

	switch br := b.(type) {
	case Color:
		return []band{{x0, y0, x1, y1, br, br, true}}
	case *LinearGradient:
		if len(br.Stops) == 0 {
			return nil
		}
		vertical := math.Abs(br.Y1-br.Y0) >= math.Abs(br.X1-br.X0)
		lo, hi := x0, x1
		axisStart, axisEnd := br.X0, br.X1
		if vertical {
			lo, hi = y0, y1
			axisStart, axisEnd = br.Y0, br.Y1
		}

		cuts := []float64{lo, hi}
		for _, st := range br.Stops {
			p := axisStart + st.Offset*(axisEnd-axisStart)
			if p > lo && p < hi {
				cuts = append(cuts, p)
			}
		}
		sort.Float64s(cuts)

		colorAt := func(p float64) Color {
			if vertical {
				return br.ColorAt((br.X0+br.X1)/2, p)
			}
			return br.ColorAt(p, (br.Y0+br.Y1)/2)
		}

		bands := make([]band, 0, len(cuts)-1)
		for i := 1; i < len(cuts); i++ {
			a, z := cuts[i-1], cuts[i]
			if z <= a {
				continue
			}
			bd := band{c0: colorAt(a), c1: colorAt(z), vertical: vertical}
			if vertical {
				bd.x0, bd.x1, bd.y0, bd.y1 = x0, x1, a, z
			} else {
				bd.x0, bd.x1, bd.y0, bd.y1 = a, z, y0, y1
			}
			bands = append(bands, bd)
		}
		return bands
	}
	return nil
}

// DrawImage draws the src region of img into dst, scaling linearly.
func (s *EbitenSurface) DrawImage(img Image, src, dst Rect) {
	ei, ok := img.(*ebiten.Image)
	if !ok || src.Empty() || dst.Empty() {
		return
	}
	req := pixelRect(src).Add(ei.Bounds().Min)
	sr := req.Intersect(ei.Bounds())
	if sr.Empty() || req.Empty() {
		return
	}
	sub := ei.SubImage(sr).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	sx, sy := dst.Width/float64(req.Dx()), dst.Height/float64(req.Dy())
	if sx != 1 || sy != 1 {
		op.GeoM.Scale(sx, sy)
		op.Filter = ebiten.FilterLinear
	}
	op.GeoM.Translate(
		dst.X+float64(sr.Min.X-req.Min.X)*sx,
		dst.Y+float64(sr.Min.Y-req.Min.Y)*sy,
	)
	s.target().DrawImage(sub, &op)
}

// MeasureText returns the advance width of text in pixels.
func (s *EbitenSurface) MeasureText(str string, f FontSpec) float64 {
	return text.Advance(str, s.face(f))
}

// DrawText draws str with its baseline at y.
func (s *EbitenSurface) DrawText(str string, f FontSpec, c Color, x, y float64) {
	if str == "" || c.A <= 0 {
		return
	}
	face := s.face(f)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(c.toRGBA())
	text.Draw(s.target(), str, face, op)
}

func (s *EbitenSurface) face(f FontSpec) *text.GoTextFace {
	k := keyFor(f)
	if face, ok := s.faces[k]; ok {
		return face
	}
	sk := [2]bool{k.mono, k.bold}
	src, ok := s.sources[sk]
	if !ok {
		var err error
		src, err = text.NewGoTextFaceSource(bytes.NewReader(fontData(f)))
		if err != nil {
			panic("glitch: failed to parse bundled font: " + err.Error())
		}
		s.sources[sk] = src
	}
	face := &text.GoTextFace{Source: src, Size: f.Size}
	s.faces[k] = face
	return face
}

// NewImage allocates an offscreen image.
func (s *EbitenSurface) NewImage(w, h int) Image {
	return ebiten.NewImage(w, h)
}

// Snapshot copies the whole target, ignoring clips, into dst.
func (s *EbitenSurface) Snapshot(dst Image) {
	d, ok := dst.(*ebiten.Image)
	if !ok || s.root == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.Blend = ebiten.BlendCopy
	d.Clear()
	d.DrawImage(s.root, &op)
}

// Import uploads a decoded image to the GPU.
func (s *EbitenSurface) Import(img image.Image) Image {
	return ebiten.NewImageFromImage(img)
}
