package glitch

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// RasterSurface is a CPU Surface backed by an *image.RGBA (premultiplied).
// It renders frames headlessly and gives tests exact pixel access.
type RasterSurface struct {
	img   *image.RGBA
	clips []image.Rectangle
	faces map[fontKey]font.Face
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface creates a transparent surface of the given size.
func NewRasterSurface(w, h int) *RasterSurface {
	return &RasterSurface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		faces: make(map[fontKey]font.Face),
	}
}

// Image returns the backing image. The engine may overwrite it on the next
// frame; copy it to keep a frame.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

// Size returns the surface dimensions in pixels.
func (s *RasterSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image. Contents and clips are discarded.
func (s *RasterSurface) Resize(w, h int) {
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.clips = s.clips[:0]
}

// clip returns the active clip rectangle in pixels.
func (s *RasterSurface) clip() image.Rectangle {
	if n := len(s.clips); n > 0 {
		return s.clips[n-1]
	}
	return s.img.Bounds()
}

// target returns the backing image restricted to the active clip.
func (s *RasterSurface) target() *image.RGBA {
	return s.img.SubImage(s.clip()).(*image.RGBA)
}

// PushClip intersects the active clip with r.
func (s *RasterSurface) PushClip(r Rect) {
	s.clips = append(s.clips, s.clip().Intersect(pixelRect(r)))
}

// PopClip restores the previous clip. Extra pops are ignored.
func (s *RasterSurface) PopClip() {
	if n := len(s.clips); n > 0 {
		s.clips = s.clips[:n-1]
	}
}

// Clear sets every pixel inside the active clip to transparent black.
func (s *RasterSurface) Clear() {
	c := s.clip()
	for y := c.Min.Y; y < c.Max.Y; y++ {
		row := s.img.Pix[s.img.PixOffset(c.Min.X, y):s.img.PixOffset(c.Max.X, y)]
		clear(row)
	}
}

// FillRect paints r with the brush. Pixels are sampled at their centers.
func (s *RasterSurface) FillRect(r Rect, b Brush, mode BlendMode) {
	area := pixelRect(r).Intersect(s.clip())
	if area.Empty() {
		return
	}
	solid, isSolid := b.(Color)
	grad, _ := b.(*LinearGradient)
	if !isSolid && grad == nil {
		return
	}

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			src := solid
			if !isSolid {
				src = grad.ColorAt(float64(x)+0.5, float64(y)+0.5)
			}
			if src.A <= 0 {
				continue
			}
			i := s.img.PixOffset(x, y)
			px := s.img.Pix[i : i+4 : i+4]
			switch mode {
			case BlendHue:
				blendHuePixel(px, src)
			default:
				blendOverPixel(px, src)
			}
		}
	}
}

// blendOverPixel composites a straight-alpha color over a premultiplied pixel.
func blendOverPixel(px []uint8, c Color) {
	sa := clamp01(c.A)
	inv := 1 - sa
	px[0] = uint8(clamp01(c.R*sa+float64(px[0])/255*inv)*255 + 0.5)
	px[1] = uint8(clamp01(c.G*sa+float64(px[1])/255*inv)*255 + 0.5)
	px[2] = uint8(clamp01(c.B*sa+float64(px[2])/255*inv)*255 + 0.5)
	px[3] = uint8(clamp01(sa+float64(px[3])/255*inv)*255 + 0.5)
}

// blendHuePixel composites c onto a premultiplied pixel in hue mode. The
// blended color is mixed with c by the backdrop alpha, so the fill shows
// through unchanged where the backdrop is empty, and the mix is then laid
// over the pixel source-over.
func blendHuePixel(px []uint8, c Color) {
	ab := float64(px[3]) / 255
	var base Color
	if ab > 0 {
		base = Color{
			R: float64(px[0]) / 255 / ab,
			G: float64(px[1]) / 255 / ab,
			B: float64(px[2]) / 255 / ab,
		}
	}
	mixed := hueBlend(base, c)
	blendOverPixel(px, Color{
		R: (1-ab)*c.R + ab*mixed.R,
		G: (1-ab)*c.G + ab*mixed.G,
		B: (1-ab)*c.B + ab*mixed.B,
		A: c.A,
	})
}

// DrawImage draws the src region of img into the dst rectangle, scaling with
// bilinear filtering when the sizes differ.
func (s *RasterSurface) DrawImage(img Image, src, dst Rect) {
	m, ok := img.(image.Image)
	if !ok {
		return
	}
	req := pixelRect(src).Add(img.Bounds().Min)
	dr := pixelRect(dst)
	sr := req.Intersect(img.Bounds())
	if sr.Empty() || dr.Empty() || req.Empty() {
		return
	}
	t := s.target()
	if req.Size() == dr.Size() {
		// Source regions hanging off the image shrink the destination too.
		dr.Min = dr.Min.Add(sr.Min.Sub(req.Min))
		dr.Max = dr.Min.Add(sr.Size())
		draw.Draw(t, dr, m, sr.Min, draw.Over)
		return
	}
	draw.ApproxBiLinear.Scale(t, dr, m, sr, draw.Over, nil)
}

// MeasureText returns the advance width of text in pixels.
func (s *RasterSurface) MeasureText(text string, f FontSpec) float64 {
	adv := font.MeasureString(s.face(f), text)
	return float64(adv) / 64
}

// DrawText draws text with its baseline at y.
func (s *RasterSurface) DrawText(text string, f FontSpec, c Color, x, y float64) {
	if text == "" || c.A <= 0 {
		return
	}
	d := font.Drawer{
		Dst:  s.target(),
		Src:  image.NewUniform(c.toRGBA()),
		Face: s.face(f),
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
	}
	d.DrawString(text)
}

func (s *RasterSurface) face(f FontSpec) font.Face {
	k := keyFor(f)
	if face, ok := s.faces[k]; ok {
		return face
	}
	var face font.Face = basicfont.Face7x13
	if fnt, err := opentype.Parse(fontData(f)); err == nil {
		if sized, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    f.Size,
			DPI:     72,
			Hinting: font.HintingFull,
		}); err == nil {
			face = sized
		}
	}
	s.faces[k] = face
	return face
}

// NewImage allocates a transparent *image.RGBA.
func (s *RasterSurface) NewImage(w, h int) Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Snapshot copies the whole surface, ignoring clips, into dst.
func (s *RasterSurface) Snapshot(dst Image) {
	d, ok := dst.(*image.RGBA)
	if !ok {
		return
	}
	if d.Bounds() == s.img.Bounds() && len(d.Pix) == len(s.img.Pix) {
		copy(d.Pix, s.img.Pix)
		return
	}
	draw.Draw(d, d.Bounds(), s.img, s.img.Bounds().Min, draw.Src)
}

// Import converts a decoded image into an *image.RGBA anchored at the origin.
func (s *RasterSurface) Import(img image.Image) Image {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// pixelRect rounds a floating-point rectangle to whole pixels. The origin
// and the size are rounded separately so a shifted blit keeps its size.
func pixelRect(r Rect) image.Rectangle {
	x := int(math.Round(r.X))
	y := int(math.Round(r.Y))
	return image.Rect(x, y, x+int(math.Round(r.Width)), y+int(math.Round(r.Height)))
}
