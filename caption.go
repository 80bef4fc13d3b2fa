package glitch

// Caption defaults.
const (
	DefaultCaptionFont    = "24px monospace"
	DefaultCaptionPadding = 50
)

// TextOverlay draws the scene caption, vertically centered on the surface.
type TextOverlay struct {
	Font    FontSpec
	Color   Color
	Padding float64
}

// NewTextOverlay returns an overlay with the default white 24px monospace
// style and 50px padding.
func NewTextOverlay() *TextOverlay {
	return &TextOverlay{
		Font:    mustParseFont(DefaultCaptionFont),
		Color:   ColorWhite,
		Padding: DefaultCaptionPadding,
	}
}

// Render draws text at pos over a w x h surface. Empty text and CaptionNone
// draw nothing.
func (o *TextOverlay) Render(s TextPainter, text string, pos CaptionPosition, w, h float64) {
	if text == "" {
		return
	}
	x, ok := o.place(s, text, pos, w)
	if !ok {
		return
	}
	s.DrawText(text, o.Font, o.Color, x, h/2)
}

// place returns the left edge for text at pos.
func (o *TextOverlay) place(s TextPainter, text string, pos CaptionPosition, w float64) (float64, bool) {
	switch pos {
	case CaptionLeft:
		return o.Padding, true
	case CaptionRight:
		return w - o.Padding - s.MeasureText(text, o.Font), true
	case CaptionCenter:
		return (w - s.MeasureText(text, o.Font)) / 2, true
	}
	return 0, false
}
