package glitch

import (
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontData maps a font family onto one of the bundled Go fonts. Monospace
// families resolve to Go Mono, everything else to Go Regular.
func fontData(f FontSpec) []byte {
	mono := isMonospace(f.Family)
	switch {
	case mono && f.Bold:
		return gomonobold.TTF
	case mono:
		return gomono.TTF
	case f.Bold:
		return gobold.TTF
	default:
		return goregular.TTF
	}
}

func isMonospace(family string) bool {
	family = strings.ToLower(family)
	return strings.Contains(family, "mono") || strings.Contains(family, "courier")
}

// fontKey identifies a sized face in backend caches.
type fontKey struct {
	mono, bold bool
	size       float64
}

func keyFor(f FontSpec) fontKey {
	return fontKey{mono: isMonospace(f.Family), bold: f.Bold, size: f.Size}
}
