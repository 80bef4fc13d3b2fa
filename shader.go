package glitch

import "github.com/hajimehoshi/ebiten/v2"

// fillShaderSrc composites interpolated vertex colors onto the target. With
// Mode 0 the (premultiplied) vertex color is returned for source-over
// blending. With Mode 1 the shader reads a copy of the destination from
// image 0 and applies the non-separable hue blend: hue of the vertex color,
// saturation and luminosity of the destination. The result is written with
// a copy blend.
const fillShaderSrc = `//kage:unit pixels
package main

var Mode float

func lum(c vec3) float {
	return dot(c, vec3(0.3, 0.59, 0.11))
}

func clipColor(c vec3) vec3 {
	l := lum(c)
	n := min(min(c.r, c.g), c.b)
	x := max(max(c.r, c.g), c.b)
	o := c
	if n < 0 {
		o = l + (o-l)*l/(l-n)
	}
	if x > 1 {
		o = l + (o-l)*(1-l)/(x-l)
	}
	return o
}

func setLum(c vec3, l float) vec3 {
	return clipColor(c + (l - lum(c)))
}

func sat(c vec3) float {
	return max(max(c.r, c.g), c.b) - min(min(c.r, c.g), c.b)
}

func setSat(c vec3, s float) vec3 {
	lo := min(min(c.r, c.g), c.b)
	hi := max(max(c.r, c.g), c.b)
	if hi <= lo {
		return vec3(0)
	}
	return (c - lo) * s / (hi - lo)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	if Mode == 0 {
		return color
	}
	b := imageSrc0At(src)
	if color.a == 0 {
		return b
	}
	cs := color.rgb / color.a
	cb := vec3(0)
	if b.a > 0 {
		cb = b.rgb / b.a
	}
	mixed := mix(cs, setLum(setSat(cs, sat(cb)), lum(cb)), b.a)
	return vec4(mixed*color.a, color.a) + b*(1-color.a)
}
`

// --- Lazy shader compilation (single-threaded frame loop, no sync.Once) ---

var fillShader *ebiten.Shader

func ensureFillShader() *ebiten.Shader {
	if fillShader == nil {
		s, err := ebiten.NewShader([]byte(fillShaderSrc))
		if err != nil {
			panic("glitch: failed to compile fill shader: " + err.Error())
		}
		fillShader = s
	}
	return fillShader
}
