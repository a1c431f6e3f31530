package img2glyph

import "math"

// maxHue is the largest hue an HSL value may carry. Hue is conceptually in
// [0, 360) so the upper bound sits just below 360.
const maxHue = 360.0 - 1e-9

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255.
type RGB struct {
	R, G, B uint8
}

// NewRGB builds an RGB color from raw channel bytes.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// HSL converts the color with RGBToHSL.
func (c RGB) HSL() HSL {
	return RGBToHSL(c)
}

// HSL is the hue/saturation/lightness model used for block matching.
//
// Lightness here is max(r,g,b)/255 and saturation is (max-min)/max, which
// is the hexcone model rather than textbook HSL. Glyph selection and the
// ink colors are calibrated against this model, so it must not be swapped
// for the (max+min)/2 formula.
type HSL struct {
	H float64 // degrees, [0, 360)
	S float64 // [0, 1]
	L float64 // [0, 1]
}

// NewHSL clamps h into [0, 360) and s, l into [0, 1].
func NewHSL(h, s, l float64) HSL {
	return HSL{
		H: math.Min(math.Max(h, 0), maxHue),
		S: math.Min(math.Max(s, 0), 1),
		L: math.Min(math.Max(l, 0), 1),
	}
}

// RGB converts the color with HSLToRGB.
func (c HSL) RGB() RGB {
	return HSLToRGB(c)
}

// RGBToHSL converts an 8-bit RGB color to HSL. Gray colors (r == g == b)
// have hue 0, black has saturation 0.
//
// The intermediate products are wrapped in float64 conversions so the
// compiler cannot fuse them into FMA instructions; results stay bit
// identical across architectures.
func RGBToHSL(c RGB) HSL {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	max := math.Max(math.Max(r, g), b)
	min := math.Min(math.Min(r, g), b)

	var h float64
	switch {
	case r == g && g == b:
		h = 0
	case r >= g && r >= b:
		h = float64(60 * ((g - b) / (max - min)))
	case g >= r && g >= b:
		h = float64(60*((b-r)/(max-min))) + 120
	default:
		h = float64(60*((r-g)/(max-min))) + 240
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max != 0 {
		s = (max - min) / max
	}
	return HSL{H: h, S: s, L: max / 255}
}

// HSLToRGB converts an HSL color back to 8-bit RGB. Each channel is a
// piecewise linear ramp between min = l*(1-s) and max = l across 60 degree
// sectors; the result is scaled to [0, 255] and truncated.
func HSLToRGB(c HSL) RGB {
	h, s, l := c.H, c.S, c.L
	max := l
	min := float64(l * (1 - s))

	var r, g, b float64
	if max == min {
		r, g, b = max, max, max
	} else {
		if h < 180 {
			r = ramp(h-60, (min-max)/60, max)
		} else {
			r = ramp(h-240, (max-min)/60, min)
		}
		if h < 120 {
			g = ramp(h-0, (max-min)/60, min)
		} else {
			g = ramp(h-180, (min-max)/60, max)
		}
		if h < 240 {
			b = ramp(h-120, (max-min)/60, min)
		} else {
			b = ramp(h-300, (min-max)/60, max)
		}
		r = clampFloat(r, min, max)
		g = clampFloat(g, min, max)
		b = clampFloat(b, min, max)
	}

	return RGB{
		R: uint8(float64(r * 255)),
		G: uint8(float64(g * 255)),
		B: uint8(float64(b * 255)),
	}
}

// ramp evaluates dh*slope + offset without multiply-add fusion.
func ramp(dh, slope, offset float64) float64 {
	return float64(dh*slope) + offset
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
