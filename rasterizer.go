package img2glyph

import "fmt"

const blockPixels = GlyphWidth * GlyphHeight

// Rasterize converts a width x height RGBA buffer into a glyph-art buffer
// of the same size. The source is tiled into GlyphWidth x GlyphHeight
// blocks in row-major order; each block is replaced by the glyph whose
// lightness is nearest to the block's mean lightness, inked with the
// block's mean hue and saturation at full lightness. Background cells are
// black and every output pixel is opaque.
//
// width and height must be multiples of the glyph cell size and src must
// hold exactly width*height*4 bytes. src is not modified.
func (c *Catalog) Rasterize(src []byte, width, height int) ([]byte, error) {
	if width < 0 || height < 0 || len(src) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d",
			ErrBufferSize, len(src), width, height)
	}
	if width%GlyphWidth != 0 || height%GlyphHeight != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a multiple of %dx%d",
			ErrMisaligned, width, height, GlyphWidth, GlyphHeight)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrMalformedDefinition)
	}

	dst := make([]byte, len(src))
	for y := 0; y < height; y += GlyphHeight {
		for x := 0; x < width; x += GlyphWidth {
			mean := meanHSL(src, x, y, width)
			entry := c.FindNearestLightness(mean.L)

			ink := mean
			ink.L = 1
			drawGlyph(dst, entry.Glyph, x, y, width, HSLToRGB(ink))
		}
	}
	return dst, nil
}

// meanHSL averages H, S and L independently over the block at (sx, sy).
// Hue is averaged arithmetically, not on the circle.
func meanHSL(src []byte, sx, sy, width int) HSL {
	var h, s, l float64
	for dy := 0; dy < GlyphHeight; dy++ {
		row := ((sy+dy)*width + sx) * 4
		for dx := 0; dx < GlyphWidth; dx++ {
			i := row + dx*4
			hsl := RGBToHSL(RGB{R: src[i], G: src[i+1], B: src[i+2]})
			h += hsl.H
			s += hsl.S
			l += hsl.L
		}
	}
	return NewHSL(h/blockPixels, s/blockPixels, l/blockPixels)
}

// drawGlyph writes glyph g at (sx, sy): ink cells take the ink color,
// background cells are black, alpha is always 255.
func drawGlyph(dst []byte, g Glyph, sx, sy, width int, ink RGB) {
	for dy := 0; dy < GlyphHeight; dy++ {
		row := ((sy+dy)*width + sx) * 4
		for dx := 0; dx < GlyphWidth; dx++ {
			i := row + dx*4
			cell := g.Cell(dx, dy)
			dst[i] = cell * ink.R
			dst[i+1] = cell * ink.G
			dst[i+2] = cell * ink.B
			dst[i+3] = 255
		}
	}
}
