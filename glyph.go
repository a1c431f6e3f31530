package img2glyph

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/steakknife/hamming"
)

const (
	// GlyphWidth and GlyphHeight define the character cell size of the
	// compiled-in font. Glyph bodies are 5 pixels wide; the sixth column
	// is spacing.
	GlyphWidth  = 6
	GlyphHeight = 12

	glyphCells = GlyphWidth * GlyphHeight
)

// The compiled-in glyph definition. To use another font, generate a
// definition with cmd/compute_glyphs and pass it to ParseGlyphDefinition.
//
//go:embed fontdata/monogram.json
var monogramJSON []byte

// Glyph is a monochrome character cell stored as one bitmask per row.
// Bit x of row y is the cell at column x: 1 = ink, 0 = background.
type Glyph [GlyphHeight]uint8

// blank is the all-off glyph used as the reference for counting ink cells.
var blank Glyph

// Cell returns the cell value (0 or 1) at (x, y). Out of range cells are 0.
func (g Glyph) Cell(x, y int) uint8 {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return 0
	}
	return (g[y] >> uint(x)) & 1
}

// setCell sets the cell at (x, y).
func (g *Glyph) setCell(x, y int, on bool) {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return
	}
	if on {
		g[y] |= 1 << uint(x)
	} else {
		g[y] &^= 1 << uint(x)
	}
}

// OnCells counts the ink cells of the glyph.
func (g Glyph) OnCells() int {
	return hamming.Uint8s(g[:], blank[:])
}

// Lightness is the fraction of ink cells over the whole cell.
func Lightness(g Glyph) float64 {
	return float64(g.OnCells()) / glyphCells
}

// GlyphSet maps characters to their glyphs.
type GlyphSet map[rune]Glyph

// ParseGlyphDefinition reads a glyph definition: a JSON object whose keys
// are single characters and whose values are GlyphHeight non-negative
// row bitmasks. The low GlyphWidth bits of a row are its cells; higher
// bits are ignored. Non-ASCII characters are skipped. Any other deviation is reported as ErrMalformedDefinition.
func ParseGlyphDefinition(r io.Reader) (GlyphSet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string][]json.Number
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDefinition, err)
	}

	glyphs := make(GlyphSet, len(raw))
	for key, rows := range raw {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("%w: key %q is not a single character",
				ErrMalformedDefinition, key)
		}
		c, _ := utf8.DecodeRuneInString(key)
		if c >= utf8.RuneSelf {
			continue
		}
		if len(rows) != GlyphHeight {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d",
				ErrMalformedDefinition, key, len(rows), GlyphHeight)
		}

		var g Glyph
		for y, n := range rows {
			v, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("%w: %q row %d: %v",
					ErrMalformedDefinition, key, y, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: %q row %d value %d is negative",
					ErrMalformedDefinition, key, y, v)
			}
			for x := 0; x < GlyphWidth; x++ {
				g.setCell(x, y, v&(1<<uint(x)) != 0)
			}
		}
		glyphs[c] = g
	}

	if len(glyphs) == 0 {
		return nil, fmt.Errorf("%w: no ASCII glyphs", ErrMalformedDefinition)
	}
	return glyphs, nil
}

// LoadGlyphs parses the compiled-in glyph definition. A broken embedded
// definition leaves nothing to convert with, so it panics.
func LoadGlyphs() GlyphSet {
	glyphs, err := ParseGlyphDefinition(bytes.NewReader(monogramJSON))
	if err != nil {
		panic(fmt.Sprintf("img2glyph: embedded font: %v", err))
	}
	return glyphs
}
