package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sort"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"github.com/submersibletoaster/pixfont"
	"github.com/wbrown/img2glyph"
	"golang.org/x/image/font"
)

// bodyWidth is the drawable part of a cell; the last column is spacing.
const bodyWidth = img2glyph.GlyphWidth - 1

// renderer draws one character into a glyph cell.
type renderer interface {
	Render(r rune) img2glyph.Glyph
}

// ttfRenderer rasterises TrueType glyphs with freetype.
type ttfRenderer struct {
	font      *truetype.Font
	size      float64
	threshold uint8
	baselineY int
}

// loadFont loads a TrueType font from file
func loadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return freetype.ParseFont(fontBytes)
}

func newTTFRenderer(f *truetype.Font, size float64, threshold uint8) *ttfRenderer {
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	// Center the ascent/descent span vertically in the cell.
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	baselineY := (img2glyph.GlyphHeight-ascent-descent)/2 + ascent

	return &ttfRenderer{font: f, size: size, threshold: threshold, baselineY: baselineY}
}

// Render draws r and thresholds the anti-aliased coverage.
func (t *ttfRenderer) Render(r rune) img2glyph.Glyph {
	img := image.NewAlpha(image.Rect(0, 0, bodyWidth, img2glyph.GlyphHeight))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(t.font)
	ctx.SetFontSize(t.size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)
	if _, err := ctx.DrawString(string(r), freetype.Pt(0, t.baselineY)); err != nil {
		log.WithError(err).WithField("char", string(r)).Warn("failed to draw glyph")
	}

	return bitmapToGlyph(img, func(x, y int) bool {
		return img.AlphaAt(x, y).A > t.threshold
	})
}

// pixRenderer draws glyphs from a pixfont bitmap font.
type pixRenderer struct {
	font    *pixfont.PixFont
	offsetY int
}

func newPixRenderer(f *pixfont.PixFont) *pixRenderer {
	return &pixRenderer{
		font:    f,
		offsetY: max((img2glyph.GlyphHeight-f.GetHeight())/2, 0),
	}
}

// Render draws r left-aligned; glyphs wider than the cell body are clipped.
func (p *pixRenderer) Render(r rune) img2glyph.Glyph {
	img := image.NewAlpha(image.Rect(0, 0, bodyWidth, img2glyph.GlyphHeight))
	if ok, _ := p.font.MeasureRune(r); !ok {
		return img2glyph.Glyph{}
	}
	p.font.DrawRune(img, 0, p.offsetY, r, color.White)

	return bitmapToGlyph(img, func(x, y int) bool {
		return img.AlphaAt(x, y).A != 0
	})
}

// bitmapToGlyph packs on(x, y) over the cell body into row bitmasks,
// bit x of each row being column x.
func bitmapToGlyph(img image.Image, on func(x, y int) bool) img2glyph.Glyph {
	var g img2glyph.Glyph
	b := img.Bounds()
	for y := 0; y < img2glyph.GlyphHeight && y < b.Dy(); y++ {
		for x := 0; x < bodyWidth && x < b.Dx(); x++ {
			if on(b.Min.X+x, b.Min.Y+y) {
				g[y] |= 1 << uint(x)
			}
		}
	}
	return g
}

// computeGlyphs renders every character in chars.
func computeGlyphs(rend renderer, chars []rune) img2glyph.GlyphSet {
	glyphs := make(img2glyph.GlyphSet, len(chars))
	for _, r := range chars {
		glyphs[r] = rend.Render(r)
	}
	return glyphs
}

// printableASCII returns the characters the converter can use.
func printableASCII() []rune {
	chars := make([]rune, 0, 95)
	for r := rune(32); r <= 126; r++ {
		chars = append(chars, r)
	}
	return chars
}

// writeDefinition writes glyphs as a definition that
// img2glyph.ParseGlyphDefinition reads: one character per line, sorted.
func writeDefinition(w io.Writer, glyphs img2glyph.GlyphSet) error {
	chars := make([]rune, 0, len(glyphs))
	for r := range glyphs {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, r := range chars {
		key, err := json.Marshal(string(r))
		if err != nil {
			return err
		}
		rows, err := json.Marshal(glyphRows(glyphs[r]))
		if err != nil {
			return err
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(bytes.ReplaceAll(rows, []byte(","), []byte(", ")))
		if i < len(chars)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func glyphRows(g img2glyph.Glyph) []int {
	rows := make([]int, len(g))
	for i, v := range g {
		rows[i] = int(v)
	}
	return rows
}

// verifyDefinition re-parses a written definition and summarises the
// catalog it yields.
func verifyDefinition(data []byte) error {
	glyphs, err := img2glyph.ParseGlyphDefinition(bytes.NewReader(data))
	if err != nil {
		return err
	}
	cat := img2glyph.NewCatalog(glyphs)
	if cat.Degenerate() {
		return fmt.Errorf("all %d glyphs have the same lightness", cat.Len())
	}
	entries := cat.Entries()
	log.WithFields(log.Fields{
		"glyphs":   cat.Len(),
		"darkest":  string(entries[0].Char),
		"lightest": string(entries[len(entries)-1].Char),
	}).Info("definition verified")
	return nil
}

func main() {
	fontPath := flag.String("font", "", "Path to a TrueType font")
	usePixfont := flag.Bool("pixfont", false, "Use the built-in pixfont bitmap font instead of -font")
	size := flag.Float64("size", float64(img2glyph.GlyphHeight)-2, "Font size in points (72 DPI)")
	threshold := flag.Int("threshold", 64, "Alpha threshold (0-255) for an ink cell")
	output := flag.String("output", "", "Output JSON path (default: stdout)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	var rend renderer
	switch {
	case *usePixfont:
		rend = newPixRenderer(pixfont.DefaultFont)
	case *fontPath != "":
		f, err := loadFont(*fontPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load font")
		}
		if *threshold < 0 || *threshold > 255 {
			log.Fatalf("threshold %d out of range", *threshold)
		}
		rend = newTTFRenderer(f, *size, uint8(*threshold))
	default:
		fmt.Println("Usage: compute_glyphs -font <font.ttf> | -pixfont [-output glyphs.json]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	glyphs := computeGlyphs(rend, printableASCII())

	var buf bytes.Buffer
	if err := writeDefinition(&buf, glyphs); err != nil {
		log.WithError(err).Fatal("failed to encode definition")
	}
	if err := verifyDefinition(buf.Bytes()); err != nil {
		log.WithError(err).Fatal("generated definition is unusable")
	}

	if *output == "" {
		os.Stdout.Write(buf.Bytes())
		return
	}
	if err := os.WriteFile(*output, buf.Bytes(), 0644); err != nil {
		log.WithError(err).Fatal("failed to write definition")
	}
	log.WithField("output", *output).Info("glyph definition written")
}
