package img2glyph

import (
	"errors"
	"strings"
	"testing"
)

func TestParseGlyphDefinition(t *testing.T) {
	def := `{
		"a": [0, 0, 14, 17, 25, 21, 19, 17, 14, 0, 0, 0],
		"b": [63, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1]
	}`
	glyphs, err := ParseGlyphDefinition(strings.NewReader(def))
	if err != nil {
		t.Fatalf("ParseGlyphDefinition failed: %v", err)
	}
	if len(glyphs) != 2 {
		t.Fatalf("Expected 2 glyphs, got %d", len(glyphs))
	}

	b := glyphs['b']
	for x := 0; x < GlyphWidth; x++ {
		if b.Cell(x, 0) != 1 {
			t.Errorf("Expected row 0 column %d on", x)
		}
	}
	if b.Cell(0, 11) != 1 || b.Cell(1, 11) != 0 {
		t.Error("Bit 0 should map to the leftmost column")
	}
	if b.OnCells() != 7 {
		t.Errorf("Expected 7 on cells, got %d", b.OnCells())
	}

	a := glyphs['a']
	// 14 = 0b01110: columns 1..3
	if a.Cell(0, 2) != 0 || a.Cell(1, 2) != 1 || a.Cell(3, 2) != 1 || a.Cell(4, 2) != 0 {
		t.Errorf("Row 2 of 'a' decoded incorrectly: %06b", a[2])
	}
	if a.Cell(-1, 0) != 0 || a.Cell(GlyphWidth, 0) != 0 || a.Cell(0, GlyphHeight) != 0 {
		t.Error("Out of range cells should read as 0")
	}
}

func TestParseGlyphDefinitionSkipsNonASCII(t *testing.T) {
	def := `{"x": [1,1,1,1,1,1,1,1,1,1,1,1], "é": [1,1,1,1,1,1,1,1,1,1,1,1]}`
	glyphs, err := ParseGlyphDefinition(strings.NewReader(def))
	if err != nil {
		t.Fatalf("ParseGlyphDefinition failed: %v", err)
	}
	if _, ok := glyphs['é']; ok {
		t.Error("Non-ASCII glyph should be skipped")
	}
	if _, ok := glyphs['x']; !ok {
		t.Error("Expected glyph 'x'")
	}
}

func TestParseGlyphDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"not json", `not json`},
		{"not an object", `[1, 2, 3]`},
		{"too few rows", `{"a": [0, 0, 0]}`},
		{"too many rows", `{"a": [0,0,0,0,0,0,0,0,0,0,0,0,0]}`},
		{"negative value", `{"a": [-1,0,0,0,0,0,0,0,0,0,0,0]}`},
		{"fractional value", `{"a": [1.5,0,0,0,0,0,0,0,0,0,0,0]}`},
		{"multi-char key", `{"ab": [0,0,0,0,0,0,0,0,0,0,0,0]}`},
		{"empty key", `{"": [0,0,0,0,0,0,0,0,0,0,0,0]}`},
		{"empty object", `{}`},
		{"only non-ascii", `{"é": [0,0,0,0,0,0,0,0,0,0,0,0]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGlyphDefinition(strings.NewReader(tt.def))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedDefinition) {
				t.Errorf("Expected ErrMalformedDefinition, got %v", err)
			}
		})
	}
}

func TestParseGlyphDefinitionTruncatesWideRows(t *testing.T) {
	// 65 = 0b1000001 and 255 = 0xff: only the low GlyphWidth bits are cells.
	def := `{"x": [65,255,0,0,0,0,0,0,0,0,0,0]}`
	glyphs, err := ParseGlyphDefinition(strings.NewReader(def))
	if err != nil {
		t.Fatalf("ParseGlyphDefinition failed: %v", err)
	}
	g := glyphs['x']
	for x := 0; x < GlyphWidth; x++ {
		want := uint8(0)
		if x == 0 {
			want = 1
		}
		if got := g.Cell(x, 0); got != want {
			t.Errorf("Row 0 cell %d: expected %d, got %d", x, want, got)
		}
		if got := g.Cell(x, 1); got != 1 {
			t.Errorf("Row 1 cell %d: expected 1, got %d", x, got)
		}
	}
	if g.OnCells() != 1+GlyphWidth {
		t.Errorf("Expected %d on cells, got %d", 1+GlyphWidth, g.OnCells())
	}
}

func TestLoadGlyphs(t *testing.T) {
	glyphs := LoadGlyphs()
	if len(glyphs) != 95 {
		t.Errorf("Expected 95 printable ASCII glyphs, got %d", len(glyphs))
	}
	for c := rune(32); c <= 126; c++ {
		if _, ok := glyphs[c]; !ok {
			t.Errorf("Missing glyph for %q", c)
		}
	}

	if n := glyphs[' '].OnCells(); n != 0 {
		t.Errorf("Space should have no ink, got %d cells", n)
	}
	at := glyphs['@'].OnCells()
	for c, g := range glyphs {
		if c != '@' && g.OnCells() >= at {
			t.Errorf("%q has %d cells, expected '@' (%d) to be the unique densest", c, g.OnCells(), at)
		}
	}

	// The sixth column is spacing in every glyph.
	for c, g := range glyphs {
		for y := 0; y < GlyphHeight; y++ {
			if g.Cell(GlyphWidth-1, y) != 0 {
				t.Errorf("%q has ink in the spacing column at row %d", c, y)
			}
		}
	}
}

func TestLightness(t *testing.T) {
	var g Glyph
	if Lightness(g) != 0 {
		t.Errorf("Blank glyph should have lightness 0, got %f", Lightness(g))
	}
	for y := range g {
		g[y] = 1<<GlyphWidth - 1
	}
	if Lightness(g) != 1 {
		t.Errorf("Full glyph should have lightness 1, got %f", Lightness(g))
	}
	g = Glyph{0b111}
	if want := 3.0 / float64(GlyphWidth*GlyphHeight); Lightness(g) != want {
		t.Errorf("Expected lightness %f, got %f", want, Lightness(g))
	}
}
