package img2glyph

import (
	"math"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// CatalogEntry is one glyph of a Catalog with its normalized lightness.
type CatalogEntry struct {
	Lightness float64
	Char      rune
	Glyph     Glyph
}

// Catalog holds glyphs ordered by ascending normalized lightness for
// nearest-lightness lookup. A Catalog is immutable once built and safe for
// concurrent use.
type Catalog struct {
	entries    []CatalogEntry
	minRaw     float64
	maxRaw     float64
	degenerate bool
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog built from the compiled-in font. It is
// built on first use; later calls return the same catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog(LoadGlyphs())
	})
	return defaultCatalog
}

// NewCatalog computes the lightness of every glyph, normalizes the values
// into [0, 1] using the observed minimum and maximum, and sorts the entries
// by lightness. Equal lightness keeps character code order.
//
// When every glyph has the same lightness the normalization divides by
// zero and all entries carry NaN; Degenerate reports that case.
func NewCatalog(glyphs GlyphSet) *Catalog {
	chars := make([]rune, 0, len(glyphs))
	for c := range glyphs {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	cat := &Catalog{
		entries: make([]CatalogEntry, len(chars)),
		minRaw:  math.Inf(1),
		maxRaw:  math.Inf(-1),
	}
	for i, c := range chars {
		l := Lightness(glyphs[c])
		cat.minRaw = math.Min(cat.minRaw, l)
		cat.maxRaw = math.Max(cat.maxRaw, l)
		cat.entries[i] = CatalogEntry{Lightness: l, Char: c, Glyph: glyphs[c]}
	}

	span := cat.maxRaw - cat.minRaw
	cat.degenerate = len(chars) > 0 && span == 0
	for i := range cat.entries {
		cat.entries[i].Lightness = (cat.entries[i].Lightness - cat.minRaw) / span
	}

	sort.SliceStable(cat.entries, func(i, j int) bool {
		return cat.entries[i].Lightness < cat.entries[j].Lightness
	})

	log.WithFields(log.Fields{
		"glyphs":       len(cat.entries),
		"minLightness": cat.minRaw,
		"maxLightness": cat.maxRaw,
	}).Debug("built glyph catalog")
	return cat
}

// Len returns the number of glyphs in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in ascending lightness order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Degenerate reports whether all glyphs share one raw lightness, leaving
// normalized lightness undefined.
func (c *Catalog) Degenerate() bool {
	return c.degenerate
}

// FindNearestLightness returns the entry whose lightness is closest to
// target. An exact match returns the first entry with that lightness.
// Otherwise the neighbours around the insertion point are compared and the
// lower one wins only when strictly closer, so a target exactly halfway
// between two entries returns the higher one. Targets outside the
// catalog's range clamp to the first or last entry.
//
// FindNearestLightness panics on an empty catalog.
func (c *Catalog) FindNearestLightness(target float64) CatalogEntry {
	n := len(c.entries)
	i := sort.Search(n, func(i int) bool {
		return c.entries[i].Lightness >= target
	})
	if i < n && c.entries[i].Lightness == target {
		return c.entries[i]
	}

	switch {
	case i == 0:
		return c.entries[0]
	case i == n:
		return c.entries[n-1]
	}

	low, high := c.entries[i-1], c.entries[i]
	if math.Abs(target-low.Lightness) < math.Abs(target-high.Lightness) {
		return low
	}
	return high
}
