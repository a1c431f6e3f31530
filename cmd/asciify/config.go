package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/imageutil"
)

// Config holds every conversion setting. Values come from defaultConfig,
// then an optional TOML file, then explicitly set flags.
type Config struct {
	MaxDim        int                   `toml:"max_dim"`
	Interpolation string                `toml:"interpolation"`
	Sharpen       bool                  `toml:"sharpen"`
	Blur          bool                  `toml:"blur"`
	Scale         int                   `toml:"scale"`
	FontDef       string                `toml:"font_def"`
	Codec         string                `toml:"codec"`
	Preview       bool                  `toml:"preview"`
	Adjust        imageutil.Adjustments `toml:"adjust"`
}

// sizePresets are the named output caps offered alongside plain numbers.
var sizePresets = map[string]int{
	"small":  50,
	"medium": 100,
	"large":  200,
	"xlarge": 400,
}

func defaultConfig() *Config {
	return &Config{
		MaxDim:        img2glyph.DefaultMaxDim,
		Interpolation: imageutil.InterpolationArea.String(),
		Scale:         1,
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// parseMaxDim accepts a positive pixel count or a preset name.
func parseMaxDim(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, ok := sizePresets[s]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid max size %q: want a positive number or one of small, medium, large, xlarge", s)
	}
	return v, nil
}

// Validate checks the settings that flags and TOML cannot type-check.
func (c *Config) Validate() error {
	if c.MaxDim <= 0 {
		return fmt.Errorf("max_dim must be positive, got %d", c.MaxDim)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", c.Scale)
	}
	if _, err := imageutil.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}
	return nil
}

// NewConverter builds the library converter the config describes, loading
// a custom glyph definition when FontDef is set.
func (c *Config) NewConverter() (*img2glyph.Converter, error) {
	interp, err := imageutil.ParseInterpolation(c.Interpolation)
	if err != nil {
		return nil, err
	}

	opts := []img2glyph.ConverterOption{
		img2glyph.WithMaxDim(c.MaxDim),
		img2glyph.WithInterpolation(interp),
		img2glyph.WithAdjustments(c.Adjust),
		img2glyph.WithSharpen(c.Sharpen),
		img2glyph.WithBlur(c.Blur),
	}

	if c.FontDef != "" {
		f, err := os.Open(c.FontDef)
		if err != nil {
			return nil, fmt.Errorf("failed to open glyph definition: %w", err)
		}
		defer f.Close()

		glyphs, err := img2glyph.ParseGlyphDefinition(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", c.FontDef, err)
		}
		cat := img2glyph.NewCatalog(glyphs)
		if cat.Degenerate() {
			return nil, fmt.Errorf("%s: all glyphs have the same lightness", c.FontDef)
		}
		opts = append(opts, img2glyph.WithCatalog(cat))
	}

	return img2glyph.NewConverter(opts...), nil
}
