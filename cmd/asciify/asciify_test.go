package main

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/imageutil"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MaxDim != img2glyph.DefaultMaxDim || cfg.Scale != 1 || cfg.Interpolation != "area" {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asciify.toml")
	data := `
max_dim = 200
interpolation = "lanczos"
sharpen = true
scale = 3

[adjust]
contrast = 0.25
gamma = 1.8
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MaxDim != 200 || cfg.Interpolation != "lanczos" || !cfg.Sharpen || cfg.Scale != 3 {
		t.Errorf("Config not loaded: %+v", cfg)
	}
	if cfg.Adjust.Contrast != 0.25 || cfg.Adjust.Gamma != 1.8 {
		t.Errorf("Adjustments not loaded: %+v", cfg.Adjust)
	}
	if cfg.Blur {
		t.Error("Unset keys should keep defaults")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("max_dim = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestParseMaxDim(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"small", 50, false},
		{"Medium", 100, false},
		{"large", 200, false},
		{"xlarge", 400, false},
		{"321", 321, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"huge", 0, true},
	}
	for _, tt := range tests {
		got, err := parseMaxDim(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMaxDim(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMaxDim(%q) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}

func TestApplyFlag(t *testing.T) {
	cfg := defaultConfig()
	flags := map[string]string{
		"max":        "large",
		"interp":     "nearest",
		"sharpen":    "true",
		"scale":      "2",
		"brightness": "0.1",
		"gamma":      "2.2",
		"font-def":   "glyphs.json",
	}
	for name, value := range flags {
		if err := applyFlag(cfg, name, value); err != nil {
			t.Fatalf("applyFlag(%s) failed: %v", name, err)
		}
	}
	if cfg.MaxDim != 200 || cfg.Interpolation != "nearest" || !cfg.Sharpen || cfg.Scale != 2 {
		t.Errorf("Flags not applied: %+v", cfg)
	}
	if cfg.Adjust.Brightness != 0.1 || cfg.Adjust.Gamma != 2.2 || cfg.FontDef != "glyphs.json" {
		t.Errorf("Flags not applied: %+v", cfg)
	}

	if err := applyFlag(cfg, "scale", "two"); err == nil {
		t.Error("Expected error for non-numeric scale")
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate, got %v", err)
	}

	cfg.Scale = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for scale 0")
	}

	cfg = defaultConfig()
	cfg.Interpolation = "cubic"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown interpolation")
	}
}

func TestNewConverterFontDef(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	def := `{"a": [0,0,0,0,0,0,0,0,0,0,0,0], "b": [31,31,31,31,31,31,31,31,31,31,31,31]}`
	if err := os.WriteFile(good, []byte(def), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig()
	cfg.FontDef = good
	conv, err := cfg.NewConverter()
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	if conv.Catalog().Len() != 2 {
		t.Errorf("Expected custom 2-glyph catalog, got %d", conv.Catalog().Len())
	}

	flat := filepath.Join(dir, "flat.json")
	def = `{"a": [1,0,0,0,0,0,0,0,0,0,0,0], "b": [2,0,0,0,0,0,0,0,0,0,0,0]}`
	if err := os.WriteFile(flat, []byte(def), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.FontDef = flat
	if _, err := cfg.NewConverter(); err == nil {
		t.Error("Expected error for a degenerate glyph definition")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"a": [1]}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.FontDef = bad
	if _, err := cfg.NewConverter(); !errors.Is(err, img2glyph.ErrMalformedDefinition) {
		t.Errorf("Expected ErrMalformedDefinition, got %v", err)
	}
}

func TestDetectKindAndOutput(t *testing.T) {
	tests := []struct {
		input  string
		kind   inputKind
		output string
	}{
		{"photo.jpg", kindImage, "photo_glyph.png"},
		{"dir/cat.GIF", kindAnimation, "dir/cat_glyph.gif"},
		{"clip.mp4", kindVideo, "clip_glyph.avi"},
		{"noext", kindImage, "noext_glyph.png"},
	}
	for _, tt := range tests {
		if got := detectKind(tt.input); got != tt.kind {
			t.Errorf("detectKind(%q) = %v, expected %v", tt.input, got, tt.kind)
		}
		if got := defaultOutput(tt.input, tt.kind); got != tt.output {
			t.Errorf("defaultOutput(%q) = %q, expected %q", tt.input, got, tt.output)
		}
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var fired int32
	done := make(chan struct{}, 1)
	db := newDebouncer(50*time.Millisecond, func(string) {
		atomic.AddInt32(&fired, 1)
		done <- struct{}{}
	})
	defer db.stop()

	for i := 0; i < 5; i++ {
		db.trigger("a.png")
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Debouncer never fired")
	}
	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("Expected 1 callback, got %d", n)
	}
}

func TestDebouncerEventAfterFireRunsOnce(t *testing.T) {
	var fired int32
	db := newDebouncer(20*time.Millisecond, func(string) {
		atomic.AddInt32(&fired, 1)
	})
	defer db.stop()

	db.trigger("a.png")

	// Hold the lock past the delay so the fired callback is left waiting
	// on it when the next event arrives.
	db.mu.Lock()
	time.Sleep(100 * time.Millisecond)
	db.schedule("a.png")
	db.mu.Unlock()

	time.Sleep(200 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("Expected 1 callback, got %d", n)
	}

	db.mu.Lock()
	pending := len(db.timers)
	db.mu.Unlock()
	if pending != 0 {
		t.Errorf("Expected no pending timers, got %d", pending)
	}
}

func newTestJob(t *testing.T, input, output string, scale int) *job {
	t.Helper()
	cfg := defaultConfig()
	cfg.Scale = scale
	conv, err := cfg.NewConverter()
	if err != nil {
		t.Fatalf("NewConverter failed: %v", err)
	}
	return &job{cfg: cfg, conv: conv, input: input, output: output, device: -1}
}

func TestJobConvertImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bars.png")
	if err := imageutil.SaveImage(imageutil.CreateColorBarsImage(120, 60), input); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "out.png")
	if err := newTestJob(t, input, output, 2).run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out, err := imageutil.LoadImage(output)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	// 120x60 capped at 100 -> 96x48, doubled.
	if out.Width() != 192 || out.Height() != 96 {
		t.Errorf("Expected 192x96, got %dx%d", out.Width(), out.Height())
	}
}

func TestJobConvertImageTooSmall(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tiny.png")
	if err := imageutil.SaveImage(imageutil.CreateGradientImage(4, 4), input); err != nil {
		t.Fatal(err)
	}
	err := newTestJob(t, input, filepath.Join(dir, "out.png"), 1).run()
	if !errors.Is(err, img2glyph.ErrOutputTooSmall) {
		t.Errorf("Expected ErrOutputTooSmall, got %v", err)
	}
}

func TestJobConvertAnimation(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "anim.gif")
	anim := &imageutil.Animation{
		Frames: []*imageutil.RGBAImage{
			imageutil.CreateSolidImage(60, 24, imageutil.RGB{R: 255}),
			imageutil.CreateSolidImage(60, 24, imageutil.RGB{B: 255}),
		},
		Delays: []int{10, 20},
	}
	if err := imageutil.SaveAnimation(anim, input); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "out.gif")
	if err := newTestJob(t, input, output, 1).run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out, err := imageutil.LoadAnimation(output)
	if err != nil {
		t.Fatalf("LoadAnimation failed: %v", err)
	}
	if len(out.Frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(out.Frames))
	}
	if out.Delays[1] != 20 {
		t.Errorf("Expected delay 20, got %d", out.Delays[1])
	}
	if out.Frames[0].Width() != 60 || out.Frames[0].Height() != 24 {
		t.Errorf("Expected 60x24 frames, got %dx%d", out.Frames[0].Width(), out.Frames[0].Height())
	}
}
