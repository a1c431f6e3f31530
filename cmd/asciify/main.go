package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// applyFlag copies one explicitly set flag into cfg.
func applyFlag(cfg *Config, name, value string) error {
	var err error
	switch name {
	case "max":
		cfg.MaxDim, err = parseMaxDim(value)
	case "interp":
		cfg.Interpolation = value
	case "sharpen":
		cfg.Sharpen, err = strconv.ParseBool(value)
	case "blur":
		cfg.Blur, err = strconv.ParseBool(value)
	case "scale":
		cfg.Scale, err = strconv.Atoi(value)
	case "font-def":
		cfg.FontDef = value
	case "codec":
		cfg.Codec = value
	case "preview":
		cfg.Preview, err = strconv.ParseBool(value)
	case "brightness":
		cfg.Adjust.Brightness, err = strconv.ParseFloat(value, 64)
	case "contrast":
		cfg.Adjust.Contrast, err = strconv.ParseFloat(value, 64)
	case "saturation":
		cfg.Adjust.Saturation, err = strconv.ParseFloat(value, 64)
	case "gamma":
		cfg.Adjust.Gamma, err = strconv.ParseFloat(value, 64)
	}
	if err != nil {
		return fmt.Errorf("-%s: %w", name, err)
	}
	return nil
}

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image, GIF or video (required unless -device is set)")
	outputFile := flag.String("output", "",
		"Path to save the output (default: <input>_glyph.<ext>)")
	configFile := flag.String("config", "asciify.toml",
		"Path to an optional TOML config file")
	flag.String("max", "100",
		"Maximum output width/height in pixels, or small, medium, large, xlarge")
	flag.String("interp", "area",
		"Resampling: area, linear, nearest or lanczos")
	flag.Bool("sharpen", false, "Sharpen the scaled source")
	flag.Bool("blur", false, "Blur the scaled source")
	flag.Int("scale", 1, "Integer upscale factor for the saved output")
	flag.String("font-def", "", "Path to a glyph definition JSON (default: embedded font)")
	flag.String("codec", "MJPG", "FourCC codec for video output")
	flag.Bool("preview", false, "Display the result inline in the terminal")
	flag.Float64("brightness", 0, "Brightness change in [-1, 1]")
	flag.Float64("contrast", 0, "Contrast change in [-1, 1]")
	flag.Float64("saturation", 0, "Saturation change in [-1, 1]")
	flag.Float64("gamma", 0, "Gamma correction (0 or 1 disables)")
	device := flag.Int("device", -1, "Capture device id to read instead of -input")
	frames := flag.Int("frames", 0, "Maximum number of video frames, 0 for all")
	watch := flag.Bool("watch", false, "Re-convert whenever the input changes")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *inputFile == "" && *device < 0 {
		fmt.Println("Please provide the input using the -input flag")
		flag.PrintDefaults()
		return
	}

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	flag.Visit(func(f *flag.Flag) {
		if err := applyFlag(cfg, f.Name, f.Value.String()); err != nil {
			log.WithError(err).Fatal("invalid flag")
		}
	})
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	conv, err := cfg.NewConverter()
	if err != nil {
		log.WithError(err).Fatal("building converter")
	}

	j := &job{
		cfg:    cfg,
		conv:   conv,
		input:  *inputFile,
		output: *outputFile,
		device: *device,
		frames: *frames,
	}
	if j.output == "" {
		if *device >= 0 {
			j.output = fmt.Sprintf("device%d_glyph.avi", *device)
		} else {
			j.output = defaultOutput(*inputFile, detectKind(*inputFile))
		}
	}

	if err := j.run(); err != nil {
		log.WithError(err).Error("conversion failed")
		if !*watch {
			os.Exit(1)
		}
	}

	if *watch {
		if *device >= 0 {
			log.Fatal("-watch needs a file input")
		}
		if err := runWatchMode(*inputFile, 300*time.Millisecond, j.run); err != nil {
			log.WithError(err).Fatal("watch mode")
		}
	}
}
