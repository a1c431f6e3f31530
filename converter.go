package img2glyph

import (
	"fmt"
	"image"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/wbrown/img2glyph/imageutil"
)

// DefaultMaxDim is the default cap on the longer output side, in pixels.
const DefaultMaxDim = 100

// Converter turns source pictures into glyph-art rasters. It owns the
// preparation settings (resampling, adjustments) and shares a read-only
// Catalog, so one Converter may serve concurrent conversions.
type Converter struct {
	// MaxDim caps the longer output side for ConvertRGBA.
	MaxDim int
	// Prep controls how sources are scaled to the negotiated size.
	Prep imageutil.Preparation

	catalog *Catalog
	logger  log.FieldLogger
}

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// NewConverter creates a Converter with the given options.
// Defaults: DefaultCatalog(), MaxDim=DefaultMaxDim, area interpolation,
// no adjustments, the standard logrus logger.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		MaxDim: DefaultMaxDim,
		Prep:   imageutil.Preparation{Interpolation: imageutil.InterpolationArea},
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.catalog == nil {
		c.catalog = DefaultCatalog()
	}
	return c
}

// WithCatalog sets the glyph catalog, e.g. one built from a custom
// definition.
func WithCatalog(cat *Catalog) ConverterOption {
	return func(c *Converter) {
		c.catalog = cat
	}
}

// WithMaxDim sets the cap on the longer output side.
func WithMaxDim(maxDim int) ConverterOption {
	return func(c *Converter) {
		c.MaxDim = maxDim
	}
}

// WithInterpolation sets the resampler used to scale sources.
func WithInterpolation(interp imageutil.Interpolation) ConverterOption {
	return func(c *Converter) {
		c.Prep.Interpolation = interp
	}
}

// WithAdjustments sets tone adjustments applied before scaling.
func WithAdjustments(a imageutil.Adjustments) ConverterOption {
	return func(c *Converter) {
		c.Prep.Adjust = a
	}
}

// WithSharpen enables sharpening after scaling.
func WithSharpen(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.Prep.Sharpen = enabled
	}
}

// WithBlur enables a Gaussian blur after scaling.
func WithBlur(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.Prep.Blur = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger log.FieldLogger) ConverterOption {
	return func(c *Converter) {
		c.logger = logger
	}
}

// Catalog returns the glyph catalog the converter draws with.
func (c *Converter) Catalog() *Catalog {
	return c.catalog
}

// ConvertImage converts a srcW x srcH RGBA image buffer. Alpha is straight
// (not premultiplied); translucent pixels are composited over black before
// sampling. The output size
// is negotiated with NegotiateSize against maxDim; the returned buffer is
// w x h RGBA. ErrOutputTooSmall is returned when the negotiated size has a
// zero dimension.
func (c *Converter) ConvertImage(pixels []byte, srcW, srcH, maxDim int) (out []byte, w, h int, err error) {
	return c.convert("image", pixels, srcW, srcH, maxDim)
}

// ConvertFrame is ConvertImage for a single video frame.
func (c *Converter) ConvertFrame(frame []byte, srcW, srcH, maxDim int) (out []byte, w, h int, err error) {
	return c.convert("frame", frame, srcW, srcH, maxDim)
}

// ConvertRGBA converts an image.Image capped at the converter's MaxDim.
func (c *Converter) ConvertRGBA(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	out, w, h, err := c.convert("image", src.Pix, b.Dx(), b.Dy(), c.MaxDim)
	if err != nil {
		return nil, err
	}
	dst := imageutil.NewRGBAImage(w, h)
	copy(dst.Pix, out)
	return dst.RGBA, nil
}

func (c *Converter) convert(kind string, pixels []byte, srcW, srcH, maxDim int) ([]byte, int, int, error) {
	src, err := imageutil.CompositeOverBlack(pixels, srcW, srcH)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrBufferSize, err)
	}

	w, h, err := NegotiateSize(srcW, srcH, maxDim)
	if err != nil {
		return nil, 0, 0, err
	}
	c.logger.WithFields(log.Fields{
		"kind":   kind,
		"source": fmt.Sprintf("%dx%d", srcW, srcH),
		"output": fmt.Sprintf("%dx%d", w, h),
	}).Debug("negotiated output size")

	prepared := imageutil.Prepare(src, w, h, c.Prep)
	out, err := c.catalog.Rasterize(prepared.Pixels(), w, h)
	if err != nil {
		return nil, 0, 0, err
	}
	return out, w, h, nil
}

var defaultConverter = sync.OnceValue(func() *Converter { return NewConverter() })

// ConvertImage converts an RGBA image buffer with a default Converter over
// DefaultCatalog().
func ConvertImage(pixels []byte, srcW, srcH, maxDim int) ([]byte, int, int, error) {
	return defaultConverter().ConvertImage(pixels, srcW, srcH, maxDim)
}

// ConvertFrame converts an RGBA video frame with a default Converter over
// DefaultCatalog().
func ConvertFrame(frame []byte, srcW, srcH, maxDim int) ([]byte, int, int, error) {
	return defaultConverter().ConvertFrame(frame, srcW, srcH, maxDim)
}
