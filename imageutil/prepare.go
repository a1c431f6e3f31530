package imageutil

// Preparation describes how a source image is turned into the exact-size
// buffer the glyph rasterizer consumes.
type Preparation struct {
	// Interpolation used to scale the source to the negotiated size.
	Interpolation Interpolation
	// Adjust is applied at source resolution, before scaling.
	Adjust Adjustments
	// Blur smooths the scaled image; applied before Sharpen.
	Blur bool
	// Sharpen applies the mild sharpening kernel after scaling.
	Sharpen bool
}

// Prepare produces a width x height copy of img ready for conversion.
//
// The pipeline:
//  1. Tone adjustments at source resolution
//  2. Resize to the target size
//  3. Optional Gaussian blur
//  4. Optional sharpening
//
// img is never modified.
func Prepare(img *RGBAImage, width, height int, p Preparation) *RGBAImage {
	out := img
	if !p.Adjust.IsZero() {
		out = Adjust(out, p.Adjust)
	}
	out = Resize(out, width, height, p.Interpolation)
	if p.Blur {
		out = GaussianBlur(out)
	}
	if p.Sharpen {
		out = Sharpen(out)
	}
	return out
}
