package imageutil

import "github.com/anthonynsimon/bild/adjust"

// Adjustments are tone corrections applied to a source before it is
// converted. Zero values leave the image untouched.
type Adjustments struct {
	// Brightness and Contrast are relative changes in [-1, 1].
	Brightness float64 `toml:"brightness"`
	Contrast   float64 `toml:"contrast"`
	// Saturation is a relative change in [-1, 1].
	Saturation float64 `toml:"saturation"`
	// Gamma above 1 brightens midtones, below 1 darkens them. 0 and 1
	// disable the correction.
	Gamma float64 `toml:"gamma"`
}

// IsZero reports whether the adjustments are a no-op.
func (a Adjustments) IsZero() bool {
	return a.Brightness == 0 && a.Contrast == 0 && a.Saturation == 0 &&
		(a.Gamma == 0 || a.Gamma == 1)
}

// Adjust applies the adjustments in a fixed order: gamma, brightness,
// contrast, saturation. The input is not modified.
func Adjust(img *RGBAImage, a Adjustments) *RGBAImage {
	if a.IsZero() {
		return img.Clone()
	}

	out := img.RGBA
	if a.Gamma != 0 && a.Gamma != 1 {
		out = adjust.Gamma(out, a.Gamma)
	}
	if a.Brightness != 0 {
		out = adjust.Brightness(out, a.Brightness)
	}
	if a.Contrast != 0 {
		out = adjust.Contrast(out, a.Contrast)
	}
	if a.Saturation != 0 {
		out = adjust.Saturation(out, a.Saturation)
	}
	return &RGBAImage{RGBA: out}
}
