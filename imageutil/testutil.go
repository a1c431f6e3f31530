package imageutil

import "math"

// CreateGradientImage creates a gray ramp from black at the left edge to
// white at the right edge.
func CreateGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	span := max(width-1, 1)
	for x := 0; x < width; x++ {
		v := uint8(255 * x / span)
		for y := 0; y < height; y++ {
			img.SetRGB(x, y, RGB{v, v, v})
		}
	}
	return img
}

// CreateHueSweepImage sweeps fully saturated hues across the width and
// fades from full brightness at the top to black at the bottom, covering
// every glyph lightness and ink hue.
func CreateHueSweepImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		v := 1 - float64(y)/float64(max(height, 1))
		for x := 0; x < width; x++ {
			h := 6 * float64(x) / float64(max(width, 1))
			img.SetRGB(x, y, hexconeRGB(h, v))
		}
	}
	return img
}

// hexconeRGB maps a sector position h in [0, 6) at full saturation and
// value v to RGB.
func hexconeRGB(h, v float64) RGB {
	f := h - math.Floor(h)
	hi, lo := uint8(255*v), uint8(0)
	rise, fall := uint8(255*v*f), uint8(255*v*(1-f))
	switch int(h) % 6 {
	case 0:
		return RGB{hi, rise, lo}
	case 1:
		return RGB{fall, hi, lo}
	case 2:
		return RGB{lo, hi, rise}
	case 3:
		return RGB{lo, fall, hi}
	case 4:
		return RGB{rise, lo, hi}
	default:
		return RGB{hi, lo, fall}
	}
}

// CreateCheckerboardImage creates a checkerboard pattern.
func CreateCheckerboardImage(width, height, squareSize int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			} else {
				img.SetRGB(x, y, RGB{})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(width/len(colors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CalculateMSE returns the mean squared error over the color channels of
// two equally sized images. Mismatched sizes return math.MaxFloat64.
func CalculateMSE(img1, img2 *RGBAImage) float64 {
	if img1.Bounds().Size() != img2.Bounds().Size() {
		return math.MaxFloat64
	}

	p1, p2 := img1.Pixels(), img2.Pixels()
	if len(p1) == 0 {
		return 0
	}
	var sumSq float64
	for i := 0; i < len(p1); i += 4 {
		for c := 0; c < 3; c++ {
			d := float64(p1[i+c]) - float64(p2[i+c])
			sumSq += d * d
		}
	}
	return sumSq / float64(len(p1)/4*3)
}

// CalculateMaxDiff calculates the maximum channel difference between two
// images. Mismatched sizes return 256.
func CalculateMaxDiff(img1, img2 *RGBAImage) int {
	if img1.Bounds().Size() != img2.Bounds().Size() {
		return 256
	}

	maxDiff := 0
	p1, p2 := img1.Pixels(), img2.Pixels()
	for i := range p1 {
		if i%4 == 3 {
			continue
		}
		maxDiff = max(maxDiff, abs(int(p1[i])-int(p2[i])))
	}
	return maxDiff
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
