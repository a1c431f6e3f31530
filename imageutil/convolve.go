package imageutil

import "math"

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SharpeningKernel returns a mild 3x3 sharpening kernel.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// GaussianKernel5x5 returns a 5x5 Gaussian blur kernel with sigma ~1.4.
func GaussianKernel5x5() *Kernel {
	// Approximation of Gaussian with sigma = 1.4
	return NewKernel([][]float64{
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{5.0 / 159, 12.0 / 159, 15.0 / 159, 12.0 / 159, 5.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
	})
}

// Convolve applies a convolution kernel to the color channels of an RGBA
// image. Border pixels are handled by replicating edge values; alpha is
// set to opaque.
func Convolve(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	src := img.Pixels()
	dst := NewRGBAImage(width, height)

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			var sum [3]float64
			for ky, row := range kernel.Values {
				sy := clampInt(y+ky-halfKH, 0, height-1)
				for kx, k := range row {
					if k == 0 {
						continue
					}
					sx := clampInt(x+kx-halfKW, 0, width-1)
					i := (sy*width + sx) * 4
					sum[0] += float64(src[i]) * k
					sum[1] += float64(src[i+1]) * k
					sum[2] += float64(src[i+2]) * k
				}
			}
			o := x * 4
			out[o] = clampUint8(sum[0])
			out[o+1] = clampUint8(sum[1])
			out[o+2] = clampUint8(sum[2])
			out[o+3] = 255
		}
	}

	return dst
}

// Sharpen applies the mild sharpening kernel to an RGBA image.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Convolve(img, SharpeningKernel())
}

// GaussianBlur applies a 5x5 Gaussian blur to an RGBA image.
func GaussianBlur(img *RGBAImage) *RGBAImage {
	return Convolve(img, GaussianKernel5x5())
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
