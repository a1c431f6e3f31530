// Package imageutil provides the pure Go image plumbing around the glyph
// rasterizer: flat RGBA pixel buffers, resampling, tone adjustment and
// file I/O.
package imageutil

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.RGBA.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage anchored at
// the origin.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(rgba.RGBA, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// RGBAImageFromPixels wraps a copy of a tightly packed width x height RGBA
// buffer.
func RGBAImageFromPixels(pix []byte, width, height int) (*RGBAImage, error) {
	if width < 0 || height < 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer of %d bytes does not match %dx%d",
			len(pix), width, height)
	}
	img := NewRGBAImage(width, height)
	copy(img.Pix, pix)
	return img, nil
}

// CompositeOverBlack reads a tightly packed width x height buffer of
// straight (non-premultiplied) RGBA and returns it composited over opaque
// black. Every pixel of the result is opaque.
func CompositeOverBlack(pix []byte, width, height int) (*RGBAImage, error) {
	if width < 0 || height < 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel buffer of %d bytes does not match %dx%d",
			len(pix), width, height)
	}
	src := &image.NRGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	img := NewRGBAImage(width, height)
	draw.Draw(img.RGBA, img.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(img.RGBA, img.Bounds(), src, image.Point{}, draw.Over)
	return img, nil
}

// Pixels returns the image as a tightly packed row-major RGBA buffer.
func (img *RGBAImage) Pixels() []byte {
	width, height := img.Width(), img.Height()
	rowLen := width * 4
	if img.Stride == rowLen && img.Rect.Min == (image.Point{}) {
		out := make([]byte, rowLen*height)
		copy(out, img.Pix)
		return out
	}

	out := make([]byte, rowLen*height)
	for y := 0; y < height; y++ {
		off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(out[y*rowLen:(y+1)*rowLen], img.Pix[off:off+rowLen])
	}
	return out
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, c.ToColor())
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// Upscale returns the image enlarged by an integer factor with every pixel
// repeated as a factor x factor square. Factors below 2 return a clone.
func Upscale(img *RGBAImage, factor int) *RGBAImage {
	if factor < 2 {
		return img.Clone()
	}
	dst := NewRGBAImage(img.Width()*factor, img.Height()*factor)
	draw.NearestNeighbor.Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}
