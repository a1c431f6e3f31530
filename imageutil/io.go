package imageutil

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF (first frame), TIFF and WebP.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return DecodeImage(f)
}

// DecodeImage decodes any registered image format from r.
func DecodeImage(r io.Reader) (*RGBAImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return RGBAImageFromImage(img), nil
}

// Animation is a decoded animated GIF with every frame composited onto the
// full logical screen.
type Animation struct {
	Frames    []*RGBAImage
	Delays    []int // 100ths of a second, per frame
	LoopCount int
}

// LoadAnimation decodes all frames of a GIF. Frames are composited in
// order so each entry is a complete picture, honouring the disposal
// methods the GIF declares.
func LoadAnimation(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open animation: %w", err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	anim := &Animation{LoopCount: g.LoopCount}
	canvas := NewRGBAImage(width, height)
	for i, frame := range g.Image {
		var previous *RGBAImage
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			previous = canvas.Clone()
		}

		draw.Draw(canvas.RGBA, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		anim.Frames = append(anim.Frames, canvas.Clone())
		anim.Delays = append(anim.Delays, g.Delay[i])

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas.RGBA, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = previous
			}
		}
	}
	return anim, nil
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif).
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".gif":
		err = gif.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// SaveAnimation writes frames as an animated GIF. Colors are mapped to the
// nearest Plan 9 palette entry without dithering.
func SaveAnimation(anim *Animation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	out := &gif.GIF{LoopCount: anim.LoopCount}
	for i, frame := range anim.Frames {
		p := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.Draw(p, p.Bounds(), frame.RGBA, frame.Bounds().Min, draw.Src)
		out.Image = append(out.Image, p)
		delay := 0
		if i < len(anim.Delays) {
			delay = anim.Delays[i]
		}
		out.Delay = append(out.Delay, delay)
	}

	if err := gif.EncodeAll(f, out); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}
