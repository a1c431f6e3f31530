package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/joshdk/preview"
	log "github.com/sirupsen/logrus"
	"github.com/wbrown/img2glyph"
	"github.com/wbrown/img2glyph/imageutil"
	"github.com/wbrown/img2glyph/videoio"
)

type inputKind int

const (
	kindImage inputKind = iota
	kindAnimation
	kindVideo
)

var videoExts = map[string]bool{
	".avi": true, ".mp4": true, ".mov": true, ".mkv": true,
	".webm": true, ".m4v": true, ".mpg": true, ".mpeg": true,
}

func detectKind(path string) inputKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".gif":
		return kindAnimation
	case videoExts[ext]:
		return kindVideo
	default:
		return kindImage
	}
}

// defaultOutput derives an output path next to the input.
func defaultOutput(input string, kind inputKind) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	switch kind {
	case kindAnimation:
		return base + "_glyph.gif"
	case kindVideo:
		return base + "_glyph.avi"
	default:
		return base + "_glyph.png"
	}
}

// job is one conversion run.
type job struct {
	cfg    *Config
	conv   *img2glyph.Converter
	input  string
	output string
	device int // capture device id; -1 reads input as a file
	frames int // maximum video frames, 0 for all
}

func (j *job) run() error {
	start := time.Now()
	var err error
	switch {
	case j.device >= 0:
		err = j.convertVideo()
	default:
		switch detectKind(j.input) {
		case kindAnimation:
			err = j.convertAnimation()
		case kindVideo:
			err = j.convertVideo()
		default:
			err = j.convertImage()
		}
	}
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"output":  j.output,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("conversion finished")
	return nil
}

func (j *job) convertImage() error {
	img, err := imageutil.LoadImage(j.input)
	if err != nil {
		return err
	}

	out, err := j.conv.ConvertRGBA(img)
	if err != nil {
		return fmt.Errorf("converting %s: %w", j.input, err)
	}
	result := imageutil.Upscale(&imageutil.RGBAImage{RGBA: out}, j.cfg.Scale)

	if err := imageutil.SaveImage(result, j.output); err != nil {
		return err
	}
	if j.cfg.Preview {
		preview.Image(result.RGBA)
	}
	return nil
}

// convertFrame converts one RGBA frame and applies the output scale. A
// frame too small to hold a glyph returns img2glyph.ErrOutputTooSmall.
func (j *job) convertFrame(pix []byte, width, height int) (*imageutil.RGBAImage, error) {
	out, w, h, err := j.conv.ConvertFrame(pix, width, height, j.cfg.MaxDim)
	if err != nil {
		return nil, err
	}
	frame, err := imageutil.RGBAImageFromPixels(out, w, h)
	if err != nil {
		return nil, err
	}
	return imageutil.Upscale(frame, j.cfg.Scale), nil
}

func (j *job) convertAnimation() error {
	anim, err := imageutil.LoadAnimation(j.input)
	if err != nil {
		return err
	}

	result := &imageutil.Animation{LoopCount: anim.LoopCount}
	bar := pb.StartNew(len(anim.Frames))
	for i, frame := range anim.Frames {
		out, err := j.convertFrame(frame.Pixels(), frame.Width(), frame.Height())
		bar.Increment()
		if errors.Is(err, img2glyph.ErrOutputTooSmall) {
			log.WithField("frame", i).Warn(err)
			continue
		}
		if err != nil {
			bar.Finish()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		result.Frames = append(result.Frames, out)
		result.Delays = append(result.Delays, anim.Delays[i])
	}
	bar.Finish()

	if len(result.Frames) == 0 {
		return fmt.Errorf("%s: no frames converted: %w", j.input, img2glyph.ErrOutputTooSmall)
	}
	if err := imageutil.SaveAnimation(result, j.output); err != nil {
		return err
	}
	if j.cfg.Preview {
		preview.Image(result.Frames[0].RGBA)
	}
	return nil
}

func (j *job) convertVideo() error {
	var (
		src *videoio.Source
		err error
	)
	if j.device >= 0 {
		src, err = videoio.OpenDevice(j.device)
	} else {
		src, err = videoio.OpenFile(j.input)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	fps := src.FPS()
	if fps <= 0 {
		fps = 25
	}
	total := src.FrameCount()
	if j.frames > 0 && (total <= 0 || j.frames < total) {
		total = j.frames
	}
	log.WithFields(log.Fields{
		"size":   fmt.Sprintf("%dx%d", src.Width(), src.Height()),
		"fps":    fps,
		"frames": total,
	}).Info("reading video")

	var sink *videoio.Sink
	defer func() {
		if sink != nil {
			if err := sink.Close(); err != nil {
				log.WithError(err).Error("closing video output")
			}
		}
	}()

	bar := pb.StartNew(max(total, 0))
	defer bar.Finish()

	written, skipped := 0, 0
	for n := 0; j.frames <= 0 || n < j.frames; n++ {
		pix, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		bar.Increment()

		out, err := j.convertFrame(pix, src.Width(), src.Height())
		if errors.Is(err, img2glyph.ErrOutputTooSmall) {
			if skipped == 0 {
				log.WithField("frame", n).Warn(err)
			}
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}

		if sink == nil {
			sink, err = videoio.CreateFile(j.output, j.cfg.Codec, fps, out.Width(), out.Height())
			if err != nil {
				return err
			}
		}
		if err := sink.Write(out.Pixels()); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		written++
	}

	if skipped > 0 {
		log.WithField("skipped", skipped).Warn("frames too small to convert")
	}
	switch {
	case written == 0 && skipped > 0:
		return fmt.Errorf("no frames converted: %w", img2glyph.ErrOutputTooSmall)
	case written == 0:
		return fmt.Errorf("no frames read from %s", j.input)
	}
	return nil
}
