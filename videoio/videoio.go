// Package videoio adapts OpenCV video capture and writing (gocv) to the
// flat RGBA pixel buffers the glyph converter works on.
package videoio

import (
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// DefaultCodec is the FourCC used by CreateFile when none is given.
const DefaultCodec = "MJPG"

// ErrClosed is returned when reading from or writing to a closed stream.
var ErrClosed = errors.New("videoio: stream is closed")

// Source reads frames from a video file or capture device.
type Source struct {
	vc     *gocv.VideoCapture
	bgr    gocv.Mat
	rgba   gocv.Mat
	width  int
	height int
	fps    float64
	frames int
}

// OpenFile opens a video file for reading.
func OpenFile(path string) (*Source, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open video %s: %w", path, err)
	}
	return newSource(vc, path)
}

// OpenDevice opens a capture device such as a webcam.
func OpenDevice(id int) (*Source, error) {
	vc, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("could not open capture device %d: %w", id, err)
	}
	return newSource(vc, fmt.Sprintf("device %d", id))
}

func newSource(vc *gocv.VideoCapture, name string) (*Source, error) {
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("could not open %s", name)
	}
	return &Source{
		vc:     vc,
		bgr:    gocv.NewMat(),
		rgba:   gocv.NewMat(),
		width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
		fps:    vc.Get(gocv.VideoCaptureFPS),
		frames: int(vc.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

// Width returns the frame width reported by the stream, updated from each
// frame read.
func (s *Source) Width() int { return s.width }

// Height returns the frame height.
func (s *Source) Height() int { return s.height }

// FPS returns the nominal frame rate; 0 when the stream does not know it.
func (s *Source) FPS() float64 { return s.fps }

// FrameCount returns the number of frames in a file, or a value <= 0 when
// the count is unknown (devices, some containers).
func (s *Source) FrameCount() int { return s.frames }

// Read returns the next frame as a tightly packed Width() x Height() RGBA
// buffer. It returns io.EOF when the stream is exhausted.
func (s *Source) Read() ([]byte, error) {
	if s.vc == nil {
		return nil, ErrClosed
	}
	if ok := s.vc.Read(&s.bgr); !ok || s.bgr.Empty() {
		return nil, io.EOF
	}
	gocv.CvtColor(s.bgr, &s.rgba, gocv.ColorBGRToRGBA)
	s.width, s.height = s.rgba.Cols(), s.rgba.Rows()
	return s.rgba.ToBytes(), nil
}

// Close releases the capture and its buffers.
func (s *Source) Close() error {
	if s.vc == nil {
		return nil
	}
	s.bgr.Close()
	s.rgba.Close()
	err := s.vc.Close()
	s.vc = nil
	return err
}

// Sink writes RGBA frames of a fixed size to a video file.
type Sink struct {
	vw     *gocv.VideoWriter
	width  int
	height int
}

// CreateFile opens a video file for writing. An empty codec selects
// DefaultCodec.
func CreateFile(path, codec string, fps float64, width, height int) (*Sink, error) {
	if codec == "" {
		codec = DefaultCodec
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid video size %dx%d", width, height)
	}
	vw, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("could not create video %s: %w", path, err)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("could not open %s with codec %s", path, codec)
	}
	return &Sink{vw: vw, width: width, height: height}, nil
}

// Write appends one width x height RGBA frame.
func (s *Sink) Write(pix []byte) error {
	if s.vw == nil {
		return ErrClosed
	}
	if len(pix) != s.width*s.height*4 {
		return fmt.Errorf("frame of %d bytes does not match %dx%d",
			len(pix), s.width, s.height)
	}

	rgba, err := gocv.NewMatFromBytes(s.height, s.width, gocv.MatTypeCV8UC4, pix)
	if err != nil {
		return fmt.Errorf("failed to wrap frame: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	if err := s.vw.Write(bgr); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close finalizes the file.
func (s *Sink) Close() error {
	if s.vw == nil {
		return nil
	}
	err := s.vw.Close()
	s.vw = nil
	return err
}
