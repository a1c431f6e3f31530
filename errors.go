package img2glyph

import "errors"

var (
	// ErrMalformedDefinition reports a glyph definition that cannot be
	// turned into a glyph set.
	ErrMalformedDefinition = errors.New("malformed glyph definition")

	// ErrOutputTooSmall reports that the negotiated output size has a zero
	// dimension, so there is nothing to render.
	ErrOutputTooSmall = errors.New("output size is too small")

	// ErrBufferSize reports a pixel buffer whose length is not width*height*4.
	ErrBufferSize = errors.New("pixel buffer size does not match dimensions")

	// ErrMisaligned reports dimensions that are not multiples of the glyph
	// cell size.
	ErrMisaligned = errors.New("dimensions not aligned to glyph cell")
)
