package img2glyph

import "fmt"

// ComputeSize returns output dimensions for a srcW x srcH source capped at
// maxDim on the longer side. The source is never upscaled; the shorter
// side is scaled by the same ratio and truncated. Both dimensions are then
// rounded down to multiples of the glyph cell. Either result may be 0 when
// the source is smaller than one cell after scaling.
func ComputeSize(srcW, srcH, maxDim int) (w, h int) {
	if srcW <= 0 || srcH <= 0 || maxDim <= 0 {
		return 0, 0
	}

	wf, hf, mf := float64(srcW), float64(srcH), float64(maxDim)
	if srcW >= srcH {
		w = min(srcW, maxDim)
		h = int(hf * (min(wf, mf) / wf))
	} else {
		w = int(wf * (min(hf, mf) / hf))
		h = min(srcH, maxDim)
	}

	return w - w%GlyphWidth, h - h%GlyphHeight
}

// NegotiateSize is ComputeSize with the degenerate case reported as
// ErrOutputTooSmall.
func NegotiateSize(srcW, srcH, maxDim int) (w, h int, err error) {
	w, h = ComputeSize(srcW, srcH, maxDim)
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d capped at %d gives %dx%d",
			ErrOutputTooSmall, srcW, srcH, maxDim, w, h)
	}
	return w, h, nil
}
