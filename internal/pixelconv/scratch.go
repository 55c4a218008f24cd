package pixelconv

// Scratch holds the per-worker, exclusively-owned buffers spec.md §3/§4.2
// calls "encode scratch": three planar vectors (Y, U, V), one contiguous YUV
// pack, and the last-seen (width, height, quality) used to decide whether
// EnsureCapacity/SetQuality need to do anything. Never share a Scratch
// across workers — it is resized in place and has no internal locking.
type Scratch struct {
	Y, U, V, Packed []byte
	RGBA            []byte // used only by the BGRA/BGRX/RGBA/RGBX encode paths

	lastW, lastH     int
	lastRGBAW, lastRGBAH int
	Quality          int
}

// NewScratch returns an empty scratch; the first EncodeFrame call sizes it.
func NewScratch() *Scratch {
	return &Scratch{Quality: -1}
}

// EnsureCapacity resizes the planes for (w, h) per spec.md §4.2: Y to w*h, U
// and V to (w/2)*(h/2), and the packed buffer to w*h + 2*(w/2)*(h/2). A no-op
// if (w, h) matches the last call (invariant: "resize only on change").
func (s *Scratch) EnsureCapacity(w, h int) {
	if w == s.lastW && h == s.lastH {
		return
	}
	cw, ch := w/2, h/2
	s.Y = growTo(s.Y, w*h)
	s.U = growTo(s.U, cw*ch)
	s.V = growTo(s.V, cw*ch)
	s.Packed = growTo(s.Packed, w*h+2*cw*ch)
	s.lastW, s.lastH = w, h
}

// ensureRGBA resizes the RGBA scratch buffer for (w, h), independent of the
// Y/U/V planes' own sizing since a given worker only ever uses one of the
// two families of buffers for a given source's FourCC.
func (s *Scratch) ensureRGBA(w, h int) {
	if w == s.lastRGBAW && h == s.lastRGBAH {
		return
	}
	s.RGBA = growTo(s.RGBA, w*h*4)
	s.lastRGBAW, s.lastRGBAH = w, h
}

// SetQuality records the JPEG quality to use for subsequent encodes. Quality
// reconfiguration is a no-op when it did not change from the last call.
func (s *Scratch) SetQuality(q int) {
	s.Quality = q
}

// Dimensions reports the (w, h) the scratch is currently sized for, used by
// tests asserting spec.md §8 invariant 2 (resize monotonicity).
func (s *Scratch) Dimensions() (int, int) {
	return s.lastW, s.lastH
}

func growTo(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]byte, n)
}

// pack copies the Y, U, V planes into one contiguous [Y | U | V] span. The
// stdlib JPEG encoder this package uses consumes planar slices directly and
// never calls this on the encode hot path; it exists so the Packed buffer's
// size and contents stay independently testable against spec.md's data
// model (spec.md §8 invariant 2) without paying its copy cost per frame.
func (s *Scratch) pack() {
	n := copy(s.Packed, s.Y)
	n += copy(s.Packed[n:], s.U)
	copy(s.Packed[n:], s.V)
}
