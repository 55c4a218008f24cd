package pixelconv

import "testing"

// synthesizeUYVY builds a UYVY frame of w x h where U=V=128 and Y=k for
// every pixel, per spec.md §8 invariant 3.
func synthesizeUYVY(w, h int, k byte) []byte {
	stride := w * 2
	buf := make([]byte, stride*h)
	for r := 0; r < h; r++ {
		row := buf[r*stride : r*stride+stride]
		for c := 0; c < w/2; c++ {
			row[c*4] = 128   // U
			row[c*4+1] = k   // Y0
			row[c*4+2] = 128 // V
			row[c*4+3] = k   // Y1
		}
	}
	return buf
}

func TestUYVYConversionCorrectness(t *testing.T) {
	const w, h = 16, 8
	src := synthesizeUYVY(w, h, 200)

	y := make([]byte, w*h)
	u := make([]byte, (w/2)*(h/2))
	v := make([]byte, (w/2)*(h/2))

	uyvyToYUV420Planar(src, w*2, w, h, y, u, v)

	for i, b := range y {
		if b != 200 {
			t.Fatalf("luma mismatch at %d: got %d want 200", i, b)
		}
	}
	for i, b := range u {
		if b != 128 {
			t.Fatalf("U mismatch at %d: got %d want 128", i, b)
		}
	}
	for i, b := range v {
		if b != 128 {
			t.Fatalf("V mismatch at %d: got %d want 128", i, b)
		}
	}
}

func TestScratchResizeMonotonicity(t *testing.T) {
	s := NewScratch()
	s.EnsureCapacity(640, 360)
	w, h := s.Dimensions()
	if w != 640 || h != 360 {
		t.Fatalf("unexpected dims after first resize: %dx%d", w, h)
	}
	if len(s.Y) != 640*360 {
		t.Fatalf("unexpected Y size: %d", len(s.Y))
	}
	if len(s.U) != (640/2)*(360/2) || len(s.V) != (640/2)*(360/2) {
		t.Fatalf("unexpected chroma sizes: U=%d V=%d", len(s.U), len(s.V))
	}
	if len(s.Packed) != 640*360+2*(640/2)*(360/2) {
		t.Fatalf("unexpected packed size: %d", len(s.Packed))
	}

	// A second call with the same dims must not shrink/change allocation.
	yPtr := &s.Y[0]
	s.EnsureCapacity(640, 360)
	if &s.Y[0] != yPtr {
		t.Fatalf("expected no-op resize for unchanged dimensions")
	}

	s.EnsureCapacity(1920, 1080)
	w, h = s.Dimensions()
	if w != 1920 || h != 1080 {
		t.Fatalf("unexpected dims after resize: %dx%d", w, h)
	}
	if len(s.Y) != 1920*1080 {
		t.Fatalf("unexpected Y size after growth: %d", len(s.Y))
	}
}

func TestScratchPack(t *testing.T) {
	s := NewScratch()
	s.EnsureCapacity(4, 2)
	copy(s.Y, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	copy(s.U, []byte{9, 10})
	copy(s.V, []byte{11, 12})

	s.pack()

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if len(s.Packed) != len(want) {
		t.Fatalf("unexpected packed length: got %d want %d", len(s.Packed), len(want))
	}
	for i, b := range want {
		if s.Packed[i] != b {
			t.Fatalf("packed mismatch at %d: got %d want %d", i, s.Packed[i], b)
		}
	}
}

func TestEncodeFrameUnsupportedFourCC(t *testing.T) {
	s := NewScratch()
	_, err := EncodeFrame(nil, 0, 0, 0, 0xdeadbeef, 75, s)
	if err == nil {
		t.Fatalf("expected error for unsupported fourcc")
	}
}
