package pixelconv

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/hassler-labs/streambridge/internal/ndiapi"
	"github.com/hassler-labs/streambridge/internal/ndierrors"
)

// EncodeFrame implements spec.md §4.2's encode contract: UYVY is converted
// to planar 4:2:0 and encoded as YCbCr; BGRA/BGRX/RGBA/RGBX are handed to the
// encoder directly (after a byte-order fixup, since the stdlib JPEG encoder
// wants RGB order, not BGR); any other FourCC fails with an *ndierrors.EncodeError.
// Scratch is resized only when (w, h) changes and never allocated on the hot
// path beyond the returned JPEG bytes themselves.
func EncodeFrame(data []byte, w, h, stride int, fourCC ndiapi.FourCC, quality int, scratch *Scratch) ([]byte, error) {
	scratch.EnsureCapacity(w, h)
	scratch.SetQuality(quality)

	opts := &jpeg.Options{Quality: quality}
	var buf bytes.Buffer

	switch fourCC {
	case ndiapi.FourCCUYVY:
		uyvyToYUV420Planar(data, stride, w, h, scratch.Y, scratch.U, scratch.V)
		img := &image.YCbCr{
			Y:              scratch.Y,
			Cb:             scratch.U,
			Cr:             scratch.V,
			YStride:        w,
			CStride:        w / 2,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           image.Rect(0, 0, w, h),
		}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, ndierrors.NewEncodeError(fourCC.String(), err)
		}
		return buf.Bytes(), nil

	case ndiapi.FourCCBGRA, ndiapi.FourCCBGRX:
		scratch.ensureRGBA(w, h)
		swizzleBGRAtoRGBA(data, stride, w, h, scratch.RGBA)
		img := &image.NRGBA{Pix: scratch.RGBA, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, ndierrors.NewEncodeError(fourCC.String(), err)
		}
		return buf.Bytes(), nil

	case ndiapi.FourCCRGBA, ndiapi.FourCCRGBX:
		scratch.ensureRGBA(w, h)
		copyRows(data, stride, w*4, h, scratch.RGBA)
		img := &image.NRGBA{Pix: scratch.RGBA, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, ndierrors.NewEncodeError(fourCC.String(), err)
		}
		return buf.Bytes(), nil

	default:
		// Includes UYVA, per spec.md §9: recognized by length derivation but
		// intentionally never wired to the encoder.
		return nil, ndierrors.NewEncodeError(fourCC.String(), nil)
	}
}

// swizzleBGRAtoRGBA copies a BGRA/BGRX buffer into an RGBA-ordered
// destination, row by row, honoring a source stride that may exceed w*4.
func swizzleBGRAtoRGBA(src []byte, stride, w, h int, dst []byte) {
	for r := 0; r < h; r++ {
		srcRow := src[r*stride : r*stride+w*4]
		dstRow := dst[r*w*4 : r*w*4+w*4]
		for c := 0; c < w; c++ {
			b := srcRow[c*4]
			g := srcRow[c*4+1]
			rr := srcRow[c*4+2]
			a := srcRow[c*4+3]
			dstRow[c*4] = rr
			dstRow[c*4+1] = g
			dstRow[c*4+2] = b
			dstRow[c*4+3] = a
		}
	}
}

// copyRows copies h rows of rowBytes length each from a buffer whose stride
// may exceed rowBytes into a tightly packed destination.
func copyRows(src []byte, stride, rowBytes, h int, dst []byte) {
	for r := 0; r < h; r++ {
		copy(dst[r*rowBytes:r*rowBytes+rowBytes], src[r*stride:r*stride+rowBytes])
	}
}
