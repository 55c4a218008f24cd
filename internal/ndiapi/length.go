package ndiapi

// deriveStride repairs a zero line stride to the packed default for fourcc,
// per spec.md §4.1: w*2 for UYVY/UYVA, w*4 for 32-bit RGB/BGR, else w*2.
func deriveStride(fourCC FourCC, w, stride int) int {
	if stride != 0 {
		return stride
	}
	switch fourCC {
	case FourCCUYVY, FourCCUYVA:
		return w * 2
	case FourCCBGRA, FourCCBGRX, FourCCRGBA, FourCCRGBX:
		return w * 4
	default:
		return w * 2
	}
}

// deriveLength computes the byte length of a captured frame's buffer from
// (fourcc, w, h, stride) per the table in spec.md §4.1. stride must already
// be repaired (non-zero) by deriveStride.
func deriveLength(fourCC FourCC, w, h, stride int) int {
	switch fourCC {
	case FourCCUYVY:
		return stride * h
	case FourCCUYVA:
		return stride*h + w*h
	case FourCCI420, FourCCYV12, FourCCNV12:
		return stride * h * 3 / 2
	case FourCCBGRA, FourCCBGRX, FourCCRGBA, FourCCRGBX:
		return stride * h
	default:
		return stride * h
	}
}
