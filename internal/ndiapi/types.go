// Package ndiapi is a thin, safe wrapper over the NDI runtime's C ABI,
// loaded dynamically at process start via purego rather than cgo.
package ndiapi

import "fmt"

// FrameType is the tag returned by recv_capture_v3.
type FrameType int32

const (
	FrameTypeNone         FrameType = 0
	FrameTypeVideo        FrameType = 1
	FrameTypeAudio        FrameType = 2
	FrameTypeMetadata     FrameType = 3
	FrameTypeError        FrameType = 4
	FrameTypeStatusChange FrameType = 100
)

func (t FrameType) String() string {
	switch t {
	case FrameTypeNone:
		return "none"
	case FrameTypeVideo:
		return "video"
	case FrameTypeAudio:
		return "audio"
	case FrameTypeMetadata:
		return "metadata"
	case FrameTypeError:
		return "error"
	case FrameTypeStatusChange:
		return "status_change"
	default:
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
}

// FourCC is a packed 32-bit video pixel-format tag, ASCII bytes little-endian
// the way the native ABI defines it (see §4.1/§6 of the spec).
type FourCC uint32

func fourcc(a, b, c, d byte) FourCC {
	return FourCC(a) | FourCC(b)<<8 | FourCC(c)<<16 | FourCC(d)<<24
}

var (
	FourCCUYVY = fourcc('U', 'Y', 'V', 'Y')
	FourCCUYVA = fourcc('U', 'Y', 'V', 'A')
	FourCCI420 = fourcc('I', '4', '2', '0')
	FourCCNV12 = fourcc('N', 'V', '1', '2')
	FourCCYV12 = fourcc('Y', 'V', '1', '2')
	FourCCBGRA = fourcc('B', 'G', 'R', 'A')
	FourCCBGRX = fourcc('B', 'G', 'R', 'X')
	FourCCRGBA = fourcc('R', 'G', 'B', 'A')
	FourCCRGBX = fourcc('R', 'G', 'B', 'X')
)

// String renders the four ASCII bytes packed into the tag, or a hex fallback
// for tags this package does not recognize (the spec's "Unknown(u32)" arm).
func (f FourCC) String() string {
	switch f {
	case FourCCUYVY:
		return "UYVY"
	case FourCCUYVA:
		return "UYVA"
	case FourCCI420:
		return "I420"
	case FourCCNV12:
		return "NV12"
	case FourCCYV12:
		return "YV12"
	case FourCCBGRA:
		return "BGRA"
	case FourCCBGRX:
		return "BGRX"
	case FourCCRGBA:
		return "RGBA"
	case FourCCRGBX:
		return "RGBX"
	default:
		return fmt.Sprintf("Unknown(0x%08x)", uint32(f))
	}
}

// FrameFormatType mirrors NDIlib_frame_format_type_e.
type FrameFormatType int32

const (
	FrameFormatInterleaved FrameFormatType = 0
	FrameFormatProgressive FrameFormatType = 1
	FrameFormatField0      FrameFormatType = 2
	FrameFormatField1      FrameFormatType = 3
)

// RecvBandwidth mirrors NDIlib_recv_bandwidth_e.
type RecvBandwidth int32

const (
	RecvBandwidthMetadataOnly RecvBandwidth = -10
	RecvBandwidthAudioOnly    RecvBandwidth = 10
	RecvBandwidthLowest       RecvBandwidth = 0
	RecvBandwidthHighest      RecvBandwidth = 100
)

// RecvColorFormat mirrors NDIlib_recv_color_format_e.
type RecvColorFormat int32

const (
	RecvColorFormatBGRXBGRA RecvColorFormat = 0
	RecvColorFormatUYVYBGRA RecvColorFormat = 1
	RecvColorFormatRGBXRGBA RecvColorFormat = 2
	RecvColorFormatUYVYRGBA RecvColorFormat = 3
	RecvColorFormatFastest  RecvColorFormat = 100
	RecvColorFormatBest     RecvColorFormat = 101
)

// Source is the stable identity of a discovered NDI stream: name is the
// identity key, URL is an optional connection hint. Immutable once observed.
type Source struct {
	Name string
	URL  string // empty means "no URL hint"
}
