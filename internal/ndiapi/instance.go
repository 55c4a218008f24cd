package ndiapi

import (
	"unsafe"

	"github.com/hassler-labs/streambridge/internal/ndierrors"
)

// Instance is the top-level NDI library handle. It must stay alive for the
// duration of NDI usage; Close calls NDIlib_destroy.
type Instance struct {
	api *api
}

// Load initializes the native NDI runtime, following the search order and
// entry points fixed by spec.md §6.
func Load() (*Instance, error) {
	a, err := load()
	if err != nil {
		return nil, err
	}
	if ok := a.initialize(); !ok {
		return nil, ndierrors.NewRuntimeError("initialize", nil)
	}
	return &Instance{api: a}, nil
}

// Close releases the runtime. Safe to call once.
func (i *Instance) Close() {
	if i == nil || i.api == nil {
		return
	}
	i.api.destroy()
}

// Version returns the loaded runtime's version string, or "unknown".
func (i *Instance) Version() string {
	p := i.api.version()
	if s := cString(p); s != "" {
		return s
	}
	return "unknown"
}

// CreateFinder begins network discovery.
func (i *Instance) CreateFinder(showLocalSources bool) (*FindInstance, error) {
	settings := findCreateT{}
	if showLocalSources {
		settings.showLocalSources = 1
	}
	handle := i.api.findCreateV2(uintptr(unsafe.Pointer(&settings)))
	if handle == 0 {
		return nil, ndierrors.NewRuntimeError("find_create_v2", nil)
	}
	return &FindInstance{handle: handle, api: i.api}, nil
}

// CreateReceiver creates a receiver with a deferred (null) initial source;
// Connect must be called before frames are produced.
func (i *Instance) CreateReceiver(bandwidth RecvBandwidth, colorFormat RecvColorFormat) (*ReceiveInstance, error) {
	settings := recvCreateV3T{
		colorFormat: int32(colorFormat),
		bandwidth:   int32(bandwidth),
	}
	settings.allowVideoFields = 1
	handle := i.api.recvCreateV3(uintptr(unsafe.Pointer(&settings)))
	if handle == 0 {
		return nil, ndierrors.NewRuntimeError("recv_create_v3", nil)
	}
	return &ReceiveInstance{handle: handle, api: i.api}, nil
}

// FindInstance discovers NDI sources on the network. The NDI SDK documents
// find instances as safe to use from any thread.
type FindInstance struct {
	handle uintptr
	api    *api
}

// WaitForSources blocks up to timeoutMs waiting for the source list to
// change, returning whether it did.
func (f *FindInstance) WaitForSources(timeoutMs uint32) bool {
	return f.api.findWaitForSources(f.handle, timeoutMs)
}

// CurrentSources returns a snapshot of the latest known sources.
func (f *FindInstance) CurrentSources() []Source {
	var count uint32
	ptr := f.api.findGetCurrentSources(f.handle, uintptr(unsafe.Pointer(&count)))
	if ptr == 0 || count == 0 {
		return nil
	}
	out := make([]Source, 0, count)
	const stride = unsafe.Sizeof(sourceT{})
	for idx := uint32(0); idx < count; idx++ {
		s := (*sourceT)(unsafe.Pointer(ptr + uintptr(idx)*stride))
		out = append(out, Source{
			Name: cString(s.pNdiName),
			URL:  cString(s.pURLAddress),
		})
	}
	return out
}

// Close releases the finder. Safe to call once.
func (f *FindInstance) Close() {
	if f == nil || f.handle == 0 {
		return
	}
	f.api.findDestroy(f.handle)
}

// ReceiveInstance receives frames from a connected source. The NDI SDK
// documents receive instances as safe to use from any thread, but spec.md
// §4.3 confines each one to a single dedicated worker goroutine in practice.
type ReceiveInstance struct {
	handle uintptr
	api    *api
}

// Connect binds the receiver to source. An empty Source is still passed as a
// non-null source record with an empty name; Disconnect is the call that
// passes a null source.
func (r *ReceiveInstance) Connect(source Source) {
	nameBuf := newCString(source.Name)
	var urlBuf []byte
	src := sourceT{pNdiName: addrOf(nameBuf)}
	if source.URL != "" {
		urlBuf = newCString(source.URL)
		src.pURLAddress = addrOf(urlBuf)
	}
	r.api.recvConnect(r.handle, uintptr(unsafe.Pointer(&src)))
}

// Disconnect releases the current source.
func (r *ReceiveInstance) Disconnect() {
	r.api.recvConnect(r.handle, 0)
}

// VideoFrame is the Go-side view of a captured NDI video frame. Data is only
// valid between a Video-typed Capture return and the matching FreeVideo.
type VideoFrame struct {
	Width, Height int
	FourCC        FourCC
	StrideBytes   int
	FrameRateN    int32
	FrameRateD    int32
	FrameFormat   FrameFormatType
	Timecode      int64
	Timestamp     int64
	Data          []byte

	raw videoFrameV2T
}

// Capture blocks up to timeoutMs. On FrameTypeVideo, the returned VideoFrame
// must be passed to FreeVideo exactly once; all other frame types carry no
// buffer to free (spec.md §4.1).
func (r *ReceiveInstance) Capture(timeoutMs uint32) (FrameType, *VideoFrame) {
	var raw videoFrameV2T
	ft := FrameType(r.api.recvCaptureV3(r.handle, uintptr(unsafe.Pointer(&raw)), 0, 0, timeoutMs))
	if ft != FrameTypeVideo {
		return ft, nil
	}

	stride := deriveStride(FourCC(raw.fourCC), int(raw.xres), int(raw.lineStrideInBytes))
	length := deriveLength(FourCC(raw.fourCC), int(raw.xres), int(raw.yres), stride)

	var data []byte
	if raw.pData != 0 && length > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(raw.pData)), length)
	}

	vf := &VideoFrame{
		Width:       int(raw.xres),
		Height:      int(raw.yres),
		FourCC:      FourCC(raw.fourCC),
		StrideBytes: stride,
		FrameRateN:  raw.frameRateN,
		FrameRateD:  raw.frameRateD,
		FrameFormat: FrameFormatType(raw.frameFormatType),
		Timecode:    raw.timecode,
		Timestamp:   raw.timestamp,
		Data:        data,
		raw:         raw,
	}
	return ft, vf
}

// FreeVideo releases a video frame previously returned by Capture. Must be
// called exactly once per Video-typed Capture return, on every exit path.
func (r *ReceiveInstance) FreeVideo(vf *VideoFrame) {
	if vf == nil {
		return
	}
	r.api.recvFreeVideoV2(r.handle, uintptr(unsafe.Pointer(&vf.raw)))
}

// Close releases the receiver. Safe to call once.
func (r *ReceiveInstance) Close() {
	if r == nil || r.handle == 0 {
		return
	}
	r.api.recvDestroy(r.handle)
}
