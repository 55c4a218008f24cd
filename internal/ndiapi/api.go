package ndiapi

import (
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/hassler-labs/streambridge/internal/ndierrors"
)

// EnvRuntimeDir is the fallback directory searched for the native runtime
// when the system loader can't find it by name alone (spec.md §6).
const EnvRuntimeDir = "NDI_RUNTIME_DIR_V6"

func candidateNames() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"Processing.NDI.Lib.x64.dll"}
	case "darwin":
		return []string{"libndi.dylib", "libndi.4.dylib"}
	default:
		return []string{"libndi.so.6", "libndi.so.5", "libndi.so"}
	}
}

// api holds the resolved function table. All twelve symbols are ABI-fixed by
// spec.md §6; the SDK documents them as thread-safe.
type api struct {
	lib uintptr

	initialize func() bool
	destroy    func()
	version    func() uintptr

	findCreateV2          func(settings uintptr) uintptr
	findDestroy           func(handle uintptr)
	findWaitForSources    func(handle uintptr, timeoutMs uint32) bool
	findGetCurrentSources func(handle uintptr, count uintptr) uintptr

	recvCreateV3     func(settings uintptr) uintptr
	recvDestroy      func(handle uintptr)
	recvConnect      func(handle uintptr, source uintptr)
	recvCaptureV3    func(handle uintptr, video uintptr, audio uintptr, metadata uintptr, timeoutMs uint32) int32
	recvFreeVideoV2  func(handle uintptr, video uintptr)
}

// load opens the native runtime following the search order from spec.md §6:
// system default first, then $NDI_RUNTIME_DIR_V6, and binds every symbol.
func load() (*api, error) {
	var handle uintptr
	var lastErr error

	for _, name := range candidateNames() {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			handle = h
			break
		}
		lastErr = err
	}

	if handle == 0 {
		if dir := os.Getenv(EnvRuntimeDir); dir != "" {
			for _, name := range candidateNames() {
				h, err := purego.Dlopen(filepath.Join(dir, name), purego.RTLD_NOW|purego.RTLD_GLOBAL)
				if err == nil {
					handle = h
					lastErr = nil
					break
				}
				lastErr = err
			}
		}
	}

	if handle == 0 {
		return nil, ndierrors.NewRuntimeError("load", lastErr)
	}

	a := &api{lib: handle}
	purego.RegisterLibFunc(&a.initialize, handle, "NDIlib_initialize")
	purego.RegisterLibFunc(&a.destroy, handle, "NDIlib_destroy")
	purego.RegisterLibFunc(&a.version, handle, "NDIlib_version")
	purego.RegisterLibFunc(&a.findCreateV2, handle, "NDIlib_find_create_v2")
	purego.RegisterLibFunc(&a.findDestroy, handle, "NDIlib_find_destroy")
	purego.RegisterLibFunc(&a.findWaitForSources, handle, "NDIlib_find_wait_for_sources")
	purego.RegisterLibFunc(&a.findGetCurrentSources, handle, "NDIlib_find_get_current_sources")
	purego.RegisterLibFunc(&a.recvCreateV3, handle, "NDIlib_recv_create_v3")
	purego.RegisterLibFunc(&a.recvDestroy, handle, "NDIlib_recv_destroy")
	purego.RegisterLibFunc(&a.recvConnect, handle, "NDIlib_recv_connect")
	purego.RegisterLibFunc(&a.recvCaptureV3, handle, "NDIlib_recv_capture_v3")
	purego.RegisterLibFunc(&a.recvFreeVideoV2, handle, "NDIlib_recv_free_video_v2")

	return a, nil
}

// cString reads a NUL-terminated C string from a raw address. Returns "" for
// a nil pointer.
func cString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var buf []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(ptr + i))
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

// newCString allocates a Go-owned, NUL-terminated byte buffer and returns its
// address. The caller must keep the returned slice alive (via a local var)
// for as long as the native call may read it.
func newCString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
