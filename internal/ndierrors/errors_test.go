package ndierrors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestIsFatalClassification(t *testing.T) {
	root := stdErrors.New("root")
	wrapped := fmt.Errorf("adding context: %w", root)
	ce := NewCaptureError("CAM1", wrapped)
	if !IsFatal(ce) {
		t.Fatalf("expected IsFatal=true for capture error")
	}
	if !stdErrors.Is(ce, root) {
		t.Fatalf("expected errors.Is to find root cause")
	}
	var cerr *CaptureError
	if !stdErrors.As(ce, &cerr) {
		t.Fatalf("expected errors.As to *CaptureError")
	}
	if cerr.Source != "CAM1" {
		t.Fatalf("unexpected source: %s", cerr.Source)
	}

	re := NewRuntimeError("find_create_v2", nil)
	if !IsFatal(re) {
		t.Fatalf("expected runtime error classified as fatal")
	}

	ee := NewEncodeError("UYVA", stdErrors.New("unsupported fourcc"))
	if IsFatal(ee) {
		t.Fatalf("encode error must never be fatal")
	}
}

func TestUnwrapChains(t *testing.T) {
	base := stdErrors.New("capture failed")
	l1 := fmt.Errorf("recv_capture_v3: %w", base)
	l2 := NewCaptureError("CAM2", l1)
	if !stdErrors.Is(l2, base) {
		t.Fatalf("errors.Is should reach base cause")
	}
	var fm fatalMarker
	if !stdErrors.As(l2, &fm) {
		t.Fatalf("expected to match fatalMarker via As")
	}
}

func TestNilSafety(t *testing.T) {
	if IsFatal(nil) {
		t.Fatalf("nil should not be fatal")
	}
}

func TestConstructorWithoutCause(t *testing.T) {
	ee := NewEncodeError("XYZW", nil)
	if ee == nil {
		t.Fatalf("constructor returned nil")
	}
	if errStr := ee.Error(); errStr == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestSourceNotFoundError(t *testing.T) {
	err := NewSourceNotFoundError("NOPE", nil)
	if err.Error() == "" {
		t.Fatalf("empty source-not-found error string")
	}
	if IsFatal(err) {
		t.Fatalf("source-not-found is a lookup failure, not a worker-fatal error")
	}

	cause := stdErrors.New("recv_create_v3 failed")
	wrapped := NewSourceNotFoundError("CAM1", cause)
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("expected errors.Is to reach the wrapped cause")
	}
}

func TestNegativePredicates(t *testing.T) {
	if IsFatal(stdErrors.New("plain")) {
		t.Fatalf("plain error shouldn't be fatal")
	}
}
