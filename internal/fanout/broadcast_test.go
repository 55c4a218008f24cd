package fanout

import (
	"context"
	"testing"
	"time"
)

func TestPublishSubscribeInOrder(t *testing.T) {
	b := New(4)
	r, ok := b.Subscribe()
	if !ok {
		t.Fatalf("subscribe failed")
	}
	b.Publish(Frame("one"))
	b.Publish(Frame("two"))

	ctx := context.Background()
	f, err := r.Recv(ctx)
	if err != nil || string(f) != "one" {
		t.Fatalf("unexpected first frame: %q err=%v", f, err)
	}
	f, err = r.Recv(ctx)
	if err != nil || string(f) != "two" {
		t.Fatalf("unexpected second frame: %q err=%v", f, err)
	}
}

func TestPublishZeroSubscribersIsNoop(t *testing.T) {
	b := New(4)
	b.Publish(Frame("nobody home"))
}

func TestLagToleranceDoesNotBlockOtherSubscribers(t *testing.T) {
	b := New(2)
	slow, _ := b.Subscribe()
	fast, _ := b.Subscribe()

	// Overfill beyond slow's capacity; fast reads after each publish and must
	// still receive every frame while slow never reads.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 10; i++ {
		b.Publish(Frame{byte(i)})
		f, err := fast.Recv(ctx)
		if err != nil {
			t.Fatalf("fast subscriber should not lag: %v", err)
		}
		if f[0] != byte(i) {
			t.Fatalf("fast subscriber got out-of-order frame: %v", f)
		}
	}

	_, err := slow.Recv(ctx)
	lagged, ok := err.(*LaggedError)
	if !ok {
		t.Fatalf("expected slow subscriber to report LaggedError, got %v", err)
	}
	if lagged.N <= 0 {
		t.Fatalf("expected lagged.N > 0, got %d", lagged.N)
	}

	// After the lag notice, the slow subscriber drains its two surviving
	// buffered frames (the newest two published: indices 8 and 9).
	f, err := slow.Recv(ctx)
	if err != nil {
		t.Fatalf("expected a frame after lag notice, got error: %v", err)
	}
	if f[0] != 8 {
		t.Fatalf("expected oldest surviving frame (8), got %v", f[0])
	}
	f, err = slow.Recv(ctx)
	if err != nil {
		t.Fatalf("expected a second frame after lag notice, got error: %v", err)
	}
	if f[0] != 9 {
		t.Fatalf("expected newest frame (9), got %v", f[0])
	}
}

func TestCloseSignalsClosedAfterDrain(t *testing.T) {
	b := New(4)
	r, _ := b.Subscribe()
	b.Publish(Frame("last"))
	b.Close()

	ctx := context.Background()
	f, err := r.Recv(ctx)
	if err != nil || string(f) != "last" {
		t.Fatalf("expected buffered frame before close signal, got %q err=%v", f, err)
	}
	_, err = r.Recv(ctx)
	if err != ErrClosed {
		t.Fatalf("expected ErrClosed after drain, got %v", err)
	}
}

func TestSubscriberCount(t *testing.T) {
	b := New(4)
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers initially")
	}
	r, _ := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	r.Unsubscribe()
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after unsubscribe")
	}
}
