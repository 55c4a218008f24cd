package hooks

import (
	"context"
	"testing"
	"time"
)

func TestEvent(t *testing.T) {
	event := NewEvent(ClientConnected).
		WithSource("CAM1").
		WithSessionID("sess-1").
		WithData("peer_addr", "192.168.1.100:54321")

	if event.Type != ClientConnected {
		t.Errorf("expected type %s, got %s", ClientConnected, event.Type)
	}
	if event.Source != "CAM1" {
		t.Errorf("expected source CAM1, got %s", event.Source)
	}
	if event.SessionID != "sess-1" {
		t.Errorf("expected session sess-1, got %s", event.SessionID)
	}
	if event.Data["peer_addr"] != "192.168.1.100:54321" {
		t.Errorf("unexpected peer_addr: %v", event.Data["peer_addr"])
	}

	if str := event.String(); str != "client_connected:CAM1" {
		t.Errorf("expected string 'client_connected:CAM1', got %s", str)
	}
}

func TestManagerRegisterAndTrigger(t *testing.T) {
	manager := NewManager(DefaultConfig(), nil)
	defer manager.Close()

	hook := NewWebhookHook("test", "https://example.invalid/webhook", time.Second)
	if err := manager.RegisterHook(WorkerStarted, hook); err != nil {
		t.Fatalf("register hook: %v", err)
	}

	if !manager.UnregisterHook(WorkerStarted, "test") {
		t.Error("expected unregister to succeed")
	}
	if manager.UnregisterHook(WorkerStarted, "test") {
		t.Error("expected second unregister to fail")
	}

	// Triggering with no hooks registered must not panic or block.
	manager.TriggerEvent(context.Background(), *NewEvent(WorkerStarted))
}

func TestManagerFireIsNilSafe(t *testing.T) {
	var m *Manager
	m.Fire(NewEvent(SourceLost))
}

func TestStdioHook(t *testing.T) {
	hook := NewStdioHook("stdio-test", "json")
	if hook.Type() != "stdio" {
		t.Errorf("expected type stdio, got %s", hook.Type())
	}
	if hook.ID() != "stdio-test" {
		t.Errorf("expected id stdio-test, got %s", hook.ID())
	}
	if hook.format != "json" {
		t.Errorf("expected format json, got %s", hook.format)
	}
}

func TestWebhookHook(t *testing.T) {
	hook := NewWebhookHook("webhook-test", "https://example.invalid/webhook", 30*time.Second)
	if hook.Type() != "webhook" {
		t.Errorf("expected type webhook, got %s", hook.Type())
	}
	hook.AddHeader("Authorization", "Bearer token")
	if hook.headers["Authorization"] != "Bearer token" {
		t.Errorf("expected header to be set, got %v", hook.headers)
	}
}
