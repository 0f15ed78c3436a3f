package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersAttachServiceField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	old := SetServiceName("test-svc")
	defer SetServiceName(old)

	Info("appended %d points", 3)
	Warn("rejected batch: %s", "bad price")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "appended 3 points" {
		t.Errorf("unexpected message %q", entries[0].Message)
	}
	if got := entries[1].ContextMap()["service"]; got != "test-svc" {
		t.Errorf("expected service field test-svc, got %v", got)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
}
