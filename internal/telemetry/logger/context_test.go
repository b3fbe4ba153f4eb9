package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func newBufferLogger(t *testing.T) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func TestWithLogger_FromContext(t *testing.T) {
	l, buf := newBufferLogger(t)

	ctx := WithLogger(context.Background(), l)

	retrieved := FromContext(ctx)
	if retrieved == nil {
		t.Fatal("FromContext returned nil")
	}

	retrieved.Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	// Should return default logger when none is set
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "01J9Z3K4M5N6P7Q8R9S0T1V2W3")

	if got := RequestIDFromContext(ctx); got != "01J9Z3K4M5N6P7Q8R9S0T1V2W3" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty string", got)
	}
}

func TestRequestIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, 42)

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty string", got)
	}
}

func TestL_WithRequestID(t *testing.T) {
	l, buf := newBufferLogger(t)

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-12345")

	L(ctx).Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if reqID, ok := logEntry["request_id"].(string); !ok || reqID != "req-12345" {
		t.Errorf("Expected request_id='req-12345', got %v", logEntry["request_id"])
	}
}

func TestL_NoRequestID(t *testing.T) {
	l, buf := newBufferLogger(t)

	ctx := WithLogger(context.Background(), l)

	L(ctx).Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if _, ok := logEntry["request_id"]; ok {
		t.Error("Should not have request_id when not set")
	}
}

func TestContextKeyCollision(t *testing.T) {
	l, _ := newBufferLogger(t)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithLogger(ctx, l)

	if reqID := RequestIDFromContext(ctx); reqID != "req-123" {
		t.Errorf("RequestID collision, got %q", reqID)
	}
	if FromContext(ctx) != l {
		t.Error("logger collision")
	}

	// A plain string key with the same text must not be mistaken for ours.
	ctx = context.WithValue(context.Background(), "tlsserve.request_id", "foreign")
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		t.Errorf("foreign key leaked into RequestIDFromContext: %q", reqID)
	}
}
