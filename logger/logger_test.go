package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

func TestNew(t *testing.T) {
	if l := New(slog.LevelInfo); l == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       slog.Level
		shouldDebug bool
		shouldWarn  bool
	}{
		{"DEBUG", slog.LevelDebug, true, true},
		{"INFO", slog.LevelInfo, false, true},
		{"ERROR", slog.LevelError, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewLogger(tc.level, buf)
			l.Debug("debug-message")
			l.Warn("warn-message")

			if got := bytes.Contains(buf.Bytes(), []byte("debug-message")); got != tc.shouldDebug {
				t.Errorf("debug logged = %t, want %t", got, tc.shouldDebug)
			}
			if got := bytes.Contains(buf.Bytes(), []byte("warn-message")); got != tc.shouldWarn {
				t.Errorf("warn logged = %t, want %t", got, tc.shouldWarn)
			}
		})
	}
}

func TestErr(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLogger(slog.LevelDebug, buf)
	l.Error("render failed", Err(errors.New("intentionally failing")))

	if !bytes.Contains(buf.Bytes(), []byte(`error="intentionally failing"`)) {
		t.Errorf("expected error attribute in output, got: %q", buf.String())
	}
}
