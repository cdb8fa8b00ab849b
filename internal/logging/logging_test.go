package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"default hides debug", false, false},
		{"debug enables debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.debug)
			if err != nil {
				t.Fatalf("New(%v) error = %v", tt.debug, err)
			}
			defer logger.Sync()

			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !logger.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info level should always be enabled")
			}
		})
	}
}

func TestNoopImplementsLogger(t *testing.T) {
	var l Logger = Noop()
	// Must not panic and must accept arbitrary key/value pairs.
	l.Debugw("msg", "k", 1)
	l.Infow("msg")
	l.Warnw("msg", "k", "v", "n", 2)
	l.Errorw("msg", "err", "boom")
}
