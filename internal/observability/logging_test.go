package observability

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"chatty", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			log, err := NewLogger(tt.in)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", tt.in, err)
			}
			if !log.Core().Enabled(tt.want) {
				t.Fatalf("level %s should be enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
				t.Fatalf("level %s should be disabled", tt.want-1)
			}
		})
	}
}
