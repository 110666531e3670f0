package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a zap logger configured for structured production
// logging. Unrecognized level names fall back to info instead of failing
// startup.
func NewLogger(level string) (*zap.Logger, error) {
	selected := zapcore.InfoLevel
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "warning" {
		normalized = "warn"
	}
	if normalized != "" {
		if parsed, err := zapcore.ParseLevel(normalized); err == nil {
			selected = parsed
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(selected)
	return cfg.Build()
}
