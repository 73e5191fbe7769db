package app_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnwards/inflowsync/internal/app"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := app.NewLogger(&bytes.Buffer{}, tt.level)
			ctx := context.Background()

			assert.True(t, logger.Enabled(ctx, tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, logger.Enabled(ctx, tt.want-1))
			}
		})
	}
}

func TestNewLoggerWritesText(t *testing.T) {
	var buf bytes.Buffer
	app.NewLogger(&buf, "info").Info("seeded resource", "resource", "vendors", "rows", 3)

	assert.Contains(t, buf.String(), "msg=\"seeded resource\"")
	assert.Contains(t, buf.String(), "resource=vendors")
	assert.Contains(t, buf.String(), "rows=3")
}
