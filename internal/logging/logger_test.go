package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"console info", Config{Level: "info", Format: "console"}, false},
		{"json debug", Config{Level: "debug", Format: "JSON"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("moved folder", zap.String("dest", "/x"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"moved folder"`)
	assert.Contains(t, out, `"dest":"/x"`)
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	tl.Warn("history rewrite failed")

	tl.AssertLogged(t, zapcore.WarnLevel, "rewrite failed")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "rewrite failed")
	assert.Len(t, tl.All(), 1)
}
