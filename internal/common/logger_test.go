package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", want: slog.LevelInfo, wantErr: true},
		{input: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	logger := slog.New(handler)
	logger.Debug("hidden")
	logger.Info("Fetched transactions", "page", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"Fetched transactions"`)
	assert.Contains(t, buf.String(), `"page":2`)

	buf.Reset()
	handler, err = NewHandler(&buf, slog.LevelDebug, "console")
	require.NoError(t, err)
	slog.New(handler).Debug("Created transaction", "id", "TX-ABCD1234")
	assert.Contains(t, buf.String(), "id=TX-ABCD1234")

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
