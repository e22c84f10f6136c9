package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWriterLevels(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		expected   []string
		unexpected []string
	}{
		{
			name:       "info hides debug",
			expected:   []string{"table parsed"},
			unexpected: []string{"table not found"},
		},
		{
			name:     "debug shows everything",
			debug:    true,
			expected: []string{"table parsed", "table not found", "wait_events"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWriter(&buf, tt.debug)
			logger.Info("table parsed")
			logger.Debug("table not found", zap.String("table", "wait_events"))
			require.NoError(t, logger.Sync())

			out := buf.String()
			for _, s := range tt.expected {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.unexpected {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := New(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = New(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
