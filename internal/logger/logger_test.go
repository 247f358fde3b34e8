package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		json      bool
		debug     bool
		wantDebug bool
	}{
		{"console info", false, false, false},
		{"json info", true, false, false},
		{"console debug", false, true, true},
		{"json debug", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.json, tt.debug)
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Equal(t, tt.wantDebug, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestStringFields(t *testing.T) {
	fields := StringFields("  job_id  ", "  job-1  ", "ignored", "   ", "   ", "empty key", "dangling")

	require.Len(t, fields, 1)
	assert.Equal(t, "job_id", fields[0].Key)
	assert.Equal(t, "job-1", fields[0].String)

	assert.Empty(t, StringFields())
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String(FieldCandidate, "cand-1")).Info("scored")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cand-1", entries[0].ContextMap()[FieldCandidate])

	fallback := WithFields(nil, zap.String("k", "v"))
	require.NotNil(t, fallback)
	fallback.Info("does not panic")
}

func TestProviderFields(t *testing.T) {
	fields := ProviderFields("gemini", "text-embedding-004")
	require.Len(t, fields, 2)
	assert.Equal(t, FieldProvider, fields[0].Key)
	assert.Equal(t, FieldModel, fields[1].Key)

	assert.Len(t, ProviderFields("hashing", ""), 1)
}
