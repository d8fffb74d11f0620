package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, l)
	// Smoke: must not panic.
	l.Info("hello", String("k", "v"))
}

func TestObservedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Info("candidate excluded",
		String("author_id", "a-1"),
		Int("publication_count", 3),
		Bool("excluded", true),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "candidate excluded", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "a-1", fields["author_id"])
	assert.Equal(t, int64(3), fields["publication_count"])
	assert.Equal(t, true, fields["excluded"])
}

func TestWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("profile").With(String("request_id", "r-9"))

	l.Warn("enrichment failed, using original author")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "profile", entries[0].LoggerName)
	assert.Equal(t, "r-9", entries[0].ContextMap()["request_id"])
}

func TestErrField(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	// Must be inert and chainable.
	l.With(String("a", "b")).Named("x").Error("ignored")
}

func TestDefaultLoggerSwap(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("via default")

	assert.Equal(t, 1, logs.Len())
	SetDefault(nil) // must be a no-op
	assert.NotNil(t, Default())
}
