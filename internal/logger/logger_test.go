package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := log
	log = zap.New(core)
	t.Cleanup(func() { log = prev })
	return logs
}

func TestInitialize_WithoutSentry(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true}))
	assert.NotNil(t, log)
	assert.Nil(t, sentryClient)

	// no sentry client to flush
	Flush(0)
}

func TestWithStream_AddsStreamFields(t *testing.T) {
	logs := observe(t)

	ctx := WithStream(context.Background(), "wapal", "0xabc")
	InfoCtx(ctx, "Round persisted", zap.Uint64("version", 10))
	ErrorCtx(ctx, errors.New("write failed"))

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		fields := e.ContextMap()
		assert.Equal(t, "wapal", fields["marketplace"])
		assert.Equal(t, "0xabc", fields["contract"])
	}
	assert.Equal(t, uint64(10), entries[0].ContextMap()["version"])
	assert.Equal(t, "write failed", entries[1].Message)
}

func TestCtxWithoutStream(t *testing.T) {
	logs := observe(t)

	WarnCtx(context.Background(), "NATS url not configured")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "marketplace")
	assert.NotContains(t, entries[0].ContextMap(), "contract")
}

func TestError_NilError(t *testing.T) {
	logs := observe(t)

	Error(nil, zap.String("component", "server"))

	entries := logs.FilterMessage("error occurred").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "server", entries[0].ContextMap()["component"])
}
