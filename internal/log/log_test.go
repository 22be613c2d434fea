package log

import (
	"path/filepath"
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
	prevLog, prevPlain, prevBase := log, plain, baseLogger
	t.Cleanup(func() { log, plain, baseLogger = prevLog, prevPlain, prevBase })
	setBase(zap.New(core, zap.AddCaller()))
	return logs
}

func TestCallerIsTheCallSite(t *testing.T) {
	logs := observe(t)

	Infow("helper")
	GetSugaredLogger().Infow("injected")
	Debugw("debug helper")

	entries := logs.All()
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.True(t, e.Caller.Defined, e.Message)
		assert.Equal(t, "log_test.go", filepath.Base(e.Caller.File), e.Message)
	}
}

func TestInit(t *testing.T) {
	prevLog, prevPlain, prevBase := log, plain, baseLogger
	t.Cleanup(func() { log, plain, baseLogger = prevLog, prevPlain, prevBase })

	require.NoError(t, Init(true))
	assert.NotNil(t, GetSugaredLogger())
	assert.NotSame(t, log, GetSugaredLogger())
}
