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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel(" warning "))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).With(map[string]any{"request_id": "r-1"})

	l.Warn("denied", map[string]any{"operation": "patient:delete", "error": errors.New("nope"), "": "skip"})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "r-1", ctx["request_id"])
	assert.Equal(t, "patient:delete", ctx["operation"])
	assert.Equal(t, "nope", ctx["error"])
	_, hasEmpty := ctx[""]
	assert.False(t, hasEmpty)
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info("ignored", nil)

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), Wrap(zap.New(core)))
	FromContext(ctx).Info("kept", nil)
	assert.Equal(t, 1, logs.Len())
}
