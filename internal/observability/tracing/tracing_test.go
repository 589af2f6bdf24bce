package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewProvider_DisabledInstallsNoop(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	provider, err := NewProvider(lc, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)

	_, span := provider.Tracer("clinicore/test").Start(context.Background(), "op")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestNewExporter_RejectsUnknownProtocol(t *testing.T) {
	_, err := newExporter(context.Background(), "carrier-pigeon", "localhost:4317")
	assert.Error(t, err)
}
