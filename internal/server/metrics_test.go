package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
)

func TestNewMetricsServerRequiresEnabledProvider(t *testing.T) {
	_, err := NewMetricsServer(":9090", nil, nil)
	assert.Error(t, err)

	disabled, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	require.NoError(t, err)
	_, err = NewMetricsServer(":9090", disabled, nil)
	assert.Error(t, err)
}

func TestNewMetricsServerDefaultsAddr(t *testing.T) {
	cfg := instrumentation.DefaultConfig()
	cfg.Enabled = true
	cfg.MetricsExporter = instrumentation.ExporterPrometheus
	cfg.TracingExporter = instrumentation.ExporterNone

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	srv, err := NewMetricsServer("", provider, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, srv.Addr())
}
