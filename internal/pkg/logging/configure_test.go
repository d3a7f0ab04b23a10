package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/nixbug/entebus-server/internal/config"
	"github.com/nixbug/entebus-server/internal/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	t.Run("disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Env.App.Env = "development"

		var out bytes.Buffer
		shipper := logging.Configure(cfg, &out)
		assert.Nil(t, shipper)

		slog.Info("hello")
		assert.Contains(t, out.String(), "msg=hello")
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Env.App.Env = "production"
		cfg.Env.OpenObserve = config.OpenObserve{Enabled: true, Protocol: "http", Host: "127.0.0.1", Port: "1", Username: "admin@entebus.com", Password: "password"}

		var out bytes.Buffer
		shipper := logging.Configure(cfg, &out)
		require.NotNil(t, shipper)

		slog.Info("shipped")
		require.NoError(t, shipper.Close(context.Background()))

		assert.Contains(t, out.String(), `"msg":"shipped"`)
	})
}
