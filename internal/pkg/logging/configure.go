package logging

import (
	"io"

	"github.com/nixbug/entebus-server/internal/config"
)

// Configure installs the default logger from cfg. When OpenObserve shipping
// is enabled the returned shipper receives every record and must be closed
// by the caller; otherwise it is nil.
func Configure(cfg *config.Config, out io.Writer) *OpenObserveShipper {
	app := cfg.Env.App
	oo := cfg.Env.OpenObserve

	if !oo.Enabled {
		SetupLogger(app.Env, app.LogLevel, out)
		return nil
	}

	shipper := NewOpenObserveShipper(OpenObserveConfig{
		URL:           cfg.OpenObserveURL(),
		Username:      oo.Username,
		Password:      oo.Password,
		BatchSize:     cfg.Logging.BatchSize,
		BufferSize:    cfg.Logging.BufferSize,
		FlushInterval: cfg.Logging.FlushInterval.Duration,
		Timeout:       cfg.Logging.Timeout.Duration,
	})
	SetupLogger(app.Env, app.LogLevel, out, shipper)
	return shipper
}
