package commands

import (
	"context"
	"io"
	"os"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/pkg/observability"
	"github.com/clebertsuconic/git-release-report/pkg/version"
)

// Standard OTLP environment variables, used when the config leaves the
// endpoint unset.
const (
	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPHeaders  = "OTEL_EXPORTER_OTLP_HEADERS"
	envOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
)

// observabilityConfig maps the telemetry settings onto the providers config.
func observabilityConfig(settings *config.Config, mode observability.AppMode, prometheus bool) (observability.Config, error) {
	tc := settings.Telemetry

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Environment = tc.Environment
	cfg.Mode = mode
	cfg.LogJSON = tc.LogJSON
	cfg.SampleRatio = tc.SampleRatio
	cfg.Prometheus = prometheus

	level, err := settings.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	cfg.LogLevel = level

	cfg.OTLPEndpoint = tc.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(tc.OTLPHeaders)
	cfg.OTLPInsecure = tc.OTLPInsecure

	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = os.Getenv(envOTLPEndpoint)
		cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
		cfg.OTLPInsecure = os.Getenv(envOTLPInsecure) == "true"
	}

	return cfg, nil
}

// initObservability builds the providers with logs written to logOut.
func initObservability(
	settings *config.Config,
	mode observability.AppMode,
	prometheus bool,
	logOut io.Writer,
) (observability.Providers, error) {
	cfg, err := observabilityConfig(settings, mode, prometheus)
	if err != nil {
		return observability.Providers{}, err
	}

	return observability.InitWithWriter(cfg, logOut)
}

func shutdownObservability(providers observability.Providers) {
	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil {
		providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}
