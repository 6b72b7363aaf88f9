package main

import (
	"context"
	"fmt"
	"os"
	"time"
	"pawkeeper/sources/assistant"
	"pawkeeper/sources/billing"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/external"
	"pawkeeper/sources/features"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/metrics/collector"
	"pawkeeper/sources/persistence"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/throttler"
	"pawkeeper/sources/tracing"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

var cli struct {
	Config  string `help:"Path to the configuration file." type:"path" default:"config.yaml"`
	Version bool   `help:"Print version and exit."`
}

func main() {
	kong.Parse(&cli, kong.Name("pawkeeper"), kong.Description("AI usage entitlement service for PawKeeper."))

	if cli.Version {
		fmt.Printf("pawkeeper %s (built %s)\n", version, buildTime)
		return
	}

	if os.Getenv("CONFIG_PATH") == "" {
		_ = os.Setenv("CONFIG_PATH", cli.Config)
	}

	platform.SetAppManifest(version, buildTime, time.Now())

	fx.New(
		tracing.Module,
		configuration.Module,
		persistence.Module,
		repository.Module,
		metrics.Module,
		collector.Module,
		features.Module,
		throttler.Module,
		entitlement.Module,
		billing.Module,
		assistant.Module,
		external.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("PawKeeper started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("PawKeeper stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	).Run()
}
