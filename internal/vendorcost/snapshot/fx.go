package snapshot

import (
	"context"

	"github.com/X-CodesTech/wassel-api/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("vendorcost.snapshot",
	fx.Provide(provideConfig),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func provideConfig(cfg *config.Config) Config {
	return Config{
		BatchSize:    cfg.Snapshot.BatchSize,
		PollInterval: cfg.Snapshot.PollInterval,
	}.withDefaults()
}

func runWorker(lc fx.Lifecycle, cfg *config.Config, worker *Worker) {
	if !cfg.Snapshot.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
	})
}
