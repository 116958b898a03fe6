package seed

import (
	"github.com/X-CodesTech/wassel-api/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(run),
)

func run(db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	if !cfg.Bootstrap.EnsureDefaultOrgAndAdmin {
		return nil
	}
	return EnsureDefaultOrgAndAdmin(db, cfg, log)
}
