package audit

import (
	"github.com/X-CodesTech/wassel-api/internal/audit/repository"
	"github.com/X-CodesTech/wassel-api/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
