package subactivity

import (
	"github.com/X-CodesTech/wassel-api/internal/subactivity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subactivity.service",
	fx.Provide(service.NewService),
)
