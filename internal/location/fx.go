package location

import (
	"github.com/X-CodesTech/wassel-api/internal/location/service"
	"go.uber.org/fx"
)

var Module = fx.Module("location.service",
	fx.Provide(service.NewService),
)
