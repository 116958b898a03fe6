package pricelist

import (
	"github.com/X-CodesTech/wassel-api/internal/pricelist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricelist",
	fx.Provide(
		service.NewService,
	),
)
