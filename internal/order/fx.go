package order

import (
	"github.com/X-CodesTech/wassel-api/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(
		service.NewService,
	),
)
