package vendorcost

import (
	"github.com/X-CodesTech/wassel-api/internal/cache"
	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/X-CodesTech/wassel-api/internal/vendorcost/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendorcost",
	fx.Provide(
		provideCache,
		service.NewService,
	),
)

func provideCache() cache.Cache[string, *vendorcostdomain.Response] {
	return cache.NewTTLCache[string, *vendorcostdomain.Response]()
}
