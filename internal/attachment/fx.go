package attachment

import (
	"github.com/X-CodesTech/wassel-api/internal/attachment/service"
	"github.com/X-CodesTech/wassel-api/internal/attachment/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("attachment",
	fx.Provide(
		fx.Annotate(storage.NewS3Store, fx.As(new(storage.ObjectStore))),
		service.NewService,
	),
)
