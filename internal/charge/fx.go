package charge

import (
	"github.com/smallbiznis/royalty/internal/charge/repository"
	"github.com/smallbiznis/royalty/internal/charge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("charge.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
