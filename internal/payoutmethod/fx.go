package payoutmethod

import (
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("payoutmethod",
	fx.Provide(NewRepository),
	fx.Provide(provideResolver),
)

type resolverParams struct {
	fx.In

	Cfg  config.Config
	DB   *gorm.DB
	Repo Repository
	Log  *zap.Logger
}

func provideResolver(p resolverParams) chargedomain.PayoutMethodResolver {
	if !p.Cfg.Lookups.PayoutMethodEnabled {
		p.Log.Info("payout method lookup disabled")
		return Noop{}
	}
	return NewResolver(p.DB, p.Repo)
}
