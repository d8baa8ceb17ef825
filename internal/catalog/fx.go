package catalog

import (
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("catalog",
	fx.Provide(provideLookup),
)

func provideLookup(cfg config.Config, db *gorm.DB, log *zap.Logger) chargedomain.CatalogLookup {
	if !cfg.Lookups.CatalogEnabled {
		log.Info("catalog lookup disabled")
		return Noop{}
	}
	return NewLookup(db)
}
