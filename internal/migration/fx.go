package migration

import (
	"strings"

	"github.com/smallbiznis/royalty/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

func Run(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
	dialect := strings.ToLower(strings.TrimSpace(cfg.DBType))
	log.Info("running migrations", zap.String("dialect", dialect))

	if dialect != "postgres" {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
