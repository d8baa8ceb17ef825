package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/royalty/internal/catalog"
	"github.com/smallbiznis/royalty/internal/charge"
	"github.com/smallbiznis/royalty/internal/clock"
	"github.com/smallbiznis/royalty/internal/config"
	"github.com/smallbiznis/royalty/internal/lock"
	"github.com/smallbiznis/royalty/internal/migration"
	"github.com/smallbiznis/royalty/internal/observability"
	"github.com/smallbiznis/royalty/internal/payoutmethod"
	"github.com/smallbiznis/royalty/internal/scheduler"
	"github.com/smallbiznis/royalty/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain services required by scheduler
		lock.Module,
		payoutmethod.Module,
		catalog.Module,
		charge.Module,

		// No server module!
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
