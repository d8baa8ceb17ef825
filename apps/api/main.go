package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/royalty/internal/clock"
	"github.com/smallbiznis/royalty/internal/config"
	"github.com/smallbiznis/royalty/internal/migration"
	"github.com/smallbiznis/royalty/internal/observability"
	"github.com/smallbiznis/royalty/internal/server"
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

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return node
}
