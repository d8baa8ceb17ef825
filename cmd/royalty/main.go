package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/royalty/internal/clock"
	"github.com/smallbiznis/royalty/internal/config"
	"github.com/smallbiznis/royalty/internal/migration"
	"github.com/smallbiznis/royalty/internal/observability"
	"github.com/smallbiznis/royalty/internal/scheduler"
	"github.com/smallbiznis/royalty/internal/server"
	"github.com/smallbiznis/royalty/pkg/db"
	"go.uber.org/fx"
)

// Single-process deployment: HTTP API plus the monthly settlement scheduler.
func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// server.Module brings in the charge service and its collaborators.
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
