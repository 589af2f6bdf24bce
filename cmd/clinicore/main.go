package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/migration"
	"github.com/clinicore/clinicore/internal/server"
	"github.com/clinicore/clinicore/pkg/db"
	"github.com/clinicore/clinicore/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface; pulls in the domain modules.
		server.Module,
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
