package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/vzwbeheer/ledger/internal/clock"
	"github.com/vzwbeheer/ledger/internal/config"
	"github.com/vzwbeheer/ledger/internal/logger"
	"github.com/vzwbeheer/ledger/internal/migration"
	"github.com/vzwbeheer/ledger/internal/server"
	"github.com/vzwbeheer/ledger/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
