// @title           Wassel API
// @version         1.0
// @description     Wassel logistics back-office API

// @contact.name   API Support
// @contact.email  support@wassel.example

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"github.com/X-CodesTech/wassel-api/internal/apikey"
	"github.com/X-CodesTech/wassel-api/internal/attachment"
	"github.com/X-CodesTech/wassel-api/internal/audit"
	"github.com/X-CodesTech/wassel-api/internal/clock"
	"github.com/X-CodesTech/wassel-api/internal/config"
	"github.com/X-CodesTech/wassel-api/internal/events"
	"github.com/X-CodesTech/wassel-api/internal/location"
	"github.com/X-CodesTech/wassel-api/internal/migration"
	"github.com/X-CodesTech/wassel-api/internal/observability"
	"github.com/X-CodesTech/wassel-api/internal/observability/logger"
	"github.com/X-CodesTech/wassel-api/internal/order"
	"github.com/X-CodesTech/wassel-api/internal/pricelist"
	"github.com/X-CodesTech/wassel-api/internal/seed"
	"github.com/X-CodesTech/wassel-api/internal/server"
	"github.com/X-CodesTech/wassel-api/internal/subactivity"
	"github.com/X-CodesTech/wassel-api/internal/vendorcost"
	"github.com/X-CodesTech/wassel-api/internal/vendorcost/snapshot"
	"github.com/X-CodesTech/wassel-api/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,

		events.Module,
		audit.Module,
		apikey.Module,
		subactivity.Module,
		location.Module,
		pricelist.Module,
		order.Module,
		attachment.Module,
		vendorcost.Module,
		snapshot.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
