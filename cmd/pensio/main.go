package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pensio/internal/cache"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/config"
	"github.com/smallbiznis/pensio/internal/contribution"
	"github.com/smallbiznis/pensio/internal/eligibility"
	"github.com/smallbiznis/pensio/internal/logger"
	"github.com/smallbiznis/pensio/internal/member"
	"github.com/smallbiznis/pensio/internal/migration"
	"github.com/smallbiznis/pensio/internal/payment"
	"github.com/smallbiznis/pensio/internal/providers/email"
	"github.com/smallbiznis/pensio/internal/providers/pdf"
	"github.com/smallbiznis/pensio/internal/scheduler"
	"github.com/smallbiznis/pensio/internal/server"
	"github.com/smallbiznis/pensio/internal/statement"
	"github.com/smallbiznis/pensio/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		migration.Module,

		member.Module,
		payment.Module,
		contribution.Module,
		eligibility.Module,
		statement.Module,
		email.Module,
		pdf.Module,

		scheduler.Module,
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
