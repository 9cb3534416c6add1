package main

import (
	"github.com/Huve14/Go-Moto-sub000/internal/billing/lifecycle"
	"github.com/Huve14/Go-Moto-sub000/internal/clock"
	"github.com/Huve14/Go-Moto-sub000/internal/config"
	"github.com/Huve14/Go-Moto-sub000/internal/events"
	"github.com/Huve14/Go-Moto-sub000/internal/listing"
	"github.com/Huve14/Go-Moto-sub000/internal/mail"
	"github.com/Huve14/Go-Moto-sub000/internal/migration"
	"github.com/Huve14/Go-Moto-sub000/internal/observability"
	"github.com/Huve14/Go-Moto-sub000/internal/plan"
	"github.com/Huve14/Go-Moto-sub000/internal/rental"
	"github.com/Huve14/Go-Moto-sub000/internal/seed"
	"github.com/Huve14/Go-Moto-sub000/internal/seller"
	"github.com/Huve14/Go-Moto-sub000/internal/server"
	"github.com/Huve14/Go-Moto-sub000/internal/subscription"
	"github.com/Huve14/Go-Moto-sub000/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		fx.Provide(events.NewOutbox),

		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			return seed.EnsureDefaultPlans(conn)
		}),

		plan.Module,
		seller.Module,
		subscription.Module,
		listing.Module,
		rental.Module,
		mail.Module,
		lifecycle.Module,

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
