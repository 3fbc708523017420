package migration

import (
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(autoMigrate),
)

func autoMigrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&memberdomain.Member{},
		&contributiondomain.Contribution{},
	); err != nil {
		log.Error("auto migration failed", zap.Error(err))
		return err
	}
	log.Info("auto migration complete")
	return nil
}
