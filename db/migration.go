package db

import (
	dbmodels "hr-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB(tx *gorm.DB) error {
	if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return errors.Wrap(err, "ошибка создания расширения uuid-ossp")
	}
	log.Info("Запуск миграций")
	if err := tx.AutoMigrate(&dbmodels.ApprovalDoc{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalDoc")
	}
	if err := tx.AutoMigrate(&dbmodels.ApprovalLine{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalLine")
	}
	if err := tx.AutoMigrate(&dbmodels.TimeoffRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TimeoffRequest")
	}
	if err := tx.AutoMigrate(&dbmodels.ApprovalHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalHistory")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
