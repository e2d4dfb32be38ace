package approvallinestore

import (
	"hr-approval-backend/models"
	dbmodels "hr-approval-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalLine) (id uint, err error)
	List(docID string) (list []dbmodels.ApprovalLine, err error)
	GetCurrent(docID string) (rec *dbmodels.ApprovalLine, err error)
	ExistPending(docID string) (bool, error)
	Resolve(id uint, status models.LineStatus, actedAt time.Time) (resolved bool, err error)
	DeleteByDoc(docID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalLine) (id uint, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) List(docID string) (list []dbmodels.ApprovalLine, err error) {
	list = []dbmodels.ApprovalLine{}
	err = i.db.
		Where("doc_id = ?", docID).
		Order("sequence ASC").
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetCurrent этап PENDING с минимальным порядковым номером, при равенстве - с минимальным ID
func (i impl) GetCurrent(docID string) (*dbmodels.ApprovalLine, error) {
	rec := dbmodels.ApprovalLine{}
	err := i.db.
		Where("doc_id = ?", docID).
		Where("status = ?", models.LineStatusPending).
		Order("sequence ASC").
		Order("id ASC").
		Limit(1).
		Take(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ExistPending(docID string) (bool, error) {
	var rowCount int64
	err := i.db.
		Model(&dbmodels.ApprovalLine{}).
		Where("doc_id = ?", docID).
		Where("status = ?", models.LineStatusPending).
		Count(&rowCount).
		Error
	if err != nil {
		return false, err
	}
	return rowCount > 0, nil
}

// Resolve переводит этап из PENDING, false - этап уже обработан другим запросом
func (i impl) Resolve(id uint, status models.LineStatus, actedAt time.Time) (bool, error) {
	tx := i.db.
		Model(&dbmodels.ApprovalLine{}).
		Where("id = ?", id).
		Where("status = ?", models.LineStatusPending).
		Updates(map[string]interface{}{
			"status":   status,
			"acted_at": actedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) DeleteByDoc(docID string) error {
	err := i.db.
		Where("doc_id = ?", docID).
		Delete(&dbmodels.ApprovalLine{}).
		Error
	if err != nil {
		return err
	}
	return nil
}
