package timeoffstore

import (
	dbmodels "hr-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.TimeoffRequest) error
	GetByDoc(docID string) (rec *dbmodels.TimeoffRequest, err error)
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

func (i impl) Create(rec dbmodels.TimeoffRequest) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) GetByDoc(docID string) (*dbmodels.TimeoffRequest, error) {
	rec := dbmodels.TimeoffRequest{}
	err := i.db.
		Where("doc_id = ?", docID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) DeleteByDoc(docID string) error {
	return i.db.
		Where("doc_id = ?", docID).
		Delete(&dbmodels.TimeoffRequest{}).
		Error
}
