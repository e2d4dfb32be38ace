package approvalhistorystore

import (
	dbmodels "hr-approval-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalHistory) (id string, err error)
	List(docID string) (list []dbmodels.ApprovalHistory, err error)
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

func (i impl) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(docID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	err = i.db.
		Where("doc_id = ?", docID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByDoc(docID string) error {
	return i.db.
		Where("doc_id = ?", docID).
		Delete(&dbmodels.ApprovalHistory{}).
		Error
}
