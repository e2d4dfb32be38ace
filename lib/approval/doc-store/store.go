package approvaldocstore

import (
	"hr-approval-backend/lib/apperrors"
	"hr-approval-backend/models"
	dbmodels "hr-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ApprovalDoc) error
	Exist(id string) (bool, error)
	GetByID(id string) (rec *dbmodels.ApprovalDoc, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.ApprovalDoc, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	List(status *models.DocStatus, offset, limit int) (list []dbmodels.ApprovalDoc, err error)
	ListCount(status *models.DocStatus) (int64, error)
	ListAwaiting(approverID, offset, limit int) (list []dbmodels.ApprovalDoc, err error)
	ListAwaitingCount(approverID int) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalDoc) error {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("документ %v уже существует", rec.ID)
		}
		return err
	}
	return nil
}

func (i impl) Exist(id string) (bool, error) {
	var rowCount int64
	err := i.db.
		Model(&dbmodels.ApprovalDoc{}).
		Where("id = ?", id).
		Count(&rowCount).
		Error
	if err != nil {
		return false, err
	}
	return rowCount > 0, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalDoc, error) {
	return i.get(i.db, id)
}

// GetByIDForUpdate блокирует строку документа до конца транзакции
func (i impl) GetByIDForUpdate(id string) (*dbmodels.ApprovalDoc, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.ApprovalDoc, error) {
	rec := dbmodels.ApprovalDoc{}
	err := tx.
		Where("id = ?", id).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalDoc{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.ApprovalDoc{ID: id}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(status *models.DocStatus, offset, limit int) (list []dbmodels.ApprovalDoc, err error) {
	list = []dbmodels.ApprovalDoc{}
	err = i.listQuery(status).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(status *models.DocStatus) (int64, error) {
	var rowCount int64
	err := i.listQuery(status).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) listQuery(status *models.DocStatus) *gorm.DB {
	tx := i.db.Model(&dbmodels.ApprovalDoc{})
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	return tx
}

func (i impl) ListAwaiting(approverID, offset, limit int) (list []dbmodels.ApprovalDoc, err error) {
	list = []dbmodels.ApprovalDoc{}
	err = i.awaitingQuery(approverID).
		Order("approval_docs.created_at DESC").
		Order("approval_docs.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListAwaitingCount(approverID int) (int64, error) {
	var rowCount int64
	err := i.awaitingQuery(approverID).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

// awaitingQuery документы на согласовании, где текущий этап принадлежит approverID
func (i impl) awaitingQuery(approverID int) *gorm.DB {
	return i.db.
		Model(&dbmodels.ApprovalDoc{}).
		Where("approval_docs.status = ?", models.DocStatusPending).
		Where(`EXISTS (
			SELECT 1 FROM approval_lines cur
			WHERE cur.doc_id = approval_docs.id
				AND cur.approver_id = ?
				AND cur.status = ?
				AND NOT EXISTS (
					SELECT 1 FROM approval_lines prev
					WHERE prev.doc_id = cur.doc_id
						AND prev.status = ?
						AND (prev.sequence < cur.sequence OR (prev.sequence = cur.sequence AND prev.id < cur.id))
				)
		)`, approverID, models.LineStatusPending, models.LineStatusPending)
}
