package approvalhandler

import (
	"context"

	approvaldocstore "hr-approval-backend/lib/approval/doc-store"
	approvalhistorystore "hr-approval-backend/lib/approval/history-store"
	approvallinestore "hr-approval-backend/lib/approval/line-store"
	timeoffstore "hr-approval-backend/lib/approval/timeoff-store"

	"gorm.io/gorm"
)

// Stores набор хранилищ, работающих в одном соединении или транзакции
type Stores struct {
	Docs    approvaldocstore.Provider
	Lines   approvallinestore.Provider
	Timeoff timeoffstore.Provider
	History approvalhistorystore.Provider
}

func NewStores(tx *gorm.DB) Stores {
	return Stores{
		Docs:    approvaldocstore.NewInstance(tx),
		Lines:   approvallinestore.NewInstance(tx),
		Timeoff: timeoffstore.NewInstance(tx),
		History: approvalhistorystore.NewInstance(tx),
	}
}

// UnitOfWork все изменения внутри Transaction фиксируются или откатываются вместе
type UnitOfWork interface {
	Stores(ctx context.Context) Stores
	Transaction(ctx context.Context, fn func(stores Stores) error) error
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return gormUnitOfWork{db: db}
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func (u gormUnitOfWork) Stores(ctx context.Context) Stores {
	return NewStores(u.db.WithContext(ctx))
}

func (u gormUnitOfWork) Transaction(ctx context.Context, fn func(stores Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
