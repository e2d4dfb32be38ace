package dbmodels

import (
	"hr-approval-backend/models"
	"time"
)

type ApprovalDoc struct {
	ID               string             `gorm:"primaryKey;type:varchar(32)"`
	Title            string             `gorm:"type:varchar(255)"`
	Content          string
	CreatedAt        time.Time          `gorm:"index"`
	UpdatedAt        time.Time
	Status           models.DocStatus   `gorm:"type:varchar(20);index"`
	AuthorID         int                `gorm:"index"`
	Category         models.DocCategory `gorm:"type:varchar(20)"`
	OriginalFileName *string            `gorm:"type:varchar(255)"`
	StoredFileName   *string            `gorm:"type:varchar(512)"`
}

func (d ApprovalDoc) HasAttachment() bool {
	return d.StoredFileName != nil && *d.StoredFileName != ""
}

// ApprovalLine этап цепочки согласования, текущий этап - PENDING с минимальным Sequence (при равенстве - минимальный ID)
type ApprovalLine struct {
	ID         uint              `gorm:"primaryKey;autoIncrement"`
	DocID      string            `gorm:"type:varchar(32);index:idx_approval_line_step,priority:1"`
	Status     models.LineStatus `gorm:"type:varchar(20);index:idx_approval_line_step,priority:2;index:idx_approval_line_approver,priority:2"`
	Sequence   int               `gorm:"index:idx_approval_line_step,priority:3"`
	ApproverID int               `gorm:"index:idx_approval_line_approver,priority:1"`
	ActedAt    *time.Time
	CreatedAt  time.Time
}

type TimeoffRequest struct {
	DocID     string             `gorm:"primaryKey;type:varchar(32)"`
	Type      models.TimeoffType `gorm:"type:varchar(20)"`
	StartDate time.Time          `gorm:"type:date"`
	EndDate   time.Time          `gorm:"type:date"`
	Reason    string
}

type ApprovalHistory struct {
	BaseModel
	DocID   string            `gorm:"type:varchar(32);index"`
	LineID  uint
	ActorID int
	Action  models.LineStatus `gorm:"type:varchar(20)"`
	Opinion string
}
