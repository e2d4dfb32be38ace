package approvalapimodels

import (
	"hr-approval-backend/models"
	apimodels "hr-approval-backend/models/api"
	dbmodels "hr-approval-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

type ApprovalLineData struct {
	ApproverID int `json:"approver_id"` // ид сотрудника-согласующего
	Sequence   int `json:"sequence"`    // порядковый номер этапа (с 1)
}

func (a ApprovalLineData) Validate() error {
	if a.ApproverID <= 0 {
		return errors.New("отсутсвует идентификатор согласующего")
	}
	if a.Sequence < 1 {
		return errors.New("порядковый номер этапа должен быть больше 0")
	}
	return nil
}

type TimeoffData struct {
	Type   string  `json:"type"`   // ANNUAL/HALF/SICK, по умолчанию ANNUAL
	Start  *string `json:"start"`  // YYYY-MM-DD, по умолчанию дата создания
	End    *string `json:"end"`    // YYYY-MM-DD, по умолчанию дата создания
	Reason *string `json:"reason"` // причина
}

func (t TimeoffData) Validate() error {
	start, err := parseDate(t.Start)
	if err != nil {
		return errors.Wrap(err, "некорректная дата начала отпуска")
	}
	end, err := parseDate(t.End)
	if err != nil {
		return errors.Wrap(err, "некорректная дата окончания отпуска")
	}
	if start != nil && end != nil && end.Before(*start) {
		return errors.New("дата окончания отпуска не может быть раньше даты начала")
	}
	return nil
}

// Dates даты отпуска, отсутствующие заменяются датой today
func (t TimeoffData) Dates(today time.Time) (start, end time.Time, err error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	start, end = day, day
	if value, err := parseDate(t.Start); err != nil {
		return start, end, err
	} else if value != nil {
		start = *value
	}
	if value, err := parseDate(t.End); err != nil {
		return start, end, err
	} else if value != nil {
		end = *value
	}
	return start, end, nil
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	result, err := time.Parse(DateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type ApprovalCreateData struct {
	Title    *string            `json:"title"`    // заголовок
	Content  *string            `json:"content"`  // текст документа
	Category string             `json:"category"` // ETC/TIMEOFF, по умолчанию ETC
	Lines    []ApprovalLineData `json:"lines"`    // цепочка согласования, если пусто - автор согласует сам
	Timeoff  *TimeoffData       `json:"timeoff"`  // данные отпуска для категории TIMEOFF
}

func (v ApprovalCreateData) Validate() error {
	for _, line := range v.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	if v.Timeoff != nil {
		return v.Timeoff.Validate()
	}
	return nil
}

type ApprovalUpdateData struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (v ApprovalUpdateData) Validate() error {
	return nil
}

type ApprovalActionData struct {
	Opinion string `json:"opinion"` // комментарий согласующего
	LineID  *uint  `json:"line_id"` // ожидаемый текущий этап, если указан
}

func (v ApprovalActionData) Validate() error {
	if v.LineID != nil && *v.LineID == 0 {
		return errors.New("некорректный идентификатор этапа")
	}
	return nil
}

type ApprovalFilter struct {
	apimodels.Pagination
	Status string `json:"status"` // PENDING/APPROVED/REJECTED, пусто или ALL - все
}

type ApprovalExportFilter struct {
	Status string `json:"status"`
}

type ApprovalView struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Status    models.DocStatus   `json:"status"`
	AuthorID  int                `json:"author_id"`
	Category  models.DocCategory `json:"category"`
	IsNew     bool               `json:"is_new"` // создан в пределах окна новизны (24ч)
}

// ApprovalConvert newSince - граница окна новизны
func ApprovalConvert(rec dbmodels.ApprovalDoc, newSince time.Time) ApprovalView {
	return ApprovalView{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
		Status:    rec.Status,
		AuthorID:  rec.AuthorID,
		Category:  rec.Category,
		IsNew:     !rec.CreatedAt.IsZero() && rec.CreatedAt.After(newSince),
	}
}

type ApprovalLineView struct {
	ID         uint              `json:"id"`
	ApproverID int               `json:"approver_id"`
	Sequence   int               `json:"sequence"`
	Status     models.LineStatus `json:"status"`
	ActedAt    *time.Time        `json:"acted_at"`
}

func ApprovalLineConvert(rec dbmodels.ApprovalLine) ApprovalLineView {
	return ApprovalLineView{
		ID:         rec.ID,
		ApproverID: rec.ApproverID,
		Sequence:   rec.Sequence,
		Status:     rec.Status,
		ActedAt:    rec.ActedAt,
	}
}

type TimeoffView struct {
	Type   models.TimeoffType `json:"type"`
	Start  string             `json:"start"`
	End    string             `json:"end"`
	Reason string             `json:"reason"`
}

func TimeoffConvert(rec dbmodels.TimeoffRequest) TimeoffView {
	return TimeoffView{
		Type:   rec.Type,
		Start:  rec.StartDate.Format(DateLayout),
		End:    rec.EndDate.Format(DateLayout),
		Reason: rec.Reason,
	}
}

type ApprovalDetailView struct {
	ApprovalView
	OriginalFileName *string            `json:"original_file_name"`
	StoredFileName   *string            `json:"stored_file_name"`
	Lines            []ApprovalLineView `json:"lines"`
	Timeoff          *TimeoffView       `json:"timeoff,omitempty"`
	CanApprove       bool               `json:"can_approve"` // вызывающий может согласовать/отклонить текущий этап
}

func ApprovalDetailConvert(rec dbmodels.ApprovalDoc, lines []dbmodels.ApprovalLine, timeoff *dbmodels.TimeoffRequest, newSince time.Time) ApprovalDetailView {
	result := ApprovalDetailView{
		ApprovalView:     ApprovalConvert(rec, newSince),
		OriginalFileName: rec.OriginalFileName,
		StoredFileName:   rec.StoredFileName,
		Lines:            make([]ApprovalLineView, 0, len(lines)),
	}
	for _, line := range lines {
		result.Lines = append(result.Lines, ApprovalLineConvert(line))
	}
	if timeoff != nil {
		view := TimeoffConvert(*timeoff)
		result.Timeoff = &view
	}
	return result
}

type ApprovalHistoryView struct {
	ID        string            `json:"id"`
	LineID    uint              `json:"line_id"`
	ActorID   int               `json:"actor_id"`
	Action    models.LineStatus `json:"action"`
	Opinion   string            `json:"opinion"`
	CreatedAt time.Time         `json:"created_at"`
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistory) ApprovalHistoryView {
	return ApprovalHistoryView{
		ID:        rec.ID,
		LineID:    rec.LineID,
		ActorID:   rec.ActorID,
		Action:    rec.Action,
		Opinion:   rec.Opinion,
		CreatedAt: rec.CreatedAt,
	}
}
