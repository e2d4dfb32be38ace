package approvalhandler

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"hr-approval-backend/lib/apperrors"
	pdfexport "hr-approval-backend/lib/export/pdf"
	xlsexport "hr-approval-backend/lib/export/xls"
	filestorage "hr-approval-backend/lib/file-storage"
	"hr-approval-backend/lib/utils/lock"
	"hr-approval-backend/models"
	apimodels "hr-approval-backend/models/api"
	approvalapimodels "hr-approval-backend/models/api/approval"
	dbmodels "hr-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(ctx context.Context, authorID int, data approvalapimodels.ApprovalCreateData, file *Attachment) (docID string, err error)
	Update(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalUpdateData) error
	Approve(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalActionData) error
	Reject(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalActionData) error
	Delete(ctx context.Context, docID string, callerID *int) error
	GetByID(ctx context.Context, docID string, callerID *int) (approvalapimodels.ApprovalDetailView, error)
	List(ctx context.Context, filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error)
	ListAwaiting(ctx context.Context, callerID int, pagination apimodels.Pagination) (list []approvalapimodels.ApprovalView, rowCount int64, err error)
	GetAttachment(ctx context.Context, docID string) (*AttachmentFile, error)
	History(ctx context.Context, docID string) ([]approvalapimodels.ApprovalHistoryView, error)
	ExportList(ctx context.Context, filter approvalapimodels.ApprovalExportFilter) (*bytes.Buffer, error)
	PrintSheet(ctx context.Context, docID string) ([]byte, error)
}

// Attachment вложение, переданное при создании документа
type Attachment struct {
	FileName string
	Data     []byte
}

// AttachmentFile поток вложения, Reader закрывает вызывающий
type AttachmentFile struct {
	FileName string
	Reader   io.ReadCloser
}

type Settings struct {
	AdminEmployeeID  int
	DocIDMaxAttempts int
	LockWait         time.Duration
	NewWindow        time.Duration
}

const exportRowLimit = 5000

var Instance Provider

func NewHandler(uow UnitOfWork, settings Settings) {
	Instance = NewHandlerWith(uow, filestorage.Instance, xlsexport.Instance, pdfexport.Instance, settings)
}

func NewHandlerWith(uow UnitOfWork, fileStorage filestorage.Provider, xls xlsexport.Provider, pdf pdfexport.Provider, settings Settings) Provider {
	return newImpl(uow, fileStorage, xls, pdf, settings, time.Now)
}

func newImpl(uow UnitOfWork, fileStorage filestorage.Provider, xls xlsexport.Provider, pdf pdfexport.Provider, settings Settings, now func() time.Time) *impl {
	if settings.DocIDMaxAttempts < 1 {
		settings.DocIDMaxAttempts = 1
	}
	return &impl{
		uow:         uow,
		fileStorage: fileStorage,
		xls:         xls,
		pdf:         pdf,
		settings:    settings,
		now:         now,
		docIDs:      newDocIDGenerator(now),
		locks:       lock.New(),
	}
}

type impl struct {
	uow         UnitOfWork
	fileStorage filestorage.Provider
	xls         xlsexport.Provider
	pdf         pdfexport.Provider
	settings    Settings
	now         func() time.Time
	docIDs      *docIDGenerator
	locks       *lock.KeyLock
}

func (i impl) GetLogger(docID string, employeeID *int) *log.Entry {
	logger := log.WithField("doc_id", docID)
	if employeeID != nil {
		logger = logger.WithField("employee_id", *employeeID)
	}
	return logger
}

func (i impl) isAdmin(callerID *int) bool {
	return callerID != nil && *callerID == i.settings.AdminEmployeeID
}

func (i impl) newSince() time.Time {
	return i.now().Add(-i.settings.NewWindow)
}

func (i impl) Create(ctx context.Context, authorID int, data approvalapimodels.ApprovalCreateData, file *Attachment) (docID string, err error) {
	if err = data.Validate(); err != nil {
		return "", apperrors.Validation("%v", err.Error())
	}
	for attempt := 1; attempt <= i.settings.DocIDMaxAttempts; attempt++ {
		docID = i.docIDs.Next()
		err = i.create(ctx, docID, authorID, data, file)
		if err == nil {
			i.GetLogger(docID, &authorID).Info("документ на согласование создан")
			return docID, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return "", err
		}
		i.GetLogger(docID, &authorID).
			WithField("attempt", attempt).
			Warn("номер документа уже занят, повторная генерация")
	}
	return "", err
}

func (i impl) create(ctx context.Context, docID string, authorID int, data approvalapimodels.ApprovalCreateData, file *Attachment) error {
	logger := i.GetLogger(docID, &authorID)
	now := i.now()
	var storedName string
	err := i.uow.Transaction(ctx, func(stores Stores) error {
		exist, err := stores.Docs.Exist(docID)
		if err != nil {
			return errors.Wrap(err, "ошибка проверки номера документа")
		}
		if exist {
			return apperrors.Conflict("документ %v уже существует", docID)
		}
		rec := dbmodels.ApprovalDoc{
			ID:        docID,
			Title:     strValue(data.Title),
			Content:   strValue(data.Content),
			CreatedAt: now,
			Status:    models.DocStatusPending,
			AuthorID:  authorID,
			Category:  models.ParseDocCategory(data.Category),
		}
		if file != nil && len(file.Data) != 0 {
			storedName, err = i.fileStorage.Save(ctx, docID, file.FileName, file.Data)
			if err != nil {
				return errors.Wrap(err, "ошибка сохранения вложения")
			}
			originalName := file.FileName
			stored := storedName
			rec.OriginalFileName = &originalName
			rec.StoredFileName = &stored
		}
		if err = stores.Docs.Create(rec); err != nil {
			return err
		}
		for _, line := range buildLines(docID, authorID, data.Lines, now) {
			if _, err = stores.Lines.Create(line); err != nil {
				return errors.Wrapf(err, "ошибка сохранения этапа согласования, stage=%+v", line)
			}
		}
		if rec.Category == models.DocCategoryTimeoff && data.Timeoff != nil {
			timeoff, err := buildTimeoff(docID, *data.Timeoff, now)
			if err != nil {
				return apperrors.Validation("%v", err.Error())
			}
			if err = stores.Timeoff.Create(timeoff); err != nil {
				return errors.Wrap(err, "ошибка сохранения заявления на отпуск")
			}
		}
		return nil
	})
	if err != nil {
		if storedName != "" {
			if delErr := i.fileStorage.DeleteIfExists(ctx, storedName); delErr != nil {
				logger.WithError(delErr).Warn("не удалось удалить вложение после отмены создания документа")
			}
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.WithError(err).Error("ошибка создания документа")
		}
		return err
	}
	return nil
}

// buildLines без явной цепочки автор согласует документ сам
func buildLines(docID string, authorID int, data []approvalapimodels.ApprovalLineData, now time.Time) []dbmodels.ApprovalLine {
	if len(data) == 0 {
		return []dbmodels.ApprovalLine{{
			DocID:      docID,
			Status:     models.LineStatusPending,
			Sequence:   1,
			ApproverID: authorID,
			CreatedAt:  now,
		}}
	}
	sorted := make([]approvalapimodels.ApprovalLineData, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Sequence < sorted[b].Sequence
	})
	result := make([]dbmodels.ApprovalLine, 0, len(sorted))
	for _, line := range sorted {
		result = append(result, dbmodels.ApprovalLine{
			DocID:      docID,
			Status:     models.LineStatusPending,
			Sequence:   line.Sequence,
			ApproverID: line.ApproverID,
			CreatedAt:  now,
		})
	}
	return result
}

func buildTimeoff(docID string, data approvalapimodels.TimeoffData, now time.Time) (dbmodels.TimeoffRequest, error) {
	start, end, err := data.Dates(now)
	if err != nil {
		return dbmodels.TimeoffRequest{}, err
	}
	return dbmodels.TimeoffRequest{
		DocID:     docID,
		Type:      models.ParseTimeoffType(data.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    strValue(data.Reason),
	}, nil
}

func (i impl) Update(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalUpdateData) error {
	logger := i.GetLogger(docID, &callerID)
	err := i.uow.Transaction(ctx, func(stores Stores) error {
		rec, err := stores.Docs.GetByIDForUpdate(docID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения документа")
		}
		if rec == nil {
			return apperrors.NotFound("документ %v не найден", docID)
		}
		if rec.AuthorID != callerID {
			return apperrors.Forbidden("изменять документ может только автор")
		}
		updMap := map[string]interface{}{}
		if data.Title != nil {
			updMap["title"] = strings.TrimSpace(*data.Title)
		}
		if data.Content != nil {
			updMap["content"] = *data.Content
		}
		if data.Category != nil {
			category := models.ParseDocCategory(*data.Category)
			updMap["category"] = category
			// заявление на отпуск есть только у документов категории TIMEOFF
			if rec.Category == models.DocCategoryTimeoff && category != models.DocCategoryTimeoff {
				if err = stores.Timeoff.DeleteByDoc(docID); err != nil {
					return errors.Wrap(err, "ошибка удаления заявления на отпуск")
				}
			}
		}
		return stores.Docs.Update(docID, updMap)
	})
	if err != nil {
		return err
	}
	logger.Info("документ на согласование изменен")
	return nil
}

func (i impl) Approve(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalActionData) error {
	return i.act(ctx, docID, callerID, models.LineStatusApproved, data)
}

func (i impl) Reject(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalActionData) error {
	return i.act(ctx, docID, callerID, models.LineStatusRejected, data)
}

func (i impl) act(ctx context.Context, docID string, callerID int, decision models.LineStatus, data approvalapimodels.ApprovalActionData) error {
	if err := data.Validate(); err != nil {
		return apperrors.Validation("%v", err.Error())
	}
	logger := i.GetLogger(docID, &callerID).WithField("decision", decision)
	var docStatus models.DocStatus
	err := i.withDocLock(ctx, docID, func() error {
		return i.uow.Transaction(ctx, func(stores Stores) error {
			rec, err := stores.Docs.GetByIDForUpdate(docID)
			if err != nil {
				return errors.Wrap(err, "ошибка получения документа")
			}
			if rec == nil {
				return apperrors.NotFound("документ %v не найден", docID)
			}
			if rec.Status.IsTerminal() {
				return apperrors.NoCurrentStep("согласование документа %v завершено", docID)
			}
			current, err := stores.Lines.GetCurrent(docID)
			if err != nil {
				return errors.Wrap(err, "ошибка получения текущего этапа согласования")
			}
			if current == nil {
				return apperrors.NoCurrentStep("у документа %v нет этапа на согласовании", docID)
			}
			if data.LineID != nil && *data.LineID != current.ID {
				return apperrors.NoCurrentStep("этап %v не является текущим", *data.LineID)
			}
			if current.ApproverID != callerID && !i.isAdmin(&callerID) {
				return apperrors.Forbidden("сотрудник не является согласующим текущего этапа")
			}
			actedAt := i.now()
			resolved, err := stores.Lines.Resolve(current.ID, decision, actedAt)
			if err != nil {
				return errors.Wrap(err, "ошибка сохранения решения по этапу")
			}
			if !resolved {
				return apperrors.NoCurrentStep("этап %v уже обработан", current.ID)
			}
			hasPending, err := stores.Lines.ExistPending(docID)
			if err != nil {
				return errors.Wrap(err, "ошибка проверки оставшихся этапов")
			}
			docStatus = resolveDocStatus(decision, hasPending)
			if docStatus != rec.Status {
				err = stores.Docs.Update(docID, map[string]interface{}{"status": docStatus})
				if err != nil {
					return errors.Wrap(err, "ошибка обновления статуса документа")
				}
			}
			_, err = stores.History.Create(dbmodels.ApprovalHistory{
				BaseModel: dbmodels.BaseModel{CreatedAt: actedAt},
				DocID:     docID,
				LineID:    current.ID,
				ActorID:   callerID,
				Action:    decision,
				Opinion:   data.Opinion,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка сохранения истории согласования")
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	logger.WithField("doc_status", docStatus).Info("решение по этапу согласования сохранено")
	return nil
}

func (i impl) Delete(ctx context.Context, docID string, callerID *int) error {
	logger := i.GetLogger(docID, callerID)
	return i.withDocLock(ctx, docID, func() error {
		err := i.uow.Transaction(ctx, func(stores Stores) error {
			rec, err := stores.Docs.GetByIDForUpdate(docID)
			if err != nil {
				return errors.Wrap(err, "ошибка получения документа")
			}
			if rec == nil {
				return apperrors.NotFound("документ %v не найден", docID)
			}
			if !i.isAdmin(callerID) {
				if callerID == nil || *callerID != rec.AuthorID {
					return apperrors.Forbidden("удалять документ может только автор")
				}
				if rec.Status == models.DocStatusApproved {
					return apperrors.Forbidden("согласованный документ может удалить только администратор")
				}
			}
			if err = stores.Timeoff.DeleteByDoc(docID); err != nil {
				return errors.Wrap(err, "ошибка удаления заявления на отпуск")
			}
			if err = stores.History.DeleteByDoc(docID); err != nil {
				return errors.Wrap(err, "ошибка удаления истории согласования")
			}
			if err = stores.Lines.DeleteByDoc(docID); err != nil {
				return errors.Wrap(err, "ошибка удаления этапов согласования")
			}
			if rec.HasAttachment() {
				if err = i.fileStorage.DeleteIfExists(ctx, *rec.StoredFileName); err != nil {
					logger.WithError(err).Warn("не удалось удалить вложение документа")
				}
			}
			if err = stores.Docs.Delete(docID); err != nil {
				return errors.Wrap(err, "ошибка удаления документа")
			}
			return nil
		})
		if err != nil {
			return err
		}
		logger.Info("документ на согласование удален")
		return nil
	})
}

func (i impl) withDocLock(ctx context.Context, docID string, fn func() error) error {
	ok, err := i.locks.WithDelay(ctx, docID, i.settings.LockWait, fn)
	if !ok {
		return apperrors.Conflict("документ %v обрабатывается другим запросом", docID)
	}
	return err
}

func (i impl) GetByID(ctx context.Context, docID string, callerID *int) (approvalapimodels.ApprovalDetailView, error) {
	stores := i.uow.Stores(ctx)
	rec, err := stores.Docs.GetByID(docID)
	if err != nil {
		return approvalapimodels.ApprovalDetailView{}, errors.Wrap(err, "ошибка получения документа")
	}
	if rec == nil {
		return approvalapimodels.ApprovalDetailView{}, apperrors.NotFound("документ %v не найден", docID)
	}
	lines, err := stores.Lines.List(docID)
	if err != nil {
		return approvalapimodels.ApprovalDetailView{}, errors.Wrap(err, "ошибка получения этапов согласования")
	}
	timeoff, err := stores.Timeoff.GetByDoc(docID)
	if err != nil {
		return approvalapimodels.ApprovalDetailView{}, errors.Wrap(err, "ошибка получения заявления на отпуск")
	}
	result := approvalapimodels.ApprovalDetailConvert(*rec, lines, timeoff, i.newSince())
	result.CanApprove = canApprove(*rec, lines, callerID, i.isAdmin(callerID))
	return result, nil
}

func (i impl) List(ctx context.Context, filter approvalapimodels.ApprovalFilter) ([]approvalapimodels.ApprovalView, int64, error) {
	stores := i.uow.Stores(ctx)
	status := models.ParseDocStatusFilter(filter.Status)
	offset, limit := filter.GetOffset()
	rowCount, err := stores.Docs.ListCount(status)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества документов")
	}
	list, err := stores.Docs.List(status, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка документов")
	}
	return i.convertList(list), rowCount, nil
}

func (i impl) ListAwaiting(ctx context.Context, callerID int, pagination apimodels.Pagination) ([]approvalapimodels.ApprovalView, int64, error) {
	stores := i.uow.Stores(ctx)
	offset, limit := pagination.GetOffset()
	rowCount, err := stores.Docs.ListAwaitingCount(callerID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества документов на согласовании")
	}
	list, err := stores.Docs.ListAwaiting(callerID, offset, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка документов на согласовании")
	}
	return i.convertList(list), rowCount, nil
}

func (i impl) convertList(list []dbmodels.ApprovalDoc) []approvalapimodels.ApprovalView {
	newSince := i.newSince()
	result := make([]approvalapimodels.ApprovalView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.ApprovalConvert(rec, newSince))
	}
	return result
}

func (i impl) GetAttachment(ctx context.Context, docID string) (*AttachmentFile, error) {
	rec, err := i.uow.Stores(ctx).Docs.GetByID(docID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документа")
	}
	if rec == nil {
		return nil, apperrors.NotFound("документ %v не найден", docID)
	}
	if !rec.HasAttachment() {
		return nil, nil
	}
	reader, err := i.fileStorage.Load(ctx, *rec.StoredFileName)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		i.GetLogger(docID, nil).
			WithField("stored_name", *rec.StoredFileName).
			Warn("вложение документа отсутствует в хранилище")
		return nil, nil
	}
	return &AttachmentFile{
		FileName: strValue(rec.OriginalFileName),
		Reader:   reader,
	}, nil
}

func (i impl) History(ctx context.Context, docID string) ([]approvalapimodels.ApprovalHistoryView, error) {
	stores := i.uow.Stores(ctx)
	exist, err := stores.Docs.Exist(docID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения документа")
	}
	if !exist {
		return nil, apperrors.NotFound("документ %v не найден", docID)
	}
	list, err := stores.History.List(docID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения истории согласования")
	}
	result := make([]approvalapimodels.ApprovalHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, approvalapimodels.ApprovalHistoryConvert(rec))
	}
	return result, nil
}

func (i impl) ExportList(ctx context.Context, filter approvalapimodels.ApprovalExportFilter) (*bytes.Buffer, error) {
	list, err := i.uow.Stores(ctx).Docs.List(models.ParseDocStatusFilter(filter.Status), 0, exportRowLimit)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка документов")
	}
	buf, err := i.xls.ExportApprovalList(i.convertList(list))
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования xlsx")
	}
	return buf, nil
}

func (i impl) PrintSheet(ctx context.Context, docID string) ([]byte, error) {
	detail, err := i.GetByID(ctx, docID, nil)
	if err != nil {
		return nil, err
	}
	history, err := i.History(ctx, docID)
	if err != nil {
		return nil, err
	}
	data, err := i.pdf.ApprovalSheet(detail, history)
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка формирования листа согласования %v", docID)
	}
	return data, nil
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
