package approvalhandler

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"hr-approval-backend/lib/apperrors"
	approvaldocstore "hr-approval-backend/lib/approval/doc-store"
	approvalhistorystore "hr-approval-backend/lib/approval/history-store"
	approvallinestore "hr-approval-backend/lib/approval/line-store"
	timeoffstore "hr-approval-backend/lib/approval/timeoff-store"
	"hr-approval-backend/models"
	approvalapimodels "hr-approval-backend/models/api/approval"
	dbmodels "hr-approval-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// memState снимок данных, транзакция работает с копией и подменяет состояние при успехе
type memState struct {
	docs       map[string]dbmodels.ApprovalDoc
	lines      map[uint]dbmodels.ApprovalLine
	timeoff    map[string]dbmodels.TimeoffRequest
	history    []dbmodels.ApprovalHistory
	nextLineID uint
}

func newMemState() *memState {
	return &memState{
		docs:    map[string]dbmodels.ApprovalDoc{},
		lines:   map[uint]dbmodels.ApprovalLine{},
		timeoff: map[string]dbmodels.TimeoffRequest{},
	}
}

func (s *memState) clone() *memState {
	result := newMemState()
	for k, v := range s.docs {
		result.docs[k] = v
	}
	for k, v := range s.lines {
		result.lines[k] = v
	}
	for k, v := range s.timeoff {
		result.timeoff[k] = v
	}
	result.history = append(result.history, s.history...)
	result.nextLineID = s.nextLineID
	return result
}

type memFaults struct {
	lineCreate error
}

type memUnitOfWork struct {
	txMu   sync.Mutex
	dataMu sync.Mutex
	state  *memState
	faults memFaults
}

func newMemUnitOfWork() *memUnitOfWork {
	return &memUnitOfWork{state: newMemState()}
}

func (u *memUnitOfWork) Stores(ctx context.Context) Stores {
	return u.stores(&lockedState{mu: &u.dataMu, get: func() *memState { return u.state }})
}

func (u *memUnitOfWork) Transaction(ctx context.Context, fn func(stores Stores) error) error {
	u.txMu.Lock()
	defer u.txMu.Unlock()
	u.dataMu.Lock()
	work := u.state.clone()
	u.dataMu.Unlock()
	err := fn(u.stores(&lockedState{mu: &sync.Mutex{}, get: func() *memState { return work }}))
	if err != nil {
		return err
	}
	u.dataMu.Lock()
	u.state = work
	u.dataMu.Unlock()
	return nil
}

func (u *memUnitOfWork) stores(state *lockedState) Stores {
	return Stores{
		Docs:    memDocStore{state},
		Lines:   memLineStore{state: state, faults: &u.faults},
		Timeoff: memTimeoffStore{state},
		History: memHistoryStore{state},
	}
}

func (u *memUnitOfWork) snapshot() *memState {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	return u.state.clone()
}

func (u *memUnitOfWork) insertDoc(rec dbmodels.ApprovalDoc) {
	u.dataMu.Lock()
	defer u.dataMu.Unlock()
	u.state.docs[rec.ID] = rec
}

type lockedState struct {
	mu  sync.Locker
	get func() *memState
}

func (l *lockedState) do(fn func(s *memState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.get())
}

type memDocStore struct {
	*lockedState
}

var _ approvaldocstore.Provider = memDocStore{}

func (m memDocStore) Create(rec dbmodels.ApprovalDoc) (err error) {
	m.do(func(s *memState) {
		if _, ok := s.docs[rec.ID]; ok {
			err = apperrors.Conflict("документ %v уже существует", rec.ID)
			return
		}
		rec.UpdatedAt = rec.CreatedAt
		s.docs[rec.ID] = rec
	})
	return err
}

func (m memDocStore) Exist(id string) (exist bool, err error) {
	m.do(func(s *memState) {
		_, exist = s.docs[id]
	})
	return exist, nil
}

func (m memDocStore) GetByID(id string) (rec *dbmodels.ApprovalDoc, err error) {
	m.do(func(s *memState) {
		if doc, ok := s.docs[id]; ok {
			rec = &doc
		}
	})
	return rec, nil
}

func (m memDocStore) GetByIDForUpdate(id string) (*dbmodels.ApprovalDoc, error) {
	return m.GetByID(id)
}

func (m memDocStore) Update(id string, updMap map[string]interface{}) (err error) {
	m.do(func(s *memState) {
		doc, ok := s.docs[id]
		if !ok {
			return
		}
		for key, value := range updMap {
			switch key {
			case "title":
				doc.Title = value.(string)
			case "content":
				doc.Content = value.(string)
			case "category":
				doc.Category = value.(models.DocCategory)
			case "status":
				doc.Status = value.(models.DocStatus)
			default:
				err = errors.Errorf("unknown column %v", key)
				return
			}
		}
		s.docs[id] = doc
	})
	return err
}

func (m memDocStore) Delete(id string) error {
	m.do(func(s *memState) {
		delete(s.docs, id)
	})
	return nil
}

func (m memDocStore) filtered(match func(s *memState, doc dbmodels.ApprovalDoc) bool) (list []dbmodels.ApprovalDoc) {
	m.do(func(s *memState) {
		for _, doc := range s.docs {
			if match(s, doc) {
				list = append(list, doc)
			}
		}
	})
	sort.Slice(list, func(a, b int) bool {
		if !list[a].CreatedAt.Equal(list[b].CreatedAt) {
			return list[a].CreatedAt.After(list[b].CreatedAt)
		}
		return list[a].ID > list[b].ID
	})
	return list
}

func page(list []dbmodels.ApprovalDoc, offset, limit int) []dbmodels.ApprovalDoc {
	result := []dbmodels.ApprovalDoc{}
	for idx := offset; idx < len(list) && idx < offset+limit; idx++ {
		result = append(result, list[idx])
	}
	return result
}

func statusMatch(status *models.DocStatus) func(s *memState, doc dbmodels.ApprovalDoc) bool {
	return func(s *memState, doc dbmodels.ApprovalDoc) bool {
		return status == nil || doc.Status == *status
	}
}

func awaitingMatch(approverID int) func(s *memState, doc dbmodels.ApprovalDoc) bool {
	return func(s *memState, doc dbmodels.ApprovalDoc) bool {
		if doc.Status != models.DocStatusPending {
			return false
		}
		current := currentStep(s.docLines(doc.ID))
		return current != nil && current.ApproverID == approverID
	}
}

func (m memDocStore) List(status *models.DocStatus, offset, limit int) ([]dbmodels.ApprovalDoc, error) {
	return page(m.filtered(statusMatch(status)), offset, limit), nil
}

func (m memDocStore) ListCount(status *models.DocStatus) (int64, error) {
	return int64(len(m.filtered(statusMatch(status)))), nil
}

func (m memDocStore) ListAwaiting(approverID, offset, limit int) ([]dbmodels.ApprovalDoc, error) {
	return page(m.filtered(awaitingMatch(approverID)), offset, limit), nil
}

func (m memDocStore) ListAwaitingCount(approverID int) (int64, error) {
	return int64(len(m.filtered(awaitingMatch(approverID)))), nil
}

func (s *memState) docLines(docID string) []dbmodels.ApprovalLine {
	list := []dbmodels.ApprovalLine{}
	for _, line := range s.lines {
		if line.DocID == docID {
			list = append(list, line)
		}
	}
	sort.Slice(list, func(a, b int) bool {
		if list[a].Sequence != list[b].Sequence {
			return list[a].Sequence < list[b].Sequence
		}
		return list[a].ID < list[b].ID
	})
	return list
}

type memLineStore struct {
	state  *lockedState
	faults *memFaults
}

var _ approvallinestore.Provider = memLineStore{}

func (m memLineStore) Create(rec dbmodels.ApprovalLine) (id uint, err error) {
	if m.faults.lineCreate != nil {
		return 0, m.faults.lineCreate
	}
	m.state.do(func(s *memState) {
		s.nextLineID++
		rec.ID = s.nextLineID
		s.lines[rec.ID] = rec
		id = rec.ID
	})
	return id, nil
}

func (m memLineStore) List(docID string) (list []dbmodels.ApprovalLine, err error) {
	m.state.do(func(s *memState) {
		list = s.docLines(docID)
	})
	return list, nil
}

func (m memLineStore) GetCurrent(docID string) (rec *dbmodels.ApprovalLine, err error) {
	m.state.do(func(s *memState) {
		rec = currentStep(s.docLines(docID))
	})
	return rec, nil
}

func (m memLineStore) ExistPending(docID string) (exist bool, err error) {
	m.state.do(func(s *memState) {
		for _, line := range s.lines {
			if line.DocID == docID && line.Status == models.LineStatusPending {
				exist = true
				return
			}
		}
	})
	return exist, nil
}

func (m memLineStore) Resolve(id uint, status models.LineStatus, actedAt time.Time) (resolved bool, err error) {
	m.state.do(func(s *memState) {
		line, ok := s.lines[id]
		if !ok || line.Status != models.LineStatusPending {
			return
		}
		line.Status = status
		line.ActedAt = &actedAt
		s.lines[id] = line
		resolved = true
	})
	return resolved, nil
}

func (m memLineStore) DeleteByDoc(docID string) error {
	m.state.do(func(s *memState) {
		for id, line := range s.lines {
			if line.DocID == docID {
				delete(s.lines, id)
			}
		}
	})
	return nil
}

type memTimeoffStore struct {
	*lockedState
}

var _ timeoffstore.Provider = memTimeoffStore{}

func (m memTimeoffStore) Create(rec dbmodels.TimeoffRequest) error {
	m.do(func(s *memState) {
		s.timeoff[rec.DocID] = rec
	})
	return nil
}

func (m memTimeoffStore) GetByDoc(docID string) (rec *dbmodels.TimeoffRequest, err error) {
	m.do(func(s *memState) {
		if value, ok := s.timeoff[docID]; ok {
			rec = &value
		}
	})
	return rec, nil
}

func (m memTimeoffStore) DeleteByDoc(docID string) error {
	m.do(func(s *memState) {
		delete(s.timeoff, docID)
	})
	return nil
}

type memHistoryStore struct {
	*lockedState
}

var _ approvalhistorystore.Provider = memHistoryStore{}

func (m memHistoryStore) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	m.do(func(s *memState) {
		rec.ID = uuid.NewString()
		s.history = append(s.history, rec)
		id = rec.ID
	})
	return id, nil
}

func (m memHistoryStore) List(docID string) (list []dbmodels.ApprovalHistory, err error) {
	m.do(func(s *memState) {
		for _, rec := range s.history {
			if rec.DocID == docID {
				list = append(list, rec)
			}
		}
	})
	return list, nil
}

func (m memHistoryStore) DeleteByDoc(docID string) error {
	m.do(func(s *memState) {
		kept := s.history[:0]
		for _, rec := range s.history {
			if rec.DocID != docID {
				kept = append(kept, rec)
			}
		}
		s.history = kept
	})
	return nil
}

type memFileStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	deleteErr error
}

func newMemFileStorage() *memFileStorage {
	return &memFileStorage{files: map[string][]byte{}}
}

func (m *memFileStorage) Save(ctx context.Context, docID, fileName string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	storedName := docID + "_" + uuid.NewString()
	m.files[storedName] = append([]byte(nil), data...)
	return storedName, nil
}

func (m *memFileStorage) Load(ctx context.Context, storedName string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[storedName]
	if !ok {
		return nil, nil
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (m *memFileStorage) DeleteIfExists(ctx context.Context, storedName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, storedName)
	return nil
}

func (m *memFileStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// memSheetPrinter запоминает данные последнего листа согласования
type memSheetPrinter struct {
	mu      sync.Mutex
	doc     approvalapimodels.ApprovalDetailView
	history []approvalapimodels.ApprovalHistoryView
}

func (p *memSheetPrinter) ApprovalSheet(doc approvalapimodels.ApprovalDetailView, history []approvalapimodels.ApprovalHistoryView) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc = doc
	p.history = history
	return []byte("%PDF-1.3"), nil
}
