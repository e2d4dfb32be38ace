package xlsexport

import (
	"bytes"
	approvalapimodels "hr-approval-backend/models/api/approval"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportApprovalList(list []approvalapimodels.ApprovalView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

func NewProvider() Provider {
	return impl{}
}

type impl struct{}

const sheetName = "Согласования"

func (i impl) ExportApprovalList(list []approvalapimodels.ApprovalView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа в xlsx")
	}
	headerRow, err := writeHeader(f, sheetName, approvalColumns)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if err = writeRows(f, sheetName, approvalColumns, list, headerRow); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
	}
	return f.WriteToBuffer()
}
