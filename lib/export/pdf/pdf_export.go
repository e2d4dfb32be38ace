package pdfexport

import (
	"bytes"
	"fmt"
	approvalapimodels "hr-approval-backend/models/api/approval"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type Provider interface {
	ApprovalSheet(doc approvalapimodels.ApprovalDetailView, history []approvalapimodels.ApprovalHistoryView) ([]byte, error)
}

var Instance Provider

// NewHandler fontDir - каталог с Arial.ttf и "Arial Bold.ttf"
func NewHandler(fontDir string) {
	Instance = NewProvider(fontDir)
}

func NewProvider(fontDir string) Provider {
	return impl{fontDir: fontDir}
}

type impl struct {
	fontDir string
}

const (
	timeLayout = "02.01.2006 15:04"
	fontFamily = "Arial"
)

func (i impl) ApprovalSheet(doc approvalapimodels.ApprovalDetailView, history []approvalapimodels.ApprovalHistoryView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("ApprovalSheet panic recover: %v", r)
		}
	}()
	pdf, err := i.newDocument()
	if err != nil {
		return nil, err
	}
	_, lineHt := pdf.GetFontSize()
	lineHt += 2

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Лист согласования %v", doc.ID), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)

	field := func(name, value string) {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(45, lineHt, name, "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.MultiCell(0, lineHt, value, "", "L", false)
	}
	field("Заголовок:", doc.Title)
	field("Категория:", string(doc.Category))
	field("Статус:", string(doc.Status))
	field("Автор:", fmt.Sprint(doc.AuthorID))
	field("Создан:", doc.CreatedAt.Format(timeLayout))
	if doc.Timeoff != nil {
		field("Отпуск:", fmt.Sprintf("%v %v - %v %v", doc.Timeoff.Type, doc.Timeoff.Start, doc.Timeoff.End, doc.Timeoff.Reason))
	}
	if doc.OriginalFileName != nil {
		field("Вложение:", *doc.OriginalFileName)
	}
	pdf.Ln(2)
	pdf.MultiCell(0, lineHt, doc.Content, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHt, "Этапы согласования", "", 1, "L", false, 0, "")
	widths := []float64{20, 40, 40, 50}
	row := func(style string, values ...string) {
		pdf.SetFont(fontFamily, style, 10)
		for idx, value := range values {
			pdf.CellFormat(widths[idx], lineHt, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	row("B", "№", "Согласующий", "Статус", "Дата")
	for _, line := range doc.Lines {
		actedAt := ""
		if line.ActedAt != nil {
			actedAt = line.ActedAt.Format(timeLayout)
		}
		row("", fmt.Sprint(line.Sequence), fmt.Sprint(line.ApproverID), string(line.Status), actedAt)
	}

	if len(history) != 0 {
		pdf.Ln(4)
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, lineHt, "История", "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		for _, rec := range history {
			text := fmt.Sprintf("%v  %v  %v", rec.CreatedAt.Format(timeLayout), rec.ActorID, rec.Action)
			if rec.Opinion != "" {
				text += ": " + rec.Opinion
			}
			pdf.MultiCell(0, lineHt, text, "", "L", false)
		}
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i impl) newDocument() (*fpdf.Fpdf, error) {
	if i.fontDir == "" {
		return nil, errors.New("не задан каталог со шрифтами для pdf")
	}
	pdf := fpdf.New("P", "mm", "A4", i.fontDir)
	pdf.AddPage()
	pdf.AddUTF8Font(fontFamily, "", "Arial.ttf")
	pdf.AddUTF8Font(fontFamily, "B", "Arial Bold.ttf")
	pdf.SetFont(fontFamily, "", 11)
	if pdf.Error() != nil {
		return nil, errors.Wrap(pdf.Error(), "ошибка загрузки шрифтов для pdf")
	}
	return pdf, nil
}
