package xlsexport

import (
	approvalapimodels "hr-approval-backend/models/api/approval"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "02.01.2006 15:04"

// column колонка выгрузки: заголовок, ширина и значение ячейки для документа
type column struct {
	header string
	width  float64
	value  func(item approvalapimodels.ApprovalView) interface{}
}

var approvalColumns = []column{
	{header: "Номер", width: 18, value: func(item approvalapimodels.ApprovalView) interface{} { return item.ID }},
	{header: "Заголовок", width: 40, value: func(item approvalapimodels.ApprovalView) interface{} { return item.Title }},
	{header: "Категория", width: 14, value: func(item approvalapimodels.ApprovalView) interface{} { return string(item.Category) }},
	{header: "Статус", width: 14, value: func(item approvalapimodels.ApprovalView) interface{} { return string(item.Status) }},
	{header: "Автор", width: 12, value: func(item approvalapimodels.ApprovalView) interface{} { return item.AuthorID }},
	{header: "Дата создания", width: 20, value: func(item approvalapimodels.ApprovalView) interface{} {
		if item.CreatedAt.IsZero() {
			return ""
		}
		return item.CreatedAt.Format(dateLayout)
	}},
}

func headers(columns []column) []string {
	result := make([]string, 0, len(columns))
	for _, col := range columns {
		result = append(result, col.header)
	}
	return result
}

func cellStyle(f *excelize.File, bold bool, horizontal string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: horizontal,
			Vertical:   "center",
			WrapText:   !bold,
		},
		Font: &excelize.Font{
			Bold:   bold,
			Family: "Times New Roman",
			Size:   11,
		},
	})
}

// writeHeader пишет строку заголовков и задает ширину колонок, возвращает номер строки заголовка
func writeHeader(f *excelize.File, sheet string, columns []column) (int, error) {
	row := 1
	style, err := cellStyle(f, true, "center")
	if err != nil {
		return row, err
	}
	values := make([]interface{}, 0, len(columns))
	for idx, col := range columns {
		name, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return row, err
		}
		if err = f.SetColWidth(sheet, name, name, col.width); err != nil {
			return row, err
		}
		values = append(values, col.header)
	}
	if err = writeRow(f, sheet, row, values); err != nil {
		return row, err
	}
	return row, setRangeStyle(f, sheet, style, 1, row, len(columns), row)
}

// writeRows пишет документы начиная со строки после заголовка
func writeRows(f *excelize.File, sheet string, columns []column, list []approvalapimodels.ApprovalView, headerRow int) error {
	if len(list) == 0 {
		return nil
	}
	style, err := cellStyle(f, false, "left")
	if err != nil {
		return err
	}
	row := headerRow
	for _, item := range list {
		row++
		values := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			values = append(values, col.value(item))
		}
		if err = writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	return setRangeStyle(f, sheet, style, 1, headerRow+1, len(columns), row)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func setRangeStyle(f *excelize.File, sheet string, style, colFrom, rowFrom, colTo, rowTo int) error {
	cellFirst, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	cellLast, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellFirst, cellLast, style)
}
