package xlsexport

import (
	"testing"
	"time"

	"hr-approval-backend/models"
	approvalapimodels "hr-approval-backend/models/api/approval"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportApprovalList(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		list := []approvalapimodels.ApprovalView{
			{
				ID:        "AP-2024-000001",
				Title:     "Отпуск",
				Category:  models.DocCategoryTimeoff,
				Status:    models.DocStatusPending,
				AuthorID:  10,
				CreatedAt: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
			},
			{
				ID:       "AP-2024-000002",
				Title:    "Закупка",
				Category: models.DocCategoryEtc,
				Status:   models.DocStatusApproved,
				AuthorID: 11,
			},
		}
		buf, err := NewProvider().ExportApprovalList(list)
		require.NoError(t, err)

		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, headers(approvalColumns), rows[0])
		require.Equal(t, "AP-2024-000001", rows[1][0])
		require.Equal(t, "TIMEOFF", rows[1][2])
		require.Equal(t, "05.03.2024 10:30", rows[1][5])
		require.Equal(t, "APPROVED", rows[2][3])
		require.Equal(t, "11", rows[2][4])

		width, err := f.GetColWidth(sheetName, "B")
		require.NoError(t, err)
		require.Equal(t, approvalColumns[1].width, width)
	})
	t.Run("empty", func(t *testing.T) {
		buf, err := NewProvider().ExportApprovalList(nil)
		require.NoError(t, err)
		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}
