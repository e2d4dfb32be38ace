package approvalapimodels

import (
	"hr-approval-backend/models"
	dbmodels "hr-approval-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(value string) *string {
	return &value
}

func TestApprovalModels(t *testing.T) {
	t.Run(`ApprovalCreateData Validate check`, func(t *testing.T) {
		data := ApprovalCreateData{
			Lines: []ApprovalLineData{{ApproverID: 5, Sequence: 1}},
		}
		require.Nil(t, data.Validate())

		data.Lines = append(data.Lines, ApprovalLineData{ApproverID: 0, Sequence: 2})
		require.NotNil(t, data.Validate())

		data.Lines = []ApprovalLineData{{ApproverID: 7, Sequence: 0}}
		require.NotNil(t, data.Validate())

		data.Lines = nil
		data.Timeoff = &TimeoffData{Start: strPtr("2026-10-20"), End: strPtr("2026-10-19")}
		require.NotNil(t, data.Validate())

		data.Timeoff = &TimeoffData{Start: strPtr("20.10.2026")}
		require.NotNil(t, data.Validate())

		data.Timeoff = &TimeoffData{Start: strPtr("2026-10-20"), End: strPtr("2026-10-22"), Type: "whatever"}
		require.Nil(t, data.Validate())
	})

	t.Run(`TimeoffData Dates defaults check`, func(t *testing.T) {
		today := time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)
		start, end, err := TimeoffData{}.Dates(today)
		require.Nil(t, err)
		require.Equal(t, "2026-10-15", start.Format(DateLayout))
		require.Equal(t, "2026-10-15", end.Format(DateLayout))

		start, end, err = TimeoffData{End: strPtr("2026-10-17")}.Dates(today)
		require.Nil(t, err)
		require.Equal(t, "2026-10-15", start.Format(DateLayout))
		require.Equal(t, "2026-10-17", end.Format(DateLayout))
	})

	t.Run(`ApprovalConvert isNew check`, func(t *testing.T) {
		now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
		newSince := now.Add(-24 * time.Hour)
		rec := dbmodels.ApprovalDoc{
			ID:        "AP-2026-000001",
			CreatedAt: now.Add(-time.Second),
			Status:    models.DocStatusPending,
		}
		require.True(t, ApprovalConvert(rec, newSince).IsNew)

		rec.CreatedAt = now.Add(-25 * time.Hour)
		require.False(t, ApprovalConvert(rec, newSince).IsNew)

		rec.CreatedAt = time.Time{}
		require.False(t, ApprovalConvert(rec, newSince).IsNew)
	})

	t.Run(`ApprovalDetailConvert check`, func(t *testing.T) {
		rec := dbmodels.ApprovalDoc{ID: "AP-2026-000002", Category: models.DocCategoryTimeoff}
		lines := []dbmodels.ApprovalLine{
			{ID: 1, DocID: rec.ID, Sequence: 1, ApproverID: 5, Status: models.LineStatusApproved},
			{ID: 2, DocID: rec.ID, Sequence: 2, ApproverID: 7, Status: models.LineStatusPending},
		}
		timeoff := dbmodels.TimeoffRequest{
			DocID:     rec.ID,
			Type:      models.TimeoffTypeSick,
			StartDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
		}
		view := ApprovalDetailConvert(rec, lines, &timeoff, time.Now())
		require.Len(t, view.Lines, 2)
		require.Equal(t, 7, view.Lines[1].ApproverID)
		require.NotNil(t, view.Timeoff)
		require.Equal(t, "2026-10-20", view.Timeoff.Start)
		require.Equal(t, models.TimeoffTypeSick, view.Timeoff.Type)
	})
}
