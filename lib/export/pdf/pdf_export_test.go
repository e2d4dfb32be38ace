package pdfexport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hr-approval-backend/models"
	approvalapimodels "hr-approval-backend/models/api/approval"

	"github.com/stretchr/testify/require"
)

func TestApprovalSheet(t *testing.T) {
	actedAt := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	fileName := "scan.pdf"
	doc := approvalapimodels.ApprovalDetailView{
		ApprovalView: approvalapimodels.ApprovalView{
			ID:        "AP-2024-000001",
			Title:     "Annual leave",
			Content:   "Please approve",
			Status:    models.DocStatusPending,
			Category:  models.DocCategoryTimeoff,
			AuthorID:  10,
			CreatedAt: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		},
		OriginalFileName: &fileName,
		Lines: []approvalapimodels.ApprovalLineView{
			{ID: 1, ApproverID: 20, Sequence: 1, Status: models.LineStatusApproved, ActedAt: &actedAt},
			{ID: 2, ApproverID: 30, Sequence: 2, Status: models.LineStatusPending},
		},
		Timeoff: &approvalapimodels.TimeoffView{
			Type:  models.TimeoffTypeAnnual,
			Start: "2024-04-01",
			End:   "2024-04-05",
		},
	}
	history := []approvalapimodels.ApprovalHistoryView{
		{LineID: 1, ActorID: 20, Action: models.LineStatusApproved, Opinion: "ok", CreatedAt: actedAt},
	}

	t.Run("cyrillic text", func(t *testing.T) {
		doc := doc
		doc.Title = "Отпуск в марте"
		history := []approvalapimodels.ApprovalHistoryView{
			{LineID: 1, ActorID: 20, Action: models.LineStatusApproved, Opinion: "согласовано", CreatedAt: actedAt},
		}
		data, err := NewProvider(fontDir(t)).ApprovalSheet(doc, history)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
		require.Contains(t, string(data), "/Encoding /Identity-H")
		require.Contains(t, string(data), "/ToUnicode")
	})
	t.Run("cyrillic glyphs have width", func(t *testing.T) {
		pdf, err := impl{fontDir: fontDir(t)}.newDocument()
		require.NoError(t, err)
		text := "Лист согласования"
		dots := bytes.Repeat([]byte("."), len([]rune(text)))
		require.Greater(t, pdf.GetStringWidth(text), pdf.GetStringWidth(string(dots)))
	})
	t.Run("font dir not set", func(t *testing.T) {
		_, err := NewProvider("").ApprovalSheet(doc, history)
		require.Error(t, err)
	})
	t.Run("missing font dir", func(t *testing.T) {
		_, err := NewProvider(t.TempDir()).ApprovalSheet(doc, nil)
		require.Error(t, err)
	})
}

// fontDir собирает каталог с Arial.ttf и "Arial Bold.ttf" из системного DejaVu
func fontDir(t *testing.T) string {
	t.Helper()
	sources := map[string][]string{
		"Arial.ttf": {
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		},
		"Arial Bold.ttf": {
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
		},
	}
	dir := t.TempDir()
	for target, candidates := range sources {
		var data []byte
		for _, candidate := range candidates {
			if content, err := os.ReadFile(candidate); err == nil {
				data = content
				break
			}
		}
		if data == nil {
			t.Skip("в системе нет шрифта DejaVu")
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, target), data, 0o600))
	}
	return dir
}
