package approvalhandler

import (
	"hr-approval-backend/models"
	dbmodels "hr-approval-backend/models/db"
)

// resolveDocStatus статус документа после решения по текущему этапу
func resolveDocStatus(decision models.LineStatus, hasPending bool) models.DocStatus {
	switch {
	case decision == models.LineStatusRejected:
		return models.DocStatusRejected
	case !hasPending:
		return models.DocStatusApproved
	default:
		return models.DocStatusPending
	}
}

// currentStep этап PENDING с минимальным Sequence, при равенстве - с минимальным ID
func currentStep(lines []dbmodels.ApprovalLine) *dbmodels.ApprovalLine {
	var result *dbmodels.ApprovalLine
	for idx := range lines {
		line := &lines[idx]
		if line.Status != models.LineStatusPending {
			continue
		}
		if result == nil ||
			line.Sequence < result.Sequence ||
			(line.Sequence == result.Sequence && line.ID < result.ID) {
			result = line
		}
	}
	return result
}

// canApprove у завершенного документа текущего этапа нет
func canApprove(doc dbmodels.ApprovalDoc, lines []dbmodels.ApprovalLine, callerID *int, isAdmin bool) bool {
	if doc.Status != models.DocStatusPending {
		return false
	}
	current := currentStep(lines)
	if current == nil {
		return false
	}
	if isAdmin {
		return true
	}
	return callerID != nil && *callerID == current.ApproverID
}
