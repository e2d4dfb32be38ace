package initializers

import (
	"context"
	"time"

	"hr-approval-backend/config"
	"hr-approval-backend/db"
	"hr-approval-backend/fiberlog"
	approvalhandler "hr-approval-backend/lib/approval"
	pdfexport "hr-approval-backend/lib/export/pdf"
	xlsexport "hr-approval-backend/lib/export/xls"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger(config.Conf.Log.Level)
	InitDBConnection()
	InitS3(ctx)
	xlsexport.NewHandler()
	pdfexport.NewHandler(config.Conf.Export.FontDir)
	approvalhandler.NewHandler(approvalhandler.NewUnitOfWork(db.DB), ApprovalSettings())
}

// ApprovalSettings настройки согласования, читаются один раз при старте
func ApprovalSettings() approvalhandler.Settings {
	return approvalhandler.Settings{
		AdminEmployeeID:  config.Conf.Approval.AdminEmployeeID,
		DocIDMaxAttempts: config.Conf.Approval.DocIDMaxAttempts,
		LockWait:         time.Duration(config.Conf.Approval.LockWaitSec) * time.Second,
		NewWindow:        time.Duration(config.Conf.Approval.NewWindowHours) * time.Hour,
	}
}
