package initializers

import (
	"hr-approval-backend/fiberlog"
	"hr-approval-backend/middleware"

	log "github.com/sirupsen/logrus"
)

func InitLogger(level string) *fiberlog.Config {
	formatter := &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetFormatter(formatter)
	log.SetLevel(logLevel)
	if err != nil {
		log.WithField("level", level).Warn("неизвестный уровень логирования, используется info")
	}

	logger := log.New()
	logger.SetFormatter(formatter)
	logger.SetLevel(logLevel)
	fiberlog.EmployeeIDFunc = middleware.GetEmployeeID
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagRequestID,
			fiberlog.TagEmployeeID,
		},
	}
}
