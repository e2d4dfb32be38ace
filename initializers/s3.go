package initializers

import (
	"context"
	"hr-approval-backend/config"
	filestorage "hr-approval-backend/lib/file-storage"
	s3client "hr-approval-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewClient()
	if err != nil {
		panic(err.Error())
	}

	// Проверка соединения и наличия бакета
	err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName)
	if err != nil {
		log.WithError(err).Error("S3 соединение не удалось - бакет вложений недоступен")
	}

	filestorage.NewInstance(minioClient, config.Conf.S3.BucketName)
	log.Info("S3 клиент успешно инициализирован")
}
