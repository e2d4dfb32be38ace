package s3client

import (
	"context"
	"hr-approval-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const location = "us-east-1"

func NewClient() (*minio.Client, error) {
	useSSL := false
	if config.Conf.S3.UseSSL != nil {
		useSSL = *config.Conf.S3.UseSSL
	}
	return minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: useSSL,
	})
}

// MakeBucket создает бакет, если его еще нет
func MakeBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}
