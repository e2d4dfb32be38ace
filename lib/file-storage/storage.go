package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider хранилище вложений документов согласования
type Provider interface {
	// Save сохраняет вложение и возвращает имя объекта в хранилище
	Save(ctx context.Context, docID, fileName string, data []byte) (storedName string, err error)
	// Load nil - объект отсутствует
	Load(ctx context.Context, storedName string) (io.ReadCloser, error)
	DeleteIfExists(ctx context.Context, storedName string) error
}

var Instance Provider

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func NewInstance(s3client *minio.Client, bucketName string) {
	Instance = NewProvider(s3client, bucketName)
}

func NewProvider(s3client *minio.Client, bucketName string) Provider {
	return &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

func (i impl) Save(ctx context.Context, docID, fileName string, data []byte) (string, error) {
	storedName := StoredName(docID, fileName)
	_, err := i.s3client.PutObject(ctx, i.bucketName, storedName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения файла в хранилище")
	}
	log.
		WithField("doc_id", docID).
		WithField("stored_name", storedName).
		Debug("файл сохранен в хранилище")
	return storedName, nil
}

func (i impl) Load(ctx context.Context, storedName string) (io.ReadCloser, error) {
	_, err := i.s3client.StatObject(ctx, i.bucketName, storedName, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ошибка получения информации о файле")
	}
	object, err := i.s3client.GetObject(ctx, i.bucketName, storedName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	return object, nil
}

func (i impl) DeleteIfExists(ctx context.Context, storedName string) error {
	err := i.s3client.RemoveObject(ctx, i.bucketName, storedName, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return errors.Wrap(err, "ошибка удаления файла из хранилища")
	}
	return nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}

// StoredName имя объекта: ид документа, случайный суффикс и расширение исходного файла
func StoredName(docID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	return fmt.Sprintf("%v_%v%v", docID, uuid.NewString(), ext)
}
