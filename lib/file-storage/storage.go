package filestorage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

var ErrStorageUnavailable = errors.New("файловое хранилище не подключено")

// ObjectStorage хранилище содержимого файлов
type ObjectStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// NewObjectStorage без клиента S3 - хранилище отвечает ErrStorageUnavailable
func NewObjectStorage(client *minio.Client, bucket string) ObjectStorage {
	if client == nil {
		return unavailableStorage{}
	}
	return &minioStorage{
		client: client,
		bucket: bucket,
	}
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func (s minioStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject ленивый, ошибка отсутствия объекта приходит только при обращении
	if _, err = obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (s minioStorage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

type unavailableStorage struct{}

func (unavailableStorage) Put(context.Context, string, io.Reader, int64, string) error {
	return ErrStorageUnavailable
}

func (unavailableStorage) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrStorageUnavailable
}

func (unavailableStorage) Remove(context.Context, string) error {
	return ErrStorageUnavailable
}
