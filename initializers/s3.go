package initializers

import (
	"context"
	"estate-tracker-backend/config"
	filestorage "estate-tracker-backend/lib/file-storage"
	s3client "estate-tracker-backend/s3"

	log "github.com/sirupsen/logrus"
)

// InitS3 без S3 сервис работает, вложения недоступны
func InitS3(ctx context.Context) filestorage.ObjectStorage {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 не настроен, вложения заявок недоступны")
		return filestorage.NewObjectStorage(nil, "")
	}
	if err := s3client.Connect(ctx); err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return filestorage.NewObjectStorage(nil, "")
	}
	log.Info("S3 клиент успешно инициализирован")
	return filestorage.NewObjectStorage(s3client.Client, config.Conf.S3.BucketName)
}
