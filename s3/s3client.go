package s3client

import (
	"context"
	"estate-tracker-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

var Client *minio.Client

const location = "us-east-1"

// Connect клиент S3 и бакет для вложений заявок
func Connect(ctx context.Context) error {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: config.Conf.S3.UseSSL != nil && *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка создания клиента S3")
	}
	err = makeBucket(ctx, minioClient, config.Conf.S3.BucketName)
	if err != nil {
		return err
	}
	Client = minioClient
	return nil
}

func makeBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrapf(err, "ошибка проверки бакета %s", bucketName)
	}
	if exists {
		return nil
	}
	err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return errors.Wrapf(err, "ошибка создания бакета %s", bucketName)
	}
	return nil
}
