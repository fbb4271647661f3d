package filestorage

import (
	"context"
	"estate-tracker-backend/db"
	filesdbstorage "estate-tracker-backend/lib/file-storage/storage"
	requeststore "estate-tracker-backend/lib/request/store"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	"estate-tracker-backend/models"
	requestapimodels "estate-tracker-backend/models/api/request"
	dbmodels "estate-tracker-backend/models/db"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type UploadInfo struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type RequestChecker interface {
	GetByID(id string) (*dbmodels.Request, error)
}

type Provider interface {
	Upload(ctx context.Context, requestID string, actor models.Actor, file UploadInfo) (requestapimodels.AttachmentView, error)
	List(requestID string) ([]requestapimodels.AttachmentView, error)
	Download(ctx context.Context, requestID, attachmentID string) (io.ReadCloser, requestapimodels.AttachmentView, error)
	Delete(ctx context.Context, requestID, attachmentID string, actor models.Actor) error
}

var Instance Provider

func NewHandler(objects ObjectStorage, maxSize int64) {
	Instance = &impl{
		objects:  objects,
		store:    filesdbstorage.NewInstance(db.DB),
		requests: requeststore.NewInstance(db.DB),
		maxSize:  maxSize,
	}
}

type impl struct {
	objects  ObjectStorage
	store    filesdbstorage.Provider
	requests RequestChecker
	maxSize  int64
}

func (i impl) getLogger(requestID string) *log.Entry {
	return log.WithField("request_id", requestID)
}

func (i impl) Upload(ctx context.Context, requestID string, actor models.Actor, file UploadInfo) (view requestapimodels.AttachmentView, err error) {
	logger := i.getLogger(requestID).WithField("file_name", file.FileName)
	name := strings.TrimSpace(filepath.Base(file.FileName))
	if name == "" || name == "." || name == "/" {
		return view, workflowerrors.Validation("не указано имя файла")
	}
	if file.Size <= 0 {
		return view, workflowerrors.Validation("пустой файл")
	}
	if i.maxSize > 0 && file.Size > i.maxSize {
		return view, workflowerrors.Validation(fmt.Sprintf("размер файла превышает %d байт", i.maxSize))
	}
	if err = i.checkRequest(requestID); err != nil {
		return view, err
	}
	rec := dbmodels.RequestAttachment{
		RequestID:   requestID,
		FileName:    name,
		ContentType: file.ContentType,
		Size:        file.Size,
		UploadedBy:  actor.Email,
	}
	rec.ID = uuid.NewString()
	rec.ObjectKey = objectKey(requestID, rec.ID, name)
	err = i.objects.Put(ctx, rec.ObjectKey, file.Reader, file.Size, file.ContentType)
	if err != nil {
		logger.WithError(err).Error("ошибка загрузки файла в хранилище")
		return view, workflowerrors.Persistence(err)
	}
	_, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения вложения")
		if rmErr := i.objects.Remove(ctx, rec.ObjectKey); rmErr != nil {
			logger.WithError(rmErr).Warn("ошибка удаления файла из хранилища")
		}
		return view, workflowerrors.Persistence(err)
	}
	stored, err := i.store.GetByID(requestID, rec.ID)
	if err == nil && stored != nil {
		rec = *stored
	}
	return requestapimodels.AttachmentConvert(rec), nil
}

func (i impl) List(requestID string) ([]requestapimodels.AttachmentView, error) {
	if err := i.checkRequest(requestID); err != nil {
		return nil, err
	}
	list, err := i.store.ListByRequest(requestID)
	if err != nil {
		i.getLogger(requestID).WithError(err).Error("ошибка получения списка вложений")
		return nil, workflowerrors.Persistence(err)
	}
	result := make([]requestapimodels.AttachmentView, 0, len(list))
	for _, rec := range list {
		result = append(result, requestapimodels.AttachmentConvert(rec))
	}
	return result, nil
}

func (i impl) Download(ctx context.Context, requestID, attachmentID string) (io.ReadCloser, requestapimodels.AttachmentView, error) {
	rec, err := i.get(requestID, attachmentID)
	if err != nil {
		return nil, requestapimodels.AttachmentView{}, err
	}
	reader, err := i.objects.Get(ctx, rec.ObjectKey)
	if err != nil {
		i.getLogger(requestID).WithField("object_key", rec.ObjectKey).WithError(err).Error("ошибка получения файла из хранилища")
		return nil, requestapimodels.AttachmentView{}, workflowerrors.Persistence(err)
	}
	return reader, requestapimodels.AttachmentConvert(*rec), nil
}

// Delete удалить вложение может загрузивший его пользователь или администратор
func (i impl) Delete(ctx context.Context, requestID, attachmentID string, actor models.Actor) error {
	rec, err := i.get(requestID, attachmentID)
	if err != nil {
		return err
	}
	if !actor.Role.IsAdmin() && !models.SameIdentity(actor.Email, rec.UploadedBy) {
		return workflowerrors.ErrPermissionDenied
	}
	logger := i.getLogger(requestID).WithField("attachment_id", attachmentID)
	err = i.store.Delete(requestID, attachmentID)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления вложения")
		return workflowerrors.Persistence(err)
	}
	if err = i.objects.Remove(ctx, rec.ObjectKey); err != nil {
		logger.WithError(err).Warn("ошибка удаления файла из хранилища")
	}
	return nil
}

func (i impl) get(requestID, attachmentID string) (*dbmodels.RequestAttachment, error) {
	rec, err := i.store.GetByID(requestID, attachmentID)
	if err != nil {
		i.getLogger(requestID).WithError(err).Error("ошибка получения вложения")
		return nil, workflowerrors.Persistence(err)
	}
	if rec == nil {
		return nil, workflowerrors.ErrNotFound
	}
	return rec, nil
}

func (i impl) checkRequest(requestID string) error {
	rec, err := i.requests.GetByID(requestID)
	if err != nil {
		i.getLogger(requestID).WithError(err).Error("ошибка получения заявки")
		return workflowerrors.Persistence(err)
	}
	if rec == nil {
		return workflowerrors.ErrNotFound
	}
	return nil
}

func objectKey(requestID, attachmentID, fileName string) string {
	return fmt.Sprintf("requests/%s/%s%s", requestID, attachmentID, strings.ToLower(filepath.Ext(fileName)))
}
