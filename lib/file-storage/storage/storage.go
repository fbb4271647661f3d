package filesdbstorage

import (
	dbmodels "estate-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.RequestAttachment) (id string, err error)
	GetByID(requestID, id string) (*dbmodels.RequestAttachment, error)
	ListByRequest(requestID string) ([]dbmodels.RequestAttachment, error)
	Delete(requestID, id string) error
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.RequestAttachment) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(requestID, id string) (*dbmodels.RequestAttachment, error) {
	rec := dbmodels.RequestAttachment{}
	err := i.db.
		Where("request_id = ?", requestID).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByRequest(requestID string) (list []dbmodels.RequestAttachment, err error) {
	err = i.db.
		Model(&dbmodels.RequestAttachment{}).
		Where("request_id = ?", requestID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(requestID, id string) error {
	tx := i.db.
		Where("request_id = ?", requestID).
		Where("id = ?", id).
		Delete(&dbmodels.RequestAttachment{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}
