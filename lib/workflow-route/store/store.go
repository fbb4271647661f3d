package workflowroutestore

import (
	"context"
	dbmodels "estate-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	// Find маршрут по типу заявки: активные в приоритете, затем самый свежий.
	// Не найден - (nil, nil), найден неактивный - route.IsActive == false
	Find(ctx context.Context, requestType string) (*dbmodels.WorkflowRoute, error)
	Create(rec dbmodels.WorkflowRoute) (id string, err error)
	GetByID(id string) (*dbmodels.WorkflowRoute, error)
	Save(rec dbmodels.WorkflowRoute) error
	Delete(id string) error
	List() ([]dbmodels.WorkflowRoute, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Find(ctx context.Context, requestType string) (*dbmodels.WorkflowRoute, error) {
	rec := dbmodels.WorkflowRoute{}
	err := i.db.
		WithContext(ctx).
		Where("request_type = ?", requestType).
		Order("is_active desc").
		Order("updated_at desc").
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

func (i impl) Create(rec dbmodels.WorkflowRoute) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.WorkflowRoute, error) {
	rec := dbmodels.WorkflowRoute{}
	err := i.db.
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

func (i impl) Save(rec dbmodels.WorkflowRoute) error {
	tx := i.db.
		Model(&rec).
		Select("*").
		Omit("created_at").
		Updates(&rec)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.WorkflowRoute{}).
		Error
}

func (i impl) List() (list []dbmodels.WorkflowRoute, err error) {
	err = i.db.
		Order("request_type").
		Order("updated_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
