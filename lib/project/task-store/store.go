package projecttaskstore

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ProjectTask) (id string, err error)
	GetBySourceRequest(requestID string) (*dbmodels.ProjectTask, error)
	SetStatus(projectID, id string, status models.TaskStatus) error
	List(projectID string) ([]dbmodels.ProjectTask, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ProjectTask) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetBySourceRequest(requestID string) (*dbmodels.ProjectTask, error) {
	rec := dbmodels.ProjectTask{}
	err := i.db.
		Where("source_request_id = ?", requestID).
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

func (i impl) SetStatus(projectID, id string, status models.TaskStatus) error {
	tx := i.db.
		Model(&dbmodels.ProjectTask{}).
		Where("id = ?", id).
		Where("project_id = ?", projectID).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) List(projectID string) (list []dbmodels.ProjectTask, err error) {
	err = i.db.
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
