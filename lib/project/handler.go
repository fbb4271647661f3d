package projecthandler

import (
	"estate-tracker-backend/db"
	projectstore "estate-tracker-backend/lib/project/store"
	projecttaskstore "estate-tracker-backend/lib/project/task-store"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	"estate-tracker-backend/models"
	projectapimodels "estate-tracker-backend/models/api/project"
	dbmodels "estate-tracker-backend/models/db"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(data projectapimodels.ProjectData) (id string, err error)
	Update(id string, data projectapimodels.ProjectData) error
	Delete(id string) error
	GetByID(id string) (projectapimodels.ProjectView, error)
	List(search string) ([]projectapimodels.ProjectView, error)
	Exists(id string) (bool, error)
	SetTaskStatus(projectID, taskID string, status models.TaskStatus) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     projectstore.NewInstance(db.DB),
		taskStore: projecttaskstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     projectstore.Provider
	taskStore projecttaskstore.Provider
}

func (i impl) getLogger(projectID string) *log.Entry {
	return log.WithField("project_id", projectID)
}

func (i impl) Create(data projectapimodels.ProjectData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", workflowerrors.Validation(err.Error())
	}
	rec := dbmodels.Project{
		Name:        strings.TrimSpace(data.Name),
		Code:        strings.TrimSpace(data.Code),
		Location:    data.Location,
		Status:      data.Status,
		Description: data.Description,
	}
	if rec.Status == "" {
		rec.Status = models.ProjectPlanned
	}
	id, err = i.store.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка создания проекта")
		return "", workflowerrors.Persistence(err)
	}
	return id, nil
}

func (i impl) Update(id string, data projectapimodels.ProjectData) error {
	if err := data.Validate(); err != nil {
		return workflowerrors.Validation(err.Error())
	}
	if _, err := i.get(id); err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"name":        strings.TrimSpace(data.Name),
		"code":        strings.TrimSpace(data.Code),
		"location":    data.Location,
		"description": data.Description,
	}
	if data.Status != "" {
		updMap["status"] = data.Status
	}
	if err := i.store.Update(id, updMap); err != nil {
		i.getLogger(id).WithError(err).Error("ошибка изменения проекта")
		return workflowerrors.Persistence(err)
	}
	return nil
}

func (i impl) Delete(id string) error {
	if _, err := i.get(id); err != nil {
		return err
	}
	if err := i.store.Delete(id); err != nil {
		i.getLogger(id).WithError(err).Error("ошибка удаления проекта")
		return workflowerrors.Persistence(err)
	}
	return nil
}

func (i impl) GetByID(id string) (projectapimodels.ProjectView, error) {
	rec, err := i.get(id)
	if err != nil {
		return projectapimodels.ProjectView{}, err
	}
	return projectapimodels.ProjectConvert(*rec), nil
}

func (i impl) List(search string) ([]projectapimodels.ProjectView, error) {
	list, err := i.store.List(search)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка проектов")
		return nil, workflowerrors.Persistence(err)
	}
	result := make([]projectapimodels.ProjectView, 0, len(list))
	for _, rec := range list {
		result = append(result, projectapimodels.ProjectConvert(rec))
	}
	return result, nil
}

func (i impl) Exists(id string) (bool, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

func (i impl) SetTaskStatus(projectID, taskID string, status models.TaskStatus) error {
	if err := i.taskStore.SetStatus(projectID, taskID, status); err != nil {
		i.getLogger(projectID).WithField("task_id", taskID).WithError(err).Error("ошибка изменения статуса задачи")
		return workflowerrors.ErrNotFound
	}
	return nil
}

func (i impl) get(id string) (*dbmodels.Project, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.getLogger(id).WithError(err).Error("ошибка получения проекта")
		return nil, workflowerrors.Persistence(err)
	}
	if rec == nil {
		return nil, workflowerrors.ErrNotFound
	}
	return rec, nil
}
