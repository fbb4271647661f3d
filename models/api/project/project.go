package projectapimodels

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type ProjectData struct {
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Location    string               `json:"location"`
	Status      models.ProjectStatus `json:"status"`
	Description string               `json:"description"`
}

func (r ProjectData) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("не указано название проекта")
	}
	if r.Status != "" && !r.Status.IsValid() {
		return errors.New("указан неизвестный статус проекта")
	}
	return nil
}

type TaskView struct {
	ID              string            `json:"id"`
	SourceRequestID *string           `json:"source_request_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	AssigneeRole    models.UserRole   `json:"assignee_role"`
	Status          models.TaskStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

type TaskStatusData struct {
	Status models.TaskStatus `json:"status"`
}

func (r TaskStatusData) Validate() error {
	if r.Status != models.TaskOpen && r.Status != models.TaskDone {
		return errors.New("указан неизвестный статус задачи")
	}
	return nil
}

type ProjectView struct {
	ProjectData
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Tasks     []TaskView `json:"tasks,omitempty"`
}

func ProjectConvert(rec dbmodels.Project) ProjectView {
	result := ProjectView{
		ProjectData: ProjectData{
			Name:        rec.Name,
			Code:        rec.Code,
			Location:    rec.Location,
			Status:      rec.Status,
			Description: rec.Description,
		},
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
	}
	for _, task := range rec.Tasks {
		result.Tasks = append(result.Tasks, TaskConvert(task))
	}
	return result
}

func TaskConvert(rec dbmodels.ProjectTask) TaskView {
	return TaskView{
		ID:              rec.ID,
		SourceRequestID: rec.SourceRequestID,
		Title:           rec.Title,
		Description:     rec.Description,
		AssigneeRole:    rec.AssigneeRole,
		Status:          rec.Status,
		CreatedAt:       rec.CreatedAt,
	}
}

type ProjectFilter struct {
	Search string `json:"search"`
}
