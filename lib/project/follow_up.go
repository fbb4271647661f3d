package projecthandler

import (
	"context"
	"estate-tracker-backend/db"
	projecttaskstore "estate-tracker-backend/lib/project/task-store"
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const followUpTitleTemplate = "متابعة تنفيذ: %s"

// FollowUpSink задача проекта по согласованной технической заявке
type FollowUpSink struct {
	taskStore projecttaskstore.Provider
}

func NewFollowUpSink() *FollowUpSink {
	return &FollowUpSink{
		taskStore: projecttaskstore.NewInstance(db.DB),
	}
}

// RequestApproved создает задачу один раз на заявку, заявки без проекта пропускаются
func (s *FollowUpSink) RequestApproved(ctx context.Context, rec dbmodels.Request) error {
	if rec.Kind != models.TechnicalKind || rec.ProjectID == nil || *rec.ProjectID == "" {
		return nil
	}
	exist, err := s.taskStore.GetBySourceRequest(rec.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки задачи по заявке")
	}
	if exist != nil {
		return nil
	}
	requestID := rec.ID
	task := dbmodels.ProjectTask{
		ProjectID:       *rec.ProjectID,
		SourceRequestID: &requestID,
		Title:           fmt.Sprintf(followUpTitleTemplate, rec.Title),
		Description:     taskDescription(rec.Technical),
		AssigneeRole:    models.TechnicalRole,
		Status:          models.TaskOpen,
	}
	taskID, err := s.taskStore.Create(task)
	if err != nil {
		return errors.Wrap(err, "ошибка создания задачи по заявке")
	}
	log.
		WithField("request_id", rec.ID).
		WithField("project_id", *rec.ProjectID).
		WithField("task_id", taskID).
		Info("Создана задача по согласованной заявке")
	return nil
}

func taskDescription(details *dbmodels.TechnicalDetails) string {
	if details == nil {
		return ""
	}
	parts := []string{}
	for _, item := range []string{details.ServiceType, details.Authority, details.PlotNumber, details.Description} {
		if item = strings.TrimSpace(item); item != "" {
			parts = append(parts, item)
		}
	}
	return strings.Join(parts, " / ")
}
