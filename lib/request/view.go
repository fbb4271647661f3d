package requesthandler

import (
	"context"
	approvalchain "estate-tracker-backend/lib/approval-chain"
	requeststore "estate-tracker-backend/lib/request/store"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	"estate-tracker-backend/models"
	requestapimodels "estate-tracker-backend/models/api/request"
	dbmodels "estate-tracker-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func (i impl) Get(ctx context.Context, requestID string, actor models.Actor) (requestapimodels.RequestView, error) {
	rec, err := i.load(requestID)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	chain := i.buildChain(ctx, *rec, map[string][]string{}, map[string]string{})
	return requestapimodels.ViewConvert(*rec, chain, actor), nil
}

func (i impl) List(ctx context.Context, actor models.Actor, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestRow, rowCount int64, err error) {
	page, limit := filter.GetPage()
	storeFilter := requeststore.Filter{
		Kind:        filter.Kind,
		RequestType: string(models.NormalizeRequestType(filter.RequestType)),
		ProjectID:   filter.ProjectID,
		Search:      filter.Search,
		Page:        page,
		Limit:       limit,
	}
	if filter.Status != "" {
		storeFilter.Statuses = []models.RequestStatus{filter.Status.Normalize()}
	}
	if filter.AssignedToMe {
		storeFilter.AssignedTo = actor.Email
		if len(storeFilter.Statuses) == 0 {
			storeFilter.Statuses = models.ActiveStatuses
		}
	}
	if filter.SubmittedByMe {
		storeFilter.SubmittedBy = actor.Email
	}
	recList, rowCount, err := i.store.List(storeFilter)
	if err != nil {
		log.WithField("actor", actor.Email).WithError(err).Error("ошибка получения списка заявок")
		return nil, 0, workflowerrors.Persistence(err)
	}
	sequences := map[string][]string{}
	names := map[string]string{}
	list = make([]requestapimodels.RequestRow, 0, len(recList))
	for _, rec := range recList {
		chain := i.buildChain(ctx, rec, sequences, names)
		list = append(list, requestapimodels.RowConvert(rec, chain, actor))
	}
	return list, rowCount, nil
}

func (i impl) Dashboard(ctx context.Context, actor models.Actor) (result requestapimodels.Dashboard, err error) {
	logger := log.WithField("actor", actor.Email)
	result.PendingForMe, err = i.store.Count(requeststore.Filter{
		AssignedTo: actor.Email,
		Statuses:   models.ActiveStatuses,
	})
	if err != nil {
		logger.WithError(err).Error("ошибка подсчета заявок на согласовании")
		return result, workflowerrors.Persistence(err)
	}
	result.SubmittedByMe, err = i.store.Count(requeststore.Filter{SubmittedBy: actor.Email})
	if err != nil {
		logger.WithError(err).Error("ошибка подсчета поданных заявок")
		return result, workflowerrors.Persistence(err)
	}
	scope := requeststore.Filter{}
	if !actor.Role.IsAdmin() {
		// сотрудникам статистика по заявкам своего вида
		switch actor.Role {
		case models.ConveyanceRole:
			scope.Kind = models.ClearanceKind
		case models.TechnicalRole:
			scope.Kind = models.TechnicalKind
		}
	}
	byStatus, err := i.store.CountBy("status", scope)
	if err != nil {
		logger.WithError(err).Error("ошибка подсчета заявок по статусам")
		return result, workflowerrors.Persistence(err)
	}
	result.ByStatus = map[string]int64{}
	for status, count := range byStatus {
		result.ByStatus[string(models.NormalizeStatus(status))] += count
	}
	result.ByKind, err = i.store.CountBy("kind", scope)
	if err != nil {
		logger.WithError(err).Error("ошибка подсчета заявок по видам")
		return result, workflowerrors.Persistence(err)
	}
	return result, nil
}

// buildChain цепочка по действующему маршруту, при ошибке маршрута - пустая цепочка
func (i impl) buildChain(ctx context.Context, rec dbmodels.Request, sequences map[string][]string, names map[string]string) approvalchain.Chain {
	sequence, ok := sequences[rec.RequestType]
	if !ok {
		route, err := i.routes.Resolve(ctx, rec.RequestType)
		if err != nil {
			log.
				WithField("request_id", rec.ID).
				WithField("request_type", rec.RequestType).
				WithError(err).
				Warn("не удалось определить маршрут для отображения цепочки")
			sequence = []string{}
		} else {
			sequence = route.Sequence
		}
		sequences[rec.RequestType] = sequence
	}
	resolve := func(email string) string {
		if name, ok := names[email]; ok {
			return name
		}
		name := i.displayName(email)
		names[email] = name
		return name
	}
	return approvalchain.Build(sequence, rec.AssignedTo, rec.Status, rec.Comments, resolve)
}
