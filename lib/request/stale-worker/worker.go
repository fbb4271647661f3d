package staleworker

import (
	"context"
	"estate-tracker-backend/db"
	requeststore "estate-tracker-backend/lib/request/store"
	baseworker "estate-tracker-backend/lib/utils/base-worker"
	"estate-tracker-backend/lib/utils/helpers"
	workflowroutehandler "estate-tracker-backend/lib/workflow-route"
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"fmt"
	"strings"
	"sync"
	"time"
)

type RouteResolver interface {
	Resolve(ctx context.Context, requestType string) (workflowroutehandler.ResolvedRoute, error)
}

type Notifier interface {
	Notify(ctx context.Context, roles []models.UserRole, message, link string, sender models.Actor)
}

const staleMsg = "الطلب «%s» مسند إلى %s وهو غير موجود في مسار الموافقة الحالي، يلزم إعادة الإسناد"

// StartWorker поиск заявок, согласующий которых выбыл из маршрута
func StartWorker(ctx context.Context, interval time.Duration, routes RouteResolver, notifier Notifier, publicURL string) {
	i := newImpl(requeststore.NewInstance(db.DB), routes, notifier, publicURL)
	i.BaseImpl = *baseworker.NewInstance(workerName, time.Minute, interval)
	go i.Run(ctx, i.handle)
}

const workerName = "StaleAssigneeWorker"

func newImpl(store requeststore.Provider, routes RouteResolver, notifier Notifier, publicURL string) *impl {
	return &impl{
		BaseImpl:  *baseworker.NewInstance(workerName, 0, 0),
		store:     store,
		routes:    routes,
		notifier:  notifier,
		publicURL: strings.TrimRight(publicURL, "/"),
		reported:  map[string]string{},
	}
}

type impl struct {
	baseworker.BaseImpl
	store     requeststore.Provider
	routes    RouteResolver
	notifier  Notifier
	publicURL string

	mu sync.Mutex
	// requestID -> согласующий, о котором уже сообщили
	reported map[string]string
}

func (i *impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, _, err := i.store.List(requeststore.Filter{Statuses: models.ActiveStatuses})
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка активных заявок")
		return
	}
	sequences := map[string][]string{}
	stale := []dbmodels.Request{}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			return
		}
		sequence, ok := sequences[rec.RequestType]
		if !ok {
			route, err := i.routes.Resolve(ctx, rec.RequestType)
			if err != nil {
				logger.WithField("request_type", rec.RequestType).WithError(err).Warn("ошибка получения маршрута согласования")
				continue
			}
			sequence = route.Sequence
			sequences[rec.RequestType] = sequence
		}
		if !inSequence(sequence, rec.AssignedTo) {
			stale = append(stale, rec)
		}
	}
	for _, rec := range i.filterReported(stale) {
		assignee := rec.AssignedTo
		if assignee == "" {
			assignee = "غير محدد"
		}
		logger.
			WithField("request_id", rec.ID).
			WithField("assigned_to", rec.AssignedTo).
			Warn("согласующий заявки отсутствует в маршруте")
		i.notifier.Notify(ctx,
			[]models.UserRole{models.AdminRole},
			fmt.Sprintf(staleMsg, rec.Title, assignee),
			i.publicURL+"/requests/"+rec.ID,
			models.Actor{Name: models.SystemUser})
	}
}

// filterReported оставляет заявки, о которых еще не сообщали с текущим согласующим
func (i *impl) filterReported(stale []dbmodels.Request) []dbmodels.Request {
	i.mu.Lock()
	defer i.mu.Unlock()
	result := []dbmodels.Request{}
	staleIDs := map[string]bool{}
	for _, rec := range stale {
		staleIDs[rec.ID] = true
		if prev, ok := i.reported[rec.ID]; ok && strings.EqualFold(prev, strings.TrimSpace(rec.AssignedTo)) {
			continue
		}
		i.reported[rec.ID] = strings.TrimSpace(rec.AssignedTo)
		result = append(result, rec)
	}
	// заявка снова в маршруте или завершена, при повторном выбытии сообщим еще раз
	for id := range i.reported {
		if !staleIDs[id] {
			delete(i.reported, id)
		}
	}
	return result
}

func inSequence(sequence []string, email string) bool {
	for _, item := range sequence {
		if models.SameIdentity(item, email) {
			return true
		}
	}
	return false
}
