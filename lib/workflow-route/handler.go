package workflowroutehandler

import (
	"context"
	"estate-tracker-backend/config"
	"estate-tracker-backend/db"
	"estate-tracker-backend/lib/metrics"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	routesnapshot "estate-tracker-backend/lib/workflow-route/snapshot"
	workflowroutestore "estate-tracker-backend/lib/workflow-route/store"
	"estate-tracker-backend/models"
	routeapimodels "estate-tracker-backend/models/api/route"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ResolvedRoute действующий маршрут согласования для типа заявки
type ResolvedRoute struct {
	RequestType string
	Label       string
	Sequence    []string
	CcList      []string
	NotifyRoles []string
	Source      Source
}

func (r ResolvedRoute) IsDefault() bool {
	return r.Source == SourceDefault
}

func (r ResolvedRoute) Roles() []models.UserRole {
	return models.ParseRoles(r.NotifyRoles)
}

// Directory справочник пользователей для отображаемых имен согласующих
type Directory interface {
	ResolveDisplayName(email string) (string, error)
}

type Provider interface {
	Resolve(ctx context.Context, requestType string) (ResolvedRoute, error)
	Describe(ctx context.Context, requestType string) (routeapimodels.RouteDescription, error)
	List() ([]routeapimodels.WorkflowRouteView, error)
	GetByID(id string) (routeapimodels.WorkflowRouteView, error)
	Create(ctx context.Context, data routeapimodels.WorkflowRouteData) (id string, err error)
	Update(ctx context.Context, id string, data routeapimodels.WorkflowRouteData) error
	SetActive(ctx context.Context, id string, isActive bool) error
	Delete(ctx context.Context, id string) error
}

var Instance Provider

func NewHandler(snapshot routesnapshot.Provider, directory Directory) {
	conf := config.Conf.Workflow
	store := workflowroutestore.NewInstance(db.DB)
	repo := NewCachedRepository(
		NewStoreRepository(store, conf.BreakerFailures, time.Duration(conf.BreakerOpenSec)*time.Second),
		snapshot,
		time.Duration(conf.RouteSnapshotTTLSec)*time.Second,
	)
	Instance = newImpl(store, repo, snapshot, directory)
}

func newImpl(store workflowroutestore.Provider, repo RouteRepository, snapshot routesnapshot.Provider, directory Directory) *impl {
	return &impl{
		store:     store,
		repo:      repo,
		snapshot:  snapshot,
		directory: directory,
	}
}

type impl struct {
	store     workflowroutestore.Provider
	repo      RouteRepository
	snapshot  routesnapshot.Provider
	directory Directory
}

func (i impl) getLogger(requestType string) *log.Entry {
	return log.WithField("request_type", requestType)
}

func (i impl) Resolve(ctx context.Context, requestType string) (ResolvedRoute, error) {
	routeType := models.NormalizeRequestType(requestType)
	if routeType == "" {
		return ResolvedRoute{}, workflowerrors.Validation("не указан тип заявки")
	}
	logger := i.getLogger(string(routeType))
	rec, source, err := i.repo.Find(ctx, string(routeType))
	if err != nil {
		logger.WithError(err).Error("ошибка получения маршрута согласования")
		if route, ok := defaultRoute(routeType); ok {
			metrics.RouteResolutions.WithLabelValues(string(SourceDefault)).Inc()
			return route, nil
		}
		return ResolvedRoute{}, workflowerrors.Persistence(err)
	}
	if rec != nil && rec.IsActive {
		route := ResolvedRoute{
			RequestType: rec.RequestType,
			Label:       rec.Label,
			Sequence:    rec.Sequence(),
			CcList:      nonNil(rec.CcList),
			NotifyRoles: nonNil(rec.NotifyRoles),
			Source:      source,
		}
		if len(route.Sequence) != 0 {
			metrics.RouteResolutions.WithLabelValues(string(source)).Inc()
			return route, nil
		}
		logger.Warn("активный маршрут согласования без согласующих, используется маршрут по умолчанию")
	}
	if route, ok := defaultRoute(routeType); ok {
		metrics.RouteResolutions.WithLabelValues(string(SourceDefault)).Inc()
		return route, nil
	}
	return ResolvedRoute{}, workflowerrors.RouteNotFound(string(routeType), nil)
}

func (i impl) Describe(ctx context.Context, requestType string) (routeapimodels.RouteDescription, error) {
	route, err := i.Resolve(ctx, requestType)
	if err != nil {
		return routeapimodels.RouteDescription{}, err
	}
	result := routeapimodels.RouteDescription{
		RequestType: route.RequestType,
		Label:       route.Label,
		Source:      string(route.Source),
		Steps:       make([]routeapimodels.RouteStepView, 0, len(route.Sequence)),
		CcList:      route.CcList,
		NotifyRoles: route.NotifyRoles,
	}
	for idx, email := range route.Sequence {
		result.Steps = append(result.Steps, routeapimodels.RouteStepView{
			Order: idx,
			Email: email,
			Name:  i.DisplayName(email),
		})
	}
	return result, nil
}

// DisplayName имя согласующего из справочника, при ошибке или отсутствии - почта
func (i impl) DisplayName(email string) string {
	if i.directory == nil {
		return email
	}
	name, err := i.directory.ResolveDisplayName(email)
	if err != nil {
		log.WithField("email", email).WithError(err).Warn("ошибка получения имени пользователя")
		return email
	}
	if strings.TrimSpace(name) == "" {
		return email
	}
	return name
}

func (i impl) List() ([]routeapimodels.WorkflowRouteView, error) {
	list, err := i.store.List()
	if err != nil {
		return nil, workflowerrors.Persistence(err)
	}
	result := make([]routeapimodels.WorkflowRouteView, 0, len(list))
	for _, rec := range list {
		result = append(result, routeapimodels.WorkflowRouteConvert(rec))
	}
	return result, nil
}

func (i impl) GetByID(id string) (routeapimodels.WorkflowRouteView, error) {
	rec, err := i.get(id)
	if err != nil {
		return routeapimodels.WorkflowRouteView{}, err
	}
	return routeapimodels.WorkflowRouteConvert(*rec), nil
}

func (i impl) Create(ctx context.Context, data routeapimodels.WorkflowRouteData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", workflowerrors.Validation(err.Error())
	}
	rec := dbmodels.WorkflowRoute{IsActive: true}
	data.ToDbModel(&rec)
	id, err = i.store.Create(rec)
	if err != nil {
		i.getLogger(rec.RequestType).WithError(err).Error("ошибка создания маршрута согласования")
		return "", workflowerrors.Persistence(err)
	}
	i.invalidate(ctx, rec.RequestType)
	return id, nil
}

func (i impl) Update(ctx context.Context, id string, data routeapimodels.WorkflowRouteData) error {
	if err := data.Validate(); err != nil {
		return workflowerrors.Validation(err.Error())
	}
	rec, err := i.get(id)
	if err != nil {
		return err
	}
	oldType := rec.RequestType
	data.ToDbModel(rec)
	if err = i.store.Save(*rec); err != nil {
		i.getLogger(rec.RequestType).WithError(err).Error("ошибка изменения маршрута согласования")
		return workflowerrors.Persistence(err)
	}
	i.invalidate(ctx, oldType)
	if oldType != rec.RequestType {
		i.invalidate(ctx, rec.RequestType)
	}
	return nil
}

func (i impl) SetActive(ctx context.Context, id string, isActive bool) error {
	rec, err := i.get(id)
	if err != nil {
		return err
	}
	rec.IsActive = isActive
	if err = i.store.Save(*rec); err != nil {
		i.getLogger(rec.RequestType).WithError(err).Error("ошибка изменения активности маршрута согласования")
		return workflowerrors.Persistence(err)
	}
	i.invalidate(ctx, rec.RequestType)
	return nil
}

func (i impl) Delete(ctx context.Context, id string) error {
	rec, err := i.get(id)
	if err != nil {
		return err
	}
	if err = i.store.Delete(id); err != nil {
		i.getLogger(rec.RequestType).WithError(err).Error("ошибка удаления маршрута согласования")
		return workflowerrors.Persistence(err)
	}
	i.invalidate(ctx, rec.RequestType)
	return nil
}

func (i impl) get(id string) (*dbmodels.WorkflowRoute, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, workflowerrors.Persistence(err)
	}
	if rec == nil {
		return nil, workflowerrors.ErrNotFound
	}
	return rec, nil
}

func (i impl) invalidate(ctx context.Context, requestType string) {
	if i.snapshot == nil {
		return
	}
	if err := i.snapshot.Delete(ctx, requestType); err != nil {
		i.getLogger(requestType).WithError(err).Warn("ошибка сброса снимка маршрута")
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
