package workflowroutehandler

import (
	"context"
	"estate-tracker-backend/lib/metrics"
	routesnapshot "estate-tracker-backend/lib/workflow-route/snapshot"
	workflowroutestore "estate-tracker-backend/lib/workflow-route/store"
	dbmodels "estate-tracker-backend/models/db"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type Source string

const (
	SourceSnapshot      Source = "snapshot"
	SourceStore         Source = "store"
	SourceStaleSnapshot Source = "stale_snapshot"
	SourceDefault       Source = "default"
)

// RouteRepository источник маршрутов согласования.
// Не найден - (nil, source, nil), неактивный маршрут возвращается с IsActive == false
type RouteRepository interface {
	Find(ctx context.Context, requestType string) (*dbmodels.WorkflowRoute, Source, error)
}

// NewStoreRepository чтение маршрутов из БД через предохранитель:
// после серии ошибок запросы к БД не выполняются до истечения openTimeout
func NewStoreRepository(store workflowroutestore.Provider, failures uint32, openTimeout time.Duration) RouteRepository {
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "workflow-route-store",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.
				WithField("breaker", name).
				WithField("from", from.String()).
				WithField("to", to.String()).
				Warn("Изменилось состояние предохранителя хранилища маршрутов")
			metrics.RouteStoreBreaker.Set(breakerStateValue(to))
		},
	}
	return &storeRepository{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

type storeRepository struct {
	store   workflowroutestore.Provider
	breaker *gobreaker.CircuitBreaker
}

func (r storeRepository) Find(ctx context.Context, requestType string) (*dbmodels.WorkflowRoute, Source, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.store.Find(ctx, requestType)
	})
	if err != nil {
		return nil, SourceStore, err
	}
	route, _ := result.(*dbmodels.WorkflowRoute)
	return route, SourceStore, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}

// NewCachedRepository снимок последнего активного маршрута поверх next.
// Свежий снимок отдается без обращения к next, устаревший - только при ошибке next.
func NewCachedRepository(next RouteRepository, snapshot routesnapshot.Provider, ttl time.Duration) RouteRepository {
	return &cachedRepository{
		next:     next,
		snapshot: snapshot,
		ttl:      ttl,
		now:      time.Now,
	}
}

type cachedRepository struct {
	next     RouteRepository
	snapshot routesnapshot.Provider
	ttl      time.Duration
	now      func() time.Time
}

func (r cachedRepository) Find(ctx context.Context, requestType string) (*dbmodels.WorkflowRoute, Source, error) {
	logger := log.WithField("request_type", requestType)
	entry, err := r.snapshot.Get(ctx, requestType)
	if err != nil {
		logger.WithError(err).Warn("ошибка чтения снимка маршрута")
		entry = nil
	}
	if entry != nil && entry.Route.IsActive && entry.IsFresh(r.ttl, r.now()) {
		return &entry.Route, SourceSnapshot, nil
	}

	route, source, err := r.next.Find(ctx, requestType)
	if err != nil {
		if entry != nil && entry.Route.IsActive {
			logger.WithError(err).Warn("хранилище маршрутов недоступно, используется сохраненный снимок")
			return &entry.Route, SourceStaleSnapshot, nil
		}
		return nil, source, err
	}
	if route == nil || !route.IsActive {
		if entry != nil {
			if err = r.snapshot.Delete(ctx, requestType); err != nil {
				logger.WithError(err).Warn("ошибка удаления снимка маршрута")
			}
		}
		return route, source, nil
	}
	if err = r.snapshot.Save(ctx, *route); err != nil {
		logger.WithError(err).Warn("ошибка сохранения снимка маршрута")
	}
	return route, source, nil
}
