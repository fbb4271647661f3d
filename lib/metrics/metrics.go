package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "estate_tracker"

var (
	// Decisions решения по заявкам: decision=approve|reject|cancel, outcome=advanced|approved|rejected|cancelled|denied|conflict|error
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "decisions_total",
		Help:      "Решения по заявкам в цепочке согласования",
	}, []string{"decision", "outcome"})

	// RouteResolutions источник маршрута: snapshot|store|stale_snapshot|default
	RouteResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "route_resolutions_total",
		Help:      "Получение маршрутов согласования по источнику",
	}, []string{"source"})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "failures_total",
		Help:      "Ошибки доставки уведомлений по каналам",
	}, []string{"channel"})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "dropped_total",
		Help:      "События, не поставленные в очередь из-за переполнения",
	})

	DerivedEffectFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "derived_effect_failures_total",
		Help:      "Ошибки создания задач по согласованным заявкам",
	})

	// RouteStoreBreaker состояние предохранителя хранилища маршрутов: 0 closed, 1 half-open, 2 open
	RouteStoreBreaker = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "workflow",
		Name:      "route_store_breaker_state",
		Help:      "Состояние предохранителя хранилища маршрутов",
	})
)
