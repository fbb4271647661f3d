package events

import (
	"context"
	"estate-tracker-backend/lib/metrics"
	"estate-tracker-backend/models"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Event переход заявки в цепочке согласования
type Event struct {
	Code         models.NotificationCode
	RequestID    string
	RequestType  string
	Kind         models.RequestKind
	Title        string
	Status       models.RequestStatus
	AssignedTo   string // согласующий после перехода
	PrevAssignee string
	SubmittedBy  string
	Actor        models.Actor
	Reason       string // причина отклонения или текст комментария
	CcList       []string
	NotifyRoles  []string
	ProjectID    *string
	OccurredAt   time.Time
}

type Handler func(ctx context.Context, event Event)

type Publisher interface {
	Publish(event Event)
}

type Bus struct {
	queue    chan Event
	mu       sync.RWMutex
	handlers map[string]Handler
	wg       sync.WaitGroup
}

func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{
		queue:    make(chan Event, bufferSize),
		handlers: map[string]Handler{},
	}
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = handler
}

// Publish не блокирует вызывающего: при переполненной очереди событие отбрасывается
func (b *Bus) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	select {
	case b.queue <- event:
	default:
		metrics.EventsDropped.Inc()
		log.
			WithField("event_code", event.Code).
			WithField("request_id", event.RequestID).
			Error("очередь событий переполнена, событие отброшено")
	}
}

// Start запускает Run в отдельной горутине, Wait дожидается ее завершения
func (b *Bus) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.Run(ctx)
	}()
}

// Run обрабатывает события до завершения контекста, оставшиеся в очереди события дообрабатываются
func (b *Bus) Run(ctx context.Context) {
	logger := log.WithField("worker_name", "events-bus")
	logger.Info("Обработчик событий запущен")
	for {
		select {
		case <-ctx.Done():
			b.drain()
			logger.Info("Обработчик событий остановлен")
			return
		case event := <-b.queue:
			b.dispatch(ctx, event)
		}
	}
}

// Wait ожидание завершения запущенного через Start обработчика
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) drain() {
	for {
		select {
		case event := <-b.queue:
			b.dispatch(context.Background(), event)
		default:
			return
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make(map[string]Handler, len(b.handlers))
	for name, handler := range b.handlers {
		handlers[name] = handler
	}
	b.mu.RUnlock()
	for name, handler := range handlers {
		b.safeCall(ctx, name, handler, event)
	}
}

func (b *Bus) safeCall(ctx context.Context, name string, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.
				WithField("subscriber", name).
				WithField("event_code", event.Code).
				WithField("request_id", event.RequestID).
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	handler(ctx, event)
}
