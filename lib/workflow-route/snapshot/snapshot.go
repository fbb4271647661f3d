package routesnapshot

import (
	"context"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"sync"
	"time"
)

// Entry последний известный активный маршрут для типа заявки
type Entry struct {
	Route    dbmodels.WorkflowRoute `json:"route"`
	StoredAt time.Time              `json:"stored_at"`
}

func (e Entry) IsFresh(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.StoredAt) <= ttl
}

type Provider interface {
	// Get возвращает (nil, nil) если снимка нет
	Get(ctx context.Context, requestType string) (*Entry, error)
	Save(ctx context.Context, route dbmodels.WorkflowRoute) error
	Delete(ctx context.Context, requestType string) error
}

func key(requestType string) string {
	return strings.ToUpper(strings.TrimSpace(requestType))
}

func NewMemory() Provider {
	return &memoryImpl{
		entries: map[string]Entry{},
		now:     time.Now,
	}
}

type memoryImpl struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func (m *memoryImpl) Get(ctx context.Context, requestType string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key(requestType)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *memoryImpl) Save(ctx context.Context, route dbmodels.WorkflowRoute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key(route.RequestType)] = Entry{
		Route:    route,
		StoredAt: m.now(),
	}
	return nil
}

func (m *memoryImpl) Delete(ctx context.Context, requestType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key(requestType))
	return nil
}
