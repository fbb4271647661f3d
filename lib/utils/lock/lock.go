package lock

import (
	"context"
	"sync"
	"time"
)

var (
	mu    sync.Mutex
	locks = map[string]chan struct{}{}
)

// WithDelay выполняет safeCode под блокировкой key, ожидая освобождения не дольше wait.
// false - блокировку получить не удалось, safeCode не выполнялся
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		released, ok := acquire(key)
		if ok {
			break
		}
		select {
		case <-released:
		case <-timer.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		}
	}
	defer release(key)
	return true, safeCode()
}

// acquire при занятом ключе возвращает канал, закрываемый при освобождении
func acquire(key string) (<-chan struct{}, bool) {
	mu.Lock()
	defer mu.Unlock()
	if held, busy := locks[key]; busy {
		return held, false
	}
	locks[key] = make(chan struct{})
	return nil, true
}

func release(key string) {
	mu.Lock()
	held := locks[key]
	delete(locks, key)
	mu.Unlock()
	if held != nil {
		close(held)
	}
}
