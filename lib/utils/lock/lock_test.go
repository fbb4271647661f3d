package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`serializes same key`, func(t *testing.T) {
		var active, maxActive int32
		wg := sync.WaitGroup{}
		for n := 0; n < 5; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := WithDelay(context.Background(), "request:1", time.Second, func() error {
					cur := atomic.AddInt32(&active, 1)
					if cur > atomic.LoadInt32(&maxActive) {
						atomic.StoreInt32(&maxActive, cur)
					}
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&active, -1)
					return nil
				})
				require.NoError(t, err)
				require.True(t, ok)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), maxActive)
	})

	t.Run(`timeout`, func(t *testing.T) {
		started := make(chan struct{})
		done := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "request:2", time.Second, func() error {
				close(started)
				<-done
				return nil
			})
		}()
		<-started
		ok, err := WithDelay(context.Background(), "request:2", 20*time.Millisecond, func() error {
			t.Fatal("не должен выполняться")
			return nil
		})
		close(done)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run(`error is returned`, func(t *testing.T) {
		ok, err := WithDelay(context.Background(), "request:3", time.Second, func() error {
			return errors.New("boom")
		})
		require.True(t, ok)
		require.EqualError(t, err, "boom")
		// ключ освобожден после ошибки
		ok, err = WithDelay(context.Background(), "request:3", time.Millisecond, func() error { return nil })
		require.True(t, ok)
		require.NoError(t, err)
	})
}
