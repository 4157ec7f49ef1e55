package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightpool/pkg/keylock"
)

func TestKeyedLocks_Acquire_Release(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  func(t *testing.T, locks *keylock.KeyedLocks)
	}{
		{
			name: "Свободный ключ захватывается сразу",
			run: func(t *testing.T, locks *keylock.KeyedLocks) {
				key := keylock.NewKey("shipment", 1)

				err := locks.Acquire(context.Background(), key)
				require.NoError(t, err)

				locks.Release(key)
			},
		},
		{
			name: "Освобожденный ключ захватывается повторно",
			run: func(t *testing.T, locks *keylock.KeyedLocks) {
				key := keylock.NewKey("shipment", 2)

				require.NoError(t, locks.Acquire(context.Background(), key))
				locks.Release(key)

				require.NoError(t, locks.Acquire(context.Background(), key))
				locks.Release(key)
			},
		},
		{
			name: "Разные ключи не блокируют друг друга",
			run: func(t *testing.T, locks *keylock.KeyedLocks) {
				first := keylock.NewKey("shipment", 3)
				second := keylock.NewKey("shipment", 4)

				require.NoError(t, locks.Acquire(context.Background(), first))

				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()
				err := locks.Acquire(ctx, second)
				require.NoError(t, err)

				locks.Release(first)
				locks.Release(second)
			},
		},
		{
			name: "Занятый ключ не захватывается до истечения контекста",
			run: func(t *testing.T, locks *keylock.KeyedLocks) {
				key := keylock.NewKey("match", 1)

				require.NoError(t, locks.Acquire(context.Background(), key))
				defer locks.Release(key)

				ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
				defer cancel()

				err := locks.Acquire(ctx, key)
				require.Error(t, err)
				assert.ErrorIs(t, err, context.DeadlineExceeded)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.run(t, keylock.New())
		})
	}
}

func TestKeyedLocks_AcquireAll(t *testing.T) {
	t.Parallel()

	t.Run("Захватывает весь набор и освобождает одной функцией", func(t *testing.T) {
		t.Parallel()

		locks := keylock.New()
		keys := []keylock.Key{
			keylock.NewKey("shipment", 5),
			keylock.NewKey("shipment", 1),
			keylock.NewKey("match", 7),
		}

		release, err := locks.AcquireAll(context.Background(), keys)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err = locks.Acquire(ctx, keylock.NewKey("shipment", 1))
		require.ErrorIs(t, err, context.DeadlineExceeded)

		release()

		require.NoError(t, locks.Acquire(context.Background(), keylock.NewKey("shipment", 1)))
		locks.Release(keylock.NewKey("shipment", 1))
	})

	t.Run("Освобождает частично захваченное при неудаче", func(t *testing.T) {
		t.Parallel()

		locks := keylock.New()
		held := keylock.NewKey("shipment", 2)
		require.NoError(t, locks.Acquire(context.Background(), held))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := locks.AcquireAll(ctx, []keylock.Key{
			keylock.NewKey("shipment", 1),
			held,
			keylock.NewKey("shipment", 3),
		})
		require.ErrorIs(t, err, context.DeadlineExceeded)

		locks.Release(held)

		release, err := locks.AcquireAll(context.Background(), []keylock.Key{
			keylock.NewKey("shipment", 1),
			keylock.NewKey("shipment", 2),
			keylock.NewKey("shipment", 3),
		})
		require.NoError(t, err)
		release()
	})

	t.Run("Пересекающиеся наборы в разном порядке не взаимоблокируются", func(t *testing.T) {
		t.Parallel()

		locks := keylock.New()
		forward := []keylock.Key{
			keylock.NewKey("shipment", 1),
			keylock.NewKey("shipment", 2),
			keylock.NewKey("shipment", 3),
		}
		backward := []keylock.Key{
			keylock.NewKey("shipment", 3),
			keylock.NewKey("shipment", 2),
			keylock.NewKey("shipment", 1),
		}

		const rounds = 200

		var wg sync.WaitGroup
		wg.Add(2)
		for _, keys := range [][]keylock.Key{forward, backward} {
			go func() {
				defer wg.Done()
				for i := 0; i < rounds; i++ {
					release, err := locks.AcquireAll(context.Background(), keys)
					if assert.NoError(t, err) {
						release()
					}
				}
			}()
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("взаимная блокировка: AcquireAll не завершился")
		}
	})
}

func TestKeyedLocks_Concurrent_SingleHolder(t *testing.T) {
	t.Parallel()

	locks := keylock.New()
	key := keylock.NewKey("match", 42)

	const goroutines = 50

	var holders atomic.Int64
	var maxHolders atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if !assert.NoError(t, locks.Acquire(context.Background(), key)) {
				return
			}
			defer locks.Release(key)

			current := holders.Add(1)
			if current > maxHolders.Load() {
				maxHolders.Store(current)
			}
			time.Sleep(time.Millisecond)
			holders.Add(-1)
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(1), maxHolders.Load(), "ключ держит ровно одна горутина")
}
