package keylock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Key идентифицирует блокируемую сущность: вид + id.
type Key struct {
	Kind string
	ID   int64
}

func NewKey(kind string, id int64) Key {
	return Key{Kind: kind, ID: id}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Kind, k.ID)
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// KeyedLocks раздает по одному мьютексу на ключ, чтобы операции над разными
// сущностями не мешали друг другу. Ожидание захвата ограничено контекстом
// вызывающего: по истечении дедлайна Acquire возвращает ошибку контекста.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[Key]*entry
}

func New() *KeyedLocks {
	return &KeyedLocks{
		locks: make(map[Key]*entry),
	}
}

// Acquire захватывает блокировку ключа, дожидаясь освобождения не дольше,
// чем живет ctx.
func (k *KeyedLocks) Acquire(ctx context.Context, key Key) error {
	sem := k.ref(key)

	if err := sem.Acquire(ctx, 1); err != nil {
		k.unref(key)
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	return nil
}

// Release освобождает ранее захваченный ключ. Вызов без парного Acquire
// ведет к панике семафора, как и у sync.Mutex.
func (k *KeyedLocks) Release(key Key) {
	k.mu.Lock()
	e, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("keylock: release of unheld key %s", key))
	}

	e.sem.Release(1)
	k.unref(key)
}

// AcquireAll захватывает набор ключей в фиксированном глобальном порядке
// (вид, затем возрастающий id), что исключает взаимную блокировку двух
// операций над пересекающимися наборами. При любой неудаче уже захваченные
// ключи освобождаются. Возвращает функцию освобождения всего набора.
func (k *KeyedLocks) AcquireAll(ctx context.Context, keys []Key) (func(), error) {
	ordered := make([]Key, len(keys))
	copy(ordered, keys)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Kind != ordered[j].Kind {
			return ordered[i].Kind < ordered[j].Kind
		}
		return ordered[i].ID < ordered[j].ID
	})

	acquired := make([]Key, 0, len(ordered))
	for _, key := range ordered {
		if err := k.Acquire(ctx, key); err != nil {
			for i := len(acquired) - 1; i >= 0; i-- {
				k.Release(acquired[i])
			}
			return nil, err
		}
		acquired = append(acquired, key)
	}

	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			k.Release(acquired[i])
		}
	}

	return release, nil
}

func (k *KeyedLocks) ref(key Key) *semaphore.Weighted {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.locks[key] = e
	}
	e.refs++

	return e.sem
}

func (k *KeyedLocks) unref(key Key) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(k.locks, key)
	}
}
