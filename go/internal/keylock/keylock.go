package keylock

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Locker hands out one exclusive lock per key. Keys with no holders or
// waiters are dropped from the map.
type Locker struct {
	mu   sync.Mutex
	held map[uuid.UUID]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func New() *Locker {
	return &Locker{held: make(map[uuid.UUID]*entry)}
}

// Lock blocks until key is free or ctx is done. The returned func releases the lock.
func (l *Locker) Lock(ctx context.Context, key uuid.UUID) (func(), error) {
	l.mu.Lock()
	e, ok := l.held[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.held[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

// LockAll locks every key in a fixed order so two callers with overlapping
// sets cannot deadlock. On error nothing stays locked.
func (l *Locker) LockAll(ctx context.Context, keys []uuid.UUID) (func(), error) {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	sorted = slices.Compact(sorted)

	unlocks := make([]func(), 0, len(sorted))
	unlockAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range sorted {
		unlock, err := l.Lock(ctx, key)
		if err != nil {
			unlockAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return unlockAll, nil
}

func (l *Locker) release(key uuid.UUID, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.held, key)
	}
}

// Len reports how many keys are currently held or waited on.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
