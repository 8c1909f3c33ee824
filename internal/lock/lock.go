// Package lock serialises check-then-write sequences per booking key.  A
// key is one (salon, table, date) triple; distinct keys never contend.
package lock

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotAcquired is returned when a lock could not be obtained before the
// wait deadline.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker grants exclusive access to a key until the returned unlock
// function is called.  Unlock is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Key builds the lock key of a table on a date.
func Key(salon, table, date string) string {
	return strings.Join([]string{salon, table, date}, "|")
}

// LocalLocker is an in-process Locker backed by one channel per key.  It
// is correct for a single server process.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker returns an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*keyLock)}
}

// Lock blocks until key is free or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	k, ok := l.keys[key]
	if !ok {
		k = &keyLock{ch: make(chan struct{}, 1)}
		l.keys[key] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-k.ch
				l.release(key, k)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, k)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) release(key string, k *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, key)
	}
}

// held reports how many keys currently have holders or waiters.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}
