package services

import "sync"

// deviceLocks serializes read-modify-write sequences per device ID. The store
// makes each call atomic, but Update spans a GetByID and an Update; without a
// per-device lock two concurrent PUTs could each overwrite the other's fields.
//
// Go Learning Note: Keyed Mutexes
// A single mutex would serialize every device. Keeping one mutex per key,
// created on demand and dropped when its last holder releases it, bounds
// memory to the devices currently being written.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*deviceLock
}

type deviceLock struct {
	mu      sync.Mutex
	holders int
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*deviceLock)}
}

// lock blocks until id is free and returns the matching unlock function.
func (l *deviceLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &deviceLock{}
		l.locks[id] = entry
	}
	entry.holders++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.holders--
		if entry.holders == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// size is the number of IDs currently locked or waited on.
func (l *deviceLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
