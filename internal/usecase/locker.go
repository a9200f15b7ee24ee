package usecase

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// gameLocker hands out one mutex per game id. Entries are dropped once nobody holds or
// waits for them.
type gameLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newGameLocker() *gameLocker {
	return &gameLocker{
		locks: make(map[string]*lockEntry),
	}
}

// Lock blocks until the caller owns id and returns the matching unlock.
func (that *gameLocker) Lock(id string) (unlock func()) {
	that.mu.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &lockEntry{}
		that.locks[id] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		defer that.mu.Unlock()

		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, id)
		}
	}
}

func (that *gameLocker) size() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.locks)
}
