package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGameLocker(t *testing.T) {
	t.Run("Serialises one id", func(t *testing.T) {
		locker := newGameLocker()

		var (
			wg      sync.WaitGroup
			active  int
			maxSeen int
			mu      sync.Mutex
		)

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				unlock := locker.Lock("game-1")
				defer unlock()

				mu.Lock()
				active++
				maxSeen = max(maxSeen, active)
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, maxSeen)
		assert.Zero(t, locker.size())
	})

	t.Run("Different ids do not block each other", func(t *testing.T) {
		locker := newGameLocker()

		unlockFirst := locker.Lock("game-1")
		done := make(chan struct{})

		go func() {
			unlock := locker.Lock("game-2")
			unlock()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock on game-2 blocked behind game-1")
		}

		assert.Equal(t, 1, locker.size())
		unlockFirst()
		assert.Zero(t, locker.size())
	})
}
