package store

import (
	"sync"
	"testing"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	l := NewKeyLock()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("session-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyLock_IndependentKeys(t *testing.T) {
	l := NewKeyLock()

	unlockA := l.Lock("a")
	defer unlockA()

	// Must not block: "b" is a different key.
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
}

func TestKeyLock_EntriesReleased(t *testing.T) {
	l := NewKeyLock()

	unlock := l.Lock("ephemeral")
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Errorf("entries not cleaned up: %d remaining", len(l.locks))
	}
}
