package service

import (
	"sync"
	"testing"
)

func TestKeyedMutex_Serializes(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("same-key")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
}

func TestKeyedMutex_EvictsIdleEntries(t *testing.T) {
	km := newKeyedMutex()

	for _, key := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		unlock := km.Lock(key)
		unlock()
	}

	km.mu.Lock()
	size := len(km.locks)
	km.mu.Unlock()
	if size != 0 {
		t.Fatalf("lock map holds %d idle entries, want 0", size)
	}
}

func TestKeyedMutex_KeepsContendedEntry(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("key")

	waiting := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(waiting)
		u := km.Lock("key")
		u()
		close(done)
	}()

	<-waiting
	// The holder plus one waiter keep the entry alive.
	unlock()
	<-done

	km.mu.Lock()
	size := len(km.locks)
	km.mu.Unlock()
	if size != 0 {
		t.Fatalf("lock map holds %d entries after all unlocks, want 0", size)
	}
}
