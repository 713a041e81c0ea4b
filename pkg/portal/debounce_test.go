package portal

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncerLastCallWins(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var fired []string
	record := func(q string) func() {
		return func() {
			mu.Lock()
			fired = append(fired, q)
			mu.Unlock()
		}
	}

	d.Trigger(record("a"))
	d.Trigger(record("ab"))
	d.Trigger(record("abc"))

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != "abc" {
		t.Fatalf("fired = %v, want only the last query", fired)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var mu sync.Mutex
	count := 0
	d.Trigger(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatal("stopped debouncer must not fire")
	}
}
