package metrics

import (
	"sync"
	"time"
)

// Tracker accumulates elapsed durations per named operation. Safe for
// concurrent use; the engine and optimizer record into a shared tracker when
// given one.
type Tracker struct {
	mu      sync.RWMutex
	timings map[string][]time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
	}
}

// Record appends one measurement for the operation.
func (t *Tracker) Record(operation string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timings[operation] = append(t.timings[operation], d)
}

// Timings returns a copy of all measurements for the operation.
func (t *Tracker) Timings(operation string) []time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	timings := t.timings[operation]
	if timings == nil {
		return nil
	}
	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

// Average returns the mean measurement for the operation, or zero when none
// were recorded.
func (t *Tracker) Average(operation string) time.Duration {
	timings := t.Timings(operation)
	if len(timings) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range timings {
		total += d
	}
	return total / time.Duration(len(timings))
}

// Count returns how many measurements the operation has.
func (t *Tracker) Count(operation string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.timings[operation])
}

// Reset drops measurements for one operation, or all of them when operation
// is empty.
func (t *Tracker) Reset(operation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if operation == "" {
		t.timings = make(map[string][]time.Duration)
	} else {
		delete(t.timings, operation)
	}
}
