package discord

import (
	"sync"
	"time"
)

// Entries are swept once the table grows past this size.
const clickSweepThreshold = 256

type clickKey struct {
	userID  string
	eventID string
}

// clickThrottle lets a member press the buttons of one event at most once per
// cooldown. A zero cooldown lets every click through.
type clickThrottle struct {
	mu       sync.Mutex
	until    map[clickKey]time.Time
	cooldown time.Duration
	now      func() time.Time
}

func newClickThrottle(cooldown time.Duration) *clickThrottle {
	return &clickThrottle{until: make(map[clickKey]time.Time), cooldown: cooldown, now: time.Now}
}

func (t *clickThrottle) Allow(userID, eventID string) bool {
	if t.cooldown <= 0 {
		return true
	}
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	key := clickKey{userID, eventID}
	if until, ok := t.until[key]; ok && now.Before(until) {
		return false
	}
	if len(t.until) >= clickSweepThreshold {
		t.sweep(now)
	}
	t.until[key] = now.Add(t.cooldown)
	return true
}

// sweep drops expired entries. Callers hold mu.
func (t *clickThrottle) sweep(now time.Time) {
	for k, until := range t.until {
		if !now.Before(until) {
			delete(t.until, k)
		}
	}
}

func (t *clickThrottle) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.until)
}
