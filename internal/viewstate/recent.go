package viewstate

import (
	"sync"
	"time"
)

// RecentSet tracks ids of orders created during this session. Each id
// expires on its own after the TTL.
type RecentSet struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[int64]time.Time

	// now and afterFunc are replaced in tests.
	now       func() time.Time
	afterFunc func(time.Duration, func())
}

// NewRecentSet returns an empty set. A non-positive ttl uses DefaultRecentTTL.
func NewRecentSet(ttl time.Duration) *RecentSet {
	if ttl <= 0 {
		ttl = DefaultRecentTTL
	}
	return &RecentSet{
		ttl:   ttl,
		items: make(map[int64]time.Time),
		now:   time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// WithClock replaces the time source and the timer scheduler.
func (r *RecentSet) WithClock(now func() time.Time, afterFunc func(time.Duration, func())) *RecentSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now != nil {
		r.now = now
	}
	if afterFunc != nil {
		r.afterFunc = afterFunc
	}
	return r
}

// TTL returns the expiry delay.
func (r *RecentSet) TTL() time.Duration {
	return r.ttl
}

// Add marks id as recently created. Adding it again restarts its expiry.
func (r *RecentSet) Add(id int64) {
	r.mu.Lock()
	deadline := r.now().Add(r.ttl)
	r.items[id] = deadline
	schedule := r.afterFunc
	r.mu.Unlock()

	schedule(r.ttl, func() { r.expire(id, deadline) })
}

// expire removes id unless it was re-added after this timer was armed.
func (r *RecentSet) expire(id int64, deadline time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.items[id]; ok && !d.After(deadline) {
		delete(r.items, id)
	}
}

// Contains reports whether id was created less than the TTL ago.
func (r *RecentSet) Contains(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	deadline, ok := r.items[id]
	if !ok {
		return false
	}
	if !r.now().Before(deadline) {
		delete(r.items, id)
		return false
	}
	return true
}

// Len returns the number of live entries.
func (r *RecentSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, deadline := range r.items {
		if now.Before(deadline) {
			n++
		} else {
			delete(r.items, id)
		}
	}
	return n
}

// Clear empties the set. Pending timers become no-ops.
func (r *RecentSet) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int64]time.Time)
}
