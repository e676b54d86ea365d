package events

import "time"

// #region collector

// DefaultRetention is how long recorded events stay observable.
const DefaultRetention = 5 * time.Minute

// Collector is a bounded, time-windowed, append-only event log.
// Stale events are evicted lazily on the next Record or Window call;
// there is no background sweep.
type Collector struct {
	events    []BehaviorEvent
	retention time.Duration
	now       func() time.Time
}

// NewCollector creates a collector with the given retention window.
// retention <= 0 falls back to DefaultRetention.
func NewCollector(retention time.Duration) *Collector {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Collector{
		retention: retention,
		now:       time.Now,
	}
}

// NewCollectorWithClock creates a collector with an injected clock.
// Used for deterministic tests.
func NewCollectorWithClock(retention time.Duration, clock func() time.Time) *Collector {
	c := NewCollector(retention)
	c.now = clock
	return c
}

// #endregion collector

// #region record

// Record appends an event, stamping the current time when the event carries
// no timestamp. Amortized O(1): eviction only ever trims the slice head.
func (c *Collector) Record(ev BehaviorEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = c.now()
	}
	c.evict(c.now())
	c.events = append(c.events, ev)
}

// #endregion record

// #region window

// Window returns events with timestamp >= now-d, in insertion order.
// The returned slice is a copy; callers may not mutate collector state.
func (c *Collector) Window(d time.Duration) []BehaviorEvent {
	now := c.now()
	c.evict(now)

	cutoff := now.Add(-d)
	start := len(c.events)
	for i, ev := range c.events {
		if !ev.Timestamp.Before(cutoff) {
			start = i
			break
		}
	}

	out := make([]BehaviorEvent, len(c.events)-start)
	copy(out, c.events[start:])
	return out
}

// Len returns the number of retained (possibly stale-but-unevicted) events.
func (c *Collector) Len() int {
	return len(c.events)
}

// #endregion window

// #region evict

// evict drops events older than the retention window. Events are stored in
// insertion order and recorded timestamps are non-decreasing in practice, so
// a single scan from the head suffices.
func (c *Collector) evict(now time.Time) {
	cutoff := now.Add(-c.retention)
	i := 0
	for i < len(c.events) && c.events[i].Timestamp.Before(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	remaining := len(c.events) - i
	copy(c.events, c.events[i:])
	c.events = c.events[:remaining]
}

// #endregion evict
