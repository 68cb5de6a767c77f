// Package timer implements the between-sets rest countdown.
//
// The countdown is anchored to a target wall-clock instant fixed when it
// starts. Remaining time is recomputed from the clock every time it is
// observed, so a suspended process or dropped ticks never skew it.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// RestTimer is safe for concurrent use by a periodic ticker and a resume
// handler; Refresh may be called any number of times in any order.
type RestTimer struct {
	now      Clock
	onExpire func()

	mu      sync.Mutex
	active  bool
	target  time.Time
	total   time.Duration
	expired bool
}

// Snapshot is the observable state of the timer after a refresh.
type Snapshot struct {
	Active           bool      `json:"active"`
	Expired          bool      `json:"expired"`
	Target           time.Time `json:"target,omitzero"`
	RemainingSeconds int       `json:"remaining_seconds"`
	TotalSeconds     int       `json:"total_seconds"`
	Display          string    `json:"display"`
}

// New returns an idle timer. onExpire, if non-nil, is called once each time
// a running countdown reaches zero; it runs outside the timer's lock.
func New(clock Clock, onExpire func()) *RestTimer {
	if clock == nil {
		clock = time.Now
	}
	return &RestTimer{now: clock, onExpire: onExpire}
}

// Start begins a countdown of d from now, replacing any running one. A
// non-positive d expires on the next refresh.
func (t *RestTimer) Start(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = true
	t.target = t.now().Add(d)
	t.total = d
	t.expired = false
}

// Extend moves the target by delta. It works mid-countdown and after expiry
// as long as the timer has not been dismissed; an expired timer pushed back
// into the future can expire again. It reports whether a timer was running.
func (t *RestTimer) Extend(delta time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return false
	}
	t.target = t.target.Add(delta)
	t.total += delta
	if t.expired && t.target.After(t.now()) {
		t.expired = false
	}
	return true
}

// Refresh recomputes the remaining time as max(0, target − now). The first
// refresh that observes zero fires the expiry callback; later ones do not.
func (t *RestTimer) Refresh() time.Duration {
	remaining, fire := t.refresh()
	if fire && t.onExpire != nil {
		t.onExpire()
	}
	return remaining
}

func (t *RestTimer) refresh() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return 0, false
	}
	remaining := t.target.Sub(t.now())
	if remaining > 0 {
		return remaining, false
	}
	if t.expired {
		return 0, false
	}
	t.expired = true
	return 0, true
}

// Dismiss cancels the timer regardless of the remaining time.
func (t *RestTimer) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	t.expired = false
	t.target = time.Time{}
	t.total = 0
}

// Active reports whether a countdown is running or awaiting dismissal.
func (t *RestTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Snapshot refreshes the timer and reports its state.
func (t *RestTimer) Snapshot() Snapshot {
	remaining := t.Refresh()

	t.mu.Lock()
	defer t.mu.Unlock()
	secs := ceilSeconds(remaining)
	return Snapshot{
		Active:           t.active,
		Expired:          t.active && t.expired,
		Target:           t.target,
		RemainingSeconds: secs,
		TotalSeconds:     ceilSeconds(t.total),
		Display:          FormatClock(time.Duration(secs) * time.Second),
	}
}

// Run refreshes the timer every interval until ctx is done. Missed ticks are
// harmless.
func (t *RestTimer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Refresh()
		}
	}
}

// FormatClock renders d as m:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
