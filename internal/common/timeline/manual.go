package timeline

import (
	"sort"
	"time"
)

// Manual is a virtual-time timeline. Time only moves when Advance is called,
// and due callbacks run synchronously on the caller's goroutine in
// (due time, schedule order) sequence. It is not safe for concurrent use.
type Manual struct {
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	owner    *Manual
	at       time.Time
	interval time.Duration
	seq      uint64
	fn       func()
	stopped  bool
}

// NewManual creates a manual timeline starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time
func (m *Manual) Now() time.Time {
	return m.now
}

// After schedules fn to run once after d
func (m *Manual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return m.schedule(d, 0, fn)
}

// Every schedules fn to run every d
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	d = normalizeInterval(d)
	return m.schedule(d, d, fn)
}

// Pending returns the number of live scheduled activities
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Advance moves virtual time forward by d, running every callback that
// comes due on the way. Callbacks may schedule or stop other activities.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)

	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}

		m.now = next.at
		if next.interval > 0 {
			next.at = next.at.Add(next.interval)
			next.seq = m.nextSeq()
		} else {
			next.stopped = true
			m.remove(next)
		}

		next.fn()
	}

	m.now = target
}

func (m *Manual) schedule(d, interval time.Duration, fn func()) *manualTimer {
	t := &manualTimer{
		owner:    m,
		at:       m.now.Add(d),
		interval: interval,
		seq:      m.nextSeq(),
		fn:       fn,
	}
	m.pending = append(m.pending, t)
	return t
}

func (m *Manual) nextSeq() uint64 {
	m.seq++
	return m.seq
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}

	sort.SliceStable(m.pending, func(i, j int) bool {
		a, b := m.pending[i], m.pending[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		return a.seq < b.seq
	})

	if first := m.pending[0]; !first.at.After(target) {
		return first
	}
	return nil
}

func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// Stop cancels the activity
func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.owner.remove(t)
	return true
}
