package statetree

import "time"

// DefaultDebounce is the quiet period a Scheduler waits after the last change
// before flushing.
const DefaultDebounce = 2 * time.Millisecond

// Scheduler batches consecutive state changes into a single re-render. Every
// change pushes the deadline back by the full delay, so a burst of changes
// produces one flush, delay after the last of them.
//
// The timing is tied to how often the host calls Tick; a slow update loop
// stretches the effective delay.
type Scheduler struct {
	delay time.Duration
	now   func() time.Time
	flush func() error

	timer     *Timeout
	deferring bool
	flushes   int
}

func NewScheduler(delay time.Duration, now func() time.Time, flush func() error) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		delay: delay,
		now:   now,
		flush: flush,
	}
}

func (s *Scheduler) InitiateChange() {
	if !s.deferring {
		s.timer = NewTimeout(s.delay, s.Flush)
	}
	s.timer.Reset(s.now())
	s.deferring = true
}

// Tick is called from every iteration of the host's update loop.
func (s *Scheduler) Tick(now time.Time) (flushed bool, err error) {
	if s.timer == nil {
		return false, nil
	}
	return s.timer.Check(now)
}

// Flush drops the pending timer and re-renders immediately.
func (s *Scheduler) Flush() error {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.deferring = false
	s.flushes++
	return s.flush()
}

// Cancel drops a pending flush without re-rendering. Hosts call it on
// teardown.
func (s *Scheduler) Cancel() bool {
	if !s.deferring {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.deferring = false
	return true
}

func (s *Scheduler) Pending() bool {
	return s.deferring
}

func (s *Scheduler) Deadline() (time.Time, bool) {
	if !s.deferring {
		return time.Time{}, false
	}
	return s.timer.Deadline(), true
}

func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Flushes reports how many flushes have run.
func (s *Scheduler) Flushes() int {
	return s.flushes
}
