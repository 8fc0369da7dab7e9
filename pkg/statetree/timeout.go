package statetree

import "time"

// Timeout is a deadline polled from the host's update loop. It never spawns a
// goroutine: the callback only runs from Check.
type Timeout struct {
	delay    time.Duration
	onFinish func() error

	started time.Time
	running bool
}

func NewTimeout(delay time.Duration, onFinish func() error) *Timeout {
	return &Timeout{
		delay:    delay,
		onFinish: onFinish,
	}
}

func (t *Timeout) Start(now time.Time) {
	t.started = now
	t.running = true
}

// Reset restarts the full delay from now, whether or not the timeout is running.
func (t *Timeout) Reset(now time.Time) {
	t.Stop()
	t.Start(now)
}

func (t *Timeout) Stop() {
	t.running = false
}

func (t *Timeout) Running() bool {
	return t.running
}

func (t *Timeout) Deadline() time.Time {
	return t.started.Add(t.delay)
}

// Check fires the callback once the delay has elapsed. The timeout is stopped
// before the callback runs so the callback may start it again.
func (t *Timeout) Check(now time.Time) (fired bool, err error) {
	if !t.running {
		return false, nil
	}
	if now.Sub(t.started) < t.delay {
		return false, nil
	}
	t.Stop()
	return true, t.onFinish()
}
