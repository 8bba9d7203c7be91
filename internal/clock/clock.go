// Package clock implements the session countdown.
package clock

import "time"

// DefaultDuration is the session length used when none is configured.
const DefaultDuration = 420

// State is the lifecycle state of a Clock.
type State int

// Clock states.
const (
	Idle State = iota
	Active
	Expired
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Expired:
		return "expired"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Timer is a pending single-fire callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms single-fire callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// System returns a Scheduler backed by time.AfterFunc.
func System() Scheduler {
	return systemScheduler{}
}

// Clock counts down whole seconds from a fixed duration.
//
// A Clock is not safe for concurrent use. The scheduled callback never
// touches the clock: it reports the sequence number it was armed with to the
// notify function, and the owner applies the tick with Fire on its own
// goroutine.
type Clock struct {
	duration  int
	remaining int
	state     State

	sched  Scheduler
	notify func(seq uint64)
	timer  Timer
	armed  bool
	seq    uint64
}

// New returns an idle clock. sched and notify may be nil, in which case the
// owner drives the clock by calling Tick directly.
func New(durationSeconds int, sched Scheduler, notify func(seq uint64)) *Clock {
	if durationSeconds <= 0 {
		durationSeconds = DefaultDuration
	}
	return &Clock{
		duration:  durationSeconds,
		remaining: durationSeconds,
		state:     Idle,
		sched:     sched,
		notify:    notify,
	}
}

// Start moves an idle clock to active and arms the first tick.
func (c *Clock) Start() bool {
	if c.state != Idle {
		return false
	}
	c.state = Active
	c.arm()
	return true
}

// Fire applies a scheduled tick if seq belongs to the currently armed
// callback. Stale callbacks are ignored.
func (c *Clock) Fire(seq uint64) (applied, expired bool) {
	if !c.armed || seq != c.seq {
		return false, false
	}
	c.armed = false
	c.timer = nil
	return true, c.Tick()
}

// Tick subtracts one second. It reports true when the clock reaches zero.
func (c *Clock) Tick() bool {
	if c.state != Active {
		return false
	}
	c.disarm()
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = Expired
		return true
	}
	c.arm()
	return false
}

// Stop ends the countdown early and cancels any pending tick.
func (c *Clock) Stop() {
	c.disarm()
	if c.state == Idle || c.state == Active {
		c.state = Stopped
	}
}

// State returns the lifecycle state.
func (c *Clock) State() State {
	return c.state
}

// Armed reports whether a tick callback is pending.
func (c *Clock) Armed() bool {
	return c.armed
}

// Duration returns the total budget in seconds.
func (c *Clock) Duration() int {
	return c.duration
}

// Remaining returns the seconds left.
func (c *Clock) Remaining() int {
	return c.remaining
}

// Elapsed returns the seconds spent since the clock started.
func (c *Clock) Elapsed() int {
	return c.duration - c.remaining
}

func (c *Clock) arm() {
	if c.sched == nil || c.notify == nil {
		return
	}
	c.seq++
	seq := c.seq
	notify := c.notify
	c.timer = c.sched.AfterFunc(time.Second, func() { notify(seq) })
	c.armed = true
}

func (c *Clock) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.armed {
		c.armed = false
		c.seq++
	}
}
