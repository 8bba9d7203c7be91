// Package session tracks one practice attempt from first keystroke to result.
package session

import (
	"time"

	"github.com/verte-zerg/typedesk/internal/clock"
	"github.com/verte-zerg/typedesk/internal/metrics"
	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/scoring"
)

// Options configures a Session.
type Options struct {
	// Duration is the countdown budget in seconds.
	Duration int
	// Scheduler and Notify arm real ticks; leave nil to drive Tick manually.
	Scheduler clock.Scheduler
	Notify    func(seq uint64)
	// OnFinalize is called exactly once with the result.
	OnFinalize func(model.Result)
	Now        func() time.Time
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	Subject   model.Subject
	Passage   string
	Input     string
	Duration  int
	Remaining int
	Elapsed   int
	State     clock.State
	Live      model.Live
	Done      bool
	Result    model.Result
}

// Progress returns typed characters as a percentage of the passage.
func (s Snapshot) Progress() int {
	total := len([]rune(s.Passage))
	if total == 0 {
		return 0
	}
	p := len([]rune(s.Input)) * 100 / total
	if p > 100 {
		p = 100
	}
	return p
}

// Session owns the mutable state of one attempt. It is not safe for
// concurrent use; Runner serializes access when events come from several
// goroutines.
type Session struct {
	subject model.Subject
	passage model.Passage
	target  []rune
	input   []rune

	clock *clock.Clock
	live  model.Live

	done       bool
	result     model.Result
	onFinalize func(model.Result)
	now        func() time.Time
}

// New creates an idle session for a generated passage.
func New(subject model.Subject, passage model.Passage, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		subject:    subject,
		passage:    passage,
		target:     []rune(passage.Text),
		clock:      clock.New(opts.Duration, opts.Scheduler, opts.Notify),
		live:       metrics.RecomputeRunes(nil, nil, 0),
		onFinalize: opts.OnFinalize,
		now:        now,
	}
}

// SetInput replaces the whole input buffer, as a text area change event does.
func (s *Session) SetInput(text string) bool {
	if s.done {
		return false
	}
	s.activate()
	s.input = []rune(text)
	return s.afterInput()
}

// TypeRunes appends runes one keystroke at a time. It stops at completion.
func (s *Session) TypeRunes(runes []rune) bool {
	for _, r := range runes {
		if s.done {
			return false
		}
		s.activate()
		s.input = append(s.input, r)
		if s.afterInput() {
			return true
		}
	}
	return false
}

// Backspace removes the last typed rune.
func (s *Session) Backspace() {
	if s.done || len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
	s.afterInput()
}

// Tick advances the clock by one second. It reports whether the tick
// finalized the session.
func (s *Session) Tick() bool {
	if s.done {
		return false
	}
	expired := s.clock.Tick()
	return s.afterTick(expired)
}

// HandleTick applies a scheduled tick armed with seq.
func (s *Session) HandleTick(seq uint64) bool {
	if s.done {
		return false
	}
	applied, expired := s.clock.Fire(seq)
	if !applied {
		return false
	}
	return s.afterTick(expired)
}

// Submit finalizes the session with whatever has been typed.
func (s *Session) Submit() model.Result {
	s.finalize(model.TriggerSubmitted)
	return s.result
}

// Done reports whether the session has been finalized.
func (s *Session) Done() bool {
	return s.done
}

// Result returns the final record once the session is done.
func (s *Session) Result() (model.Result, bool) {
	return s.result, s.done
}

// Live returns the latest interim metrics.
func (s *Session) Live() model.Live {
	return s.live
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Subject:   s.subject,
		Passage:   s.passage.Text,
		Input:     string(s.input),
		Duration:  s.clock.Duration(),
		Remaining: s.clock.Remaining(),
		Elapsed:   s.clock.Elapsed(),
		State:     s.clock.State(),
		Live:      s.live,
		Done:      s.done,
		Result:    s.result,
	}
}

func (s *Session) activate() {
	if s.clock.State() == clock.Idle {
		s.clock.Start()
	}
}

func (s *Session) afterInput() bool {
	s.live = metrics.RecomputeRunes(s.target, s.input, s.clock.Elapsed())
	if len(s.input) >= len(s.target) {
		s.finalize(model.TriggerCompleted)
		return true
	}
	return false
}

func (s *Session) afterTick(expired bool) bool {
	s.live.WPM = metrics.GrossWPM(len(s.input), s.clock.Elapsed())
	if expired {
		s.finalize(model.TriggerExpired)
		return true
	}
	return false
}

func (s *Session) finalize(trigger model.Trigger) {
	if s.done {
		return
	}
	s.clock.Stop()
	s.done = true
	s.result = scoring.Score(scoring.Input{
		TextID:         s.passage.ID,
		Subject:        s.subject,
		Passage:        s.passage.Text,
		Typed:          string(s.input),
		ElapsedSeconds: s.clock.Elapsed(),
		Trigger:        trigger,
		FinishedAt:     s.now(),
	})
	s.live = model.Live{
		ErrorCount: s.result.ErrorCount,
		Accuracy:   s.result.Accuracy,
		WPM:        s.result.WPM,
	}
	if s.onFinalize != nil {
		s.onFinalize(s.result)
	}
}
