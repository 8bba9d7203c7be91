package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typedesk/internal/clock"
	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/submit"
)

// ErrClosed is returned when a Runner has been closed.
var ErrClosed = errors.New("session closed")

// Outcome is the delivered result of a session.
type Outcome struct {
	Result model.Result
	// SubmitErr is set when submission failed; the result is still valid.
	SubmitErr error
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Duration      int
	Scheduler     clock.Scheduler
	Submitter     submit.Submitter
	SubmitTimeout time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

type eventKind int

const (
	evInput eventKind = iota
	evRunes
	evBackspace
	evTick
	evSubmit
	evSnapshot
)

type event struct {
	kind  eventKind
	text  string
	runes []rune
	seq   uint64
	reply chan Snapshot
}

// Runner serializes keystrokes, clock ticks and submit requests for one
// Session on a single goroutine.
type Runner struct {
	sess   *Session
	events chan event

	updates chan Snapshot
	done    chan Outcome

	submitter     submit.Submitter
	submitTimeout time.Duration
	log           *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner starts a runner for the passage.
func NewRunner(ctx context.Context, subject model.Subject, passage model.Passage, opts RunnerOptions) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = clock.System()
	}
	timeout := opts.SubmitTimeout
	if timeout <= 0 {
		timeout = submit.DefaultTimeout
	}
	rctx, cancel := context.WithCancel(ctx)
	r := &Runner{
		events:        make(chan event),
		updates:       make(chan Snapshot, 1),
		done:          make(chan Outcome, 1),
		submitter:     opts.Submitter,
		submitTimeout: timeout,
		log:           log.With(zap.String("text_id", passage.ID), zap.String("subject", subject.ID)),
		ctx:           rctx,
		cancel:        cancel,
	}
	r.sess = New(subject, passage, Options{
		Duration:   opts.Duration,
		Scheduler:  sched,
		Notify:     r.notify,
		OnFinalize: r.finalized,
		Now:        opts.Now,
	})
	r.wg.Add(1)
	go r.loop()
	return r
}

// SetInput replaces the input buffer.
func (r *Runner) SetInput(text string) (Snapshot, error) {
	return r.request(event{kind: evInput, text: text})
}

// Type appends runes.
func (r *Runner) Type(runes []rune) (Snapshot, error) {
	return r.request(event{kind: evRunes, runes: runes})
}

// Backspace removes the last typed rune.
func (r *Runner) Backspace() (Snapshot, error) {
	return r.request(event{kind: evBackspace})
}

// Submit finalizes the session.
func (r *Runner) Submit() (Snapshot, error) {
	return r.request(event{kind: evSubmit})
}

// Snapshot returns the current state.
func (r *Runner) Snapshot() (Snapshot, error) {
	return r.request(event{kind: evSnapshot})
}

// Updates delivers a snapshot after each applied clock tick. Only the latest
// snapshot is kept when the reader falls behind.
func (r *Runner) Updates() <-chan Snapshot {
	return r.updates
}

// Done delivers the outcome once the result has been submitted.
func (r *Runner) Done() <-chan Outcome {
	return r.done
}

// Close stops the runner and cancels any pending tick or submission.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		r.cancel()
		r.wg.Wait()
	})
}

func (r *Runner) request(ev event) (Snapshot, error) {
	ev.reply = make(chan Snapshot, 1)
	select {
	case r.events <- ev:
	case <-r.ctx.Done():
		return Snapshot{}, ErrClosed
	}
	select {
	case snap := <-ev.reply:
		return snap, nil
	case <-r.ctx.Done():
		return Snapshot{}, ErrClosed
	}
}

// notify runs on the scheduler's goroutine and forwards the tick.
func (r *Runner) notify(seq uint64) {
	select {
	case r.events <- event{kind: evTick, seq: seq}:
	case <-r.ctx.Done():
	}
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			r.sess.clock.Stop()
			return
		case ev := <-r.events:
			r.apply(ev)
		}
	}
}

func (r *Runner) apply(ev event) {
	switch ev.kind {
	case evInput:
		r.sess.SetInput(ev.text)
	case evRunes:
		r.sess.TypeRunes(ev.runes)
	case evBackspace:
		r.sess.Backspace()
	case evSubmit:
		r.sess.Submit()
	case evTick:
		r.sess.HandleTick(ev.seq)
		r.publish(r.sess.Snapshot())
	}
	if ev.reply != nil {
		ev.reply <- r.sess.Snapshot()
	}
}

func (r *Runner) publish(snap Snapshot) {
	select {
	case r.updates <- snap:
		return
	default:
	}
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- snap:
	default:
	}
}

// finalized runs on the loop goroutine exactly once.
func (r *Runner) finalized(res model.Result) {
	r.log.Info("session finalized",
		zap.String("trigger", string(res.Trigger)),
		zap.Int("wpm", res.WPM),
		zap.Int("accuracy", res.Accuracy),
		zap.Float64("marks", res.Marks),
	)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(r.ctx, r.submitTimeout)
		defer cancel()
		delivered, err := submit.Deliver(ctx, r.log, r.submitter, res)
		r.done <- Outcome{Result: delivered, SubmitErr: err}
	}()
}
