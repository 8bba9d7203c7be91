package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/typedesk/internal/clock"
	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/submit"
)

type fakeTimer struct {
	mu      *sync.Mutex
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{mu: &s.mu, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs the pending callback, if any, as the timer goroutine would.
func (s *fakeScheduler) fire() bool {
	s.mu.Lock()
	var pending *fakeTimer
	for _, t := range s.timers {
		if !t.stopped {
			pending = t
		}
	}
	if pending != nil {
		pending.stopped = true
	}
	s.mu.Unlock()
	if pending == nil {
		return false
	}
	pending.f()
	return true
}

func waitUpdate(t *testing.T, r *Runner) Snapshot {
	t.Helper()
	select {
	case snap := <-r.Updates():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for update")
	}
	return Snapshot{}
}

func waitOutcome(t *testing.T, r *Runner) Outcome {
	t.Helper()
	select {
	case out := <-r.Done():
		return out
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for outcome")
	}
	return Outcome{}
}

func TestRunnerSubmitDeliversDespiteFailure(t *testing.T) {
	sched := &fakeScheduler{}
	var mu sync.Mutex
	var submitted []model.Result
	failing := submit.SubmitterFunc(func(ctx context.Context, r model.Result) error {
		mu.Lock()
		submitted = append(submitted, r)
		mu.Unlock()
		return errors.New("api unreachable")
	})
	r := NewRunner(context.Background(), testSubject(), model.Passage{ID: "p", Text: "one two three."}, RunnerOptions{
		Duration:  60,
		Scheduler: sched,
		Submitter: failing,
	})
	defer r.Close()

	snap, err := r.Type([]rune("one"))
	if err != nil {
		t.Fatalf("type: %v", err)
	}
	if snap.State != clock.Active || snap.Input != "one" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !sched.fire() {
		t.Fatalf("expected an armed tick")
	}
	if got := waitUpdate(t, r).Remaining; got != 59 {
		t.Fatalf("expected 59 remaining, got %d", got)
	}

	snap, err = r.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !snap.Done || snap.Result.Trigger != model.TriggerSubmitted {
		t.Fatalf("expected submitted result, got %+v", snap.Result)
	}
	out := waitOutcome(t, r)
	if out.SubmitErr == nil {
		t.Fatalf("expected submission error to be reported")
	}
	if out.Result.TypedContent != "one" || out.Result.Duration != 1 || out.Result.MissingWords != 2 {
		t.Fatalf("unexpected delivered result: %+v", out.Result)
	}

	// Later events change nothing and do not resubmit.
	if _, err := r.Submit(); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	snap, _ = r.Type([]rune(" two"))
	if snap.Input != "one" {
		t.Fatalf("input changed after finalize: %q", snap.Input)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(submitted) != 1 {
		t.Fatalf("expected a single submission, got %d", len(submitted))
	}
}

func TestRunnerExpiresOnTicks(t *testing.T) {
	sched := &fakeScheduler{}
	r := NewRunner(context.Background(), testSubject(), model.Passage{ID: "p", Text: "alpha beta."}, RunnerOptions{
		Duration:  2,
		Scheduler: sched,
	})
	defer r.Close()

	if sched.fire() {
		t.Fatalf("idle session must not arm a tick")
	}
	if _, err := r.Type([]rune("alpha")); err != nil {
		t.Fatalf("type: %v", err)
	}
	sched.fire()
	waitUpdate(t, r)
	sched.fire()
	final := waitUpdate(t, r)
	if !final.Done || final.Remaining != 0 {
		t.Fatalf("expected expired snapshot, got %+v", final)
	}
	out := waitOutcome(t, r)
	if out.SubmitErr != nil {
		t.Fatalf("no submitter must mean no error, got %v", out.SubmitErr)
	}
	if out.Result.Trigger != model.TriggerExpired || out.Result.Duration != 2 || out.Result.MissingWords != 1 {
		t.Fatalf("unexpected expired result: %+v", out.Result)
	}
	if sched.fire() {
		t.Fatalf("expired session must not re-arm")
	}
}

func TestRunnerClosed(t *testing.T) {
	r := NewRunner(context.Background(), testSubject(), model.Passage{ID: "p", Text: "abc."}, RunnerOptions{
		Scheduler: &fakeScheduler{},
	})
	r.Close()
	r.Close()
	if _, err := r.Type([]rune("a")); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
