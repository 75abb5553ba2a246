package game

import (
	"context"
	"sync"
	"time"
)

// Runner drives one Session in real time. It owns the one-second ticker and
// the delayed callback that ends a time freeze, and serializes them with user
// actions. All scheduled callbacks are cancelled when the session finishes or
// the runner is stopped, so a superseded session is never mutated by a stale
// timer.
type Runner struct {
	mu       sync.Mutex
	session  *Session
	interval time.Duration
	onFinish func(Snapshot)

	cancel      context.CancelFunc
	freeze      *time.Timer
	freezeUntil time.Time
	stopped     bool
	finished    bool
	done        chan struct{}
	lastAccess  time.Time
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithTickInterval replaces the one-second cadence.
func WithTickInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

// OnFinish registers fn to run once with the final snapshot. It is called
// without the runner lock held, so it may call back into the runner.
func OnFinish(fn func(Snapshot)) RunnerOption {
	return func(r *Runner) { r.onFinish = fn }
}

// NewRunner wraps s. The timer starts with Start.
func NewRunner(s *Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		session:    s,
		interval:   time.Second,
		done:       make(chan struct{}),
		lastAccess: time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the wrapped session's identifier.
func (r *Runner) ID() string { return r.session.ID() }

// Start starts the session and its ticker. The ticker stops when ctx is
// cancelled, the session finishes, or Stop is called.
func (r *Runner) Start(ctx context.Context, settings Settings) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastAccess = time.Now()
	snap, err := r.session.Start(settings)
	if err != nil || r.stopped || r.cancel != nil || snap.State != StatePlaying {
		return snap, err
	}
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.loop(loopCtx)
	return snap, nil
}

// Do runs fn with exclusive access to the session and then reconciles the
// scheduled callbacks with the session state.
func (r *Runner) Do(fn func(*Session) error) error {
	r.mu.Lock()
	r.lastAccess = time.Now()
	err := fn(r.session)
	final, finished := r.reconcileLocked()
	r.mu.Unlock()
	r.notify(final, finished)
	return err
}

// Snapshot returns the current session snapshot.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot()
}

// Publish queues an external event on the session.
func (r *Runner) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Publish(e)
}

// DrainEvents empties the session's event queue.
func (r *Runner) DrainEvents() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastAccess = time.Now()
	return r.session.DrainEvents()
}

// LastAccess returns when a caller last touched the runner.
func (r *Runner) LastAccess() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastAccess
}

// Stop cancels the ticker and any pending freeze callback. The session keeps
// its state and can still be read.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Done is closed once the runner has stopped.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) loop(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.tick()
		}
	}
}

func (r *Runner) tick() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	_, _ = r.session.Tick()
	final, finished := r.reconcileLocked()
	r.mu.Unlock()
	r.notify(final, finished)
}

func (r *Runner) unfreeze(until time.Time) {
	r.mu.Lock()
	// A re-applied freeze reschedules; the superseded callback must not fire.
	if r.stopped || !r.freezeUntil.Equal(until) {
		r.mu.Unlock()
		return
	}
	r.freeze = nil
	r.freezeUntil = time.Time{}
	_, _ = r.session.Unfreeze()
	final, finished := r.reconcileLocked()
	r.mu.Unlock()
	r.notify(final, finished)
}

// reconcileLocked stops everything once the session has finished and keeps
// the freeze callback in line with the session's freeze expiry.
func (r *Runner) reconcileLocked() (Snapshot, bool) {
	if r.session.State() == StateFinished {
		if r.finished {
			return Snapshot{}, false
		}
		r.finished = true
		r.stopLocked()
		return r.session.Snapshot(), true
	}
	until, frozen := r.session.FreezeExpiresAt()
	switch {
	case frozen && !until.Equal(r.freezeUntil):
		r.stopFreezeLocked()
		r.freezeUntil = until
		r.freeze = time.AfterFunc(time.Until(until), func() { r.unfreeze(until) })
	case !frozen && r.freeze != nil:
		r.stopFreezeLocked()
	}
	return Snapshot{}, false
}

func (r *Runner) stopFreezeLocked() {
	if r.freeze != nil {
		r.freeze.Stop()
		r.freeze = nil
	}
	r.freezeUntil = time.Time{}
}

func (r *Runner) stopLocked() {
	if r.stopped {
		return
	}
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
	}
	r.stopFreezeLocked()
	close(r.done)
}

func (r *Runner) notify(final Snapshot, finished bool) {
	if finished && r.onFinish != nil {
		r.onFinish(final)
	}
}
