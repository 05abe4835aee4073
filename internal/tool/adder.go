package tool

import (
	"context"
	"sync"

	"github.com/JonathanFeenstra/mob/internal/logx"
)

// SubmoduleAdder runs queued submodule additions one at a time on a
// dedicated goroutine, so slow network operations do not block the
// task scheduler. Whoever assembles the build system owns the one
// instance and its lifecycle.
//
// Requests are drained in queue order. Draining swaps the whole
// pending queue out under the lock, then processes outside it, so the
// lock is never held across a git operation.
type SubmoduleAdder struct {
	mu      sync.Mutex
	pending []Task
	started bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	stopOnce sync.Once
}

// NewSubmoduleAdder creates a stopped adder; call Start to launch the
// worker.
func NewSubmoduleAdder() *SubmoduleAdder {
	return &SubmoduleAdder{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the worker goroutine. The context supplies the logger
// used for the worker's own diagnostics; cancelling it also stops the
// worker. Starting twice is a no-op.
func (a *SubmoduleAdder) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.started = true

	go a.loop(ctx)
}

// Queue adds a submodule task to the queue and wakes the worker. Safe
// to call from any number of goroutines. Queue never blocks on the
// work itself; failures surface only in the worker's log.
func (a *SubmoduleAdder) Queue(t Task) {
	a.mu.Lock()
	a.pending = append(a.pending, t)
	a.mu.Unlock()

	// Coalescing wake signal; one pending signal is enough.
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Stop signals the worker to quit and waits for it to finish. The
// in-flight operation is never interrupted; remaining queued requests
// are abandoned. Safe to call more than once.
func (a *SubmoduleAdder) Stop() {
	a.stopOnce.Do(func() {
		close(a.quit)
	})

	a.mu.Lock()
	started := a.started
	a.mu.Unlock()

	if started {
		<-a.done
	}
}

func (a *SubmoduleAdder) swap() []Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	batch := a.pending
	a.pending = nil
	return batch
}

func (a *SubmoduleAdder) loop(ctx context.Context) {
	defer close(a.done)

	log := logx.FromContext(ctx).Named("submodule_adder")
	ctx = logx.WithLogger(ctx, log)

	for {
		select {
		case <-a.quit:
			return
		case <-ctx.Done():
			return
		case <-a.wake:
		}

		batch := a.swap()
		log.Tracef("woke up, %d to process", len(batch))

		for _, t := range batch {
			log.Tracef("running %s", t.Name())

			if err := t.Run(ctx); err != nil {
				// A fatal error ends only this worker; producers have
				// already returned from Queue and the rest of the
				// build is unaffected.
				log.Debugf("%s: %v", t.Name(), err)
				return
			}

			select {
			case <-a.quit:
				return
			default:
			}
		}
	}
}
