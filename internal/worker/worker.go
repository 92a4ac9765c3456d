// Package worker runs reconciliation off the request path as a single-shot
// request/response. At most one reconciliation is in flight; a newer request
// supersedes anything queued, and a result is discarded when it is stale by
// the time it completes.
package worker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/boltline/purchasing-dash/internal/domain"
)

// Reconciler is the computation the worker schedules. *recon.Reconciler
// satisfies it.
type Reconciler interface {
	Reconcile(lots []domain.LotRecord, items []domain.ItemRecord, usage []domain.UsageRecord) []domain.ReconciledInventoryItem
}

// Request carries immutable snapshots of the three input tables.
type Request struct {
	Lots  []domain.LotRecord
	Items []domain.ItemRecord
	Usage []domain.UsageRecord
}

// Result is the worker's single response to a request.
type Result struct {
	Generation uint64
	Snapshot   []domain.ReconciledInventoryItem
	Err        error
}

type pending struct {
	generation uint64
	req        Request
}

// Worker owns one goroutine that serves reconcile requests in submission
// order, skipping any request that has already been superseded.
type Worker struct {
	reconciler Reconciler
	apply      func(Result)

	requests chan pending
	latest   atomic.Uint64
	submitMu sync.Mutex
	quit     chan struct{}
	done     chan struct{}
}

// New starts a worker. apply is invoked from the worker goroutine for every
// non-stale result; the caller synchronizes its own state.
func New(reconciler Reconciler, apply func(Result)) *Worker {
	w := &Worker{
		reconciler: reconciler,
		apply:      apply,
		requests:   make(chan pending, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues a reconciliation of the given tables, replacing any request
// that has not started yet. It returns the request's generation.
func (w *Worker) Submit(req Request) uint64 {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	gen := w.latest.Add(1)
	p := pending{generation: gen, req: req}
	for {
		select {
		case w.requests <- p:
			return gen
		default:
			// Drop the superseded request still sitting in the queue.
			select {
			case <-w.requests:
			default:
			}
		}
	}
}

// Invalidate advances the generation without submitting work, marking any
// in-flight or queued request stale. Callers use it when they apply a
// snapshot from elsewhere (cache hit, session reset).
func (w *Worker) Invalidate() uint64 {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	gen := w.latest.Add(1)
	select {
	case <-w.requests:
	default:
	}
	return gen
}

// Stop shuts the worker down and waits for the in-flight request, if any.
func (w *Worker) Stop() {
	close(w.quit)
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			return
		case p := <-w.requests:
			res := w.reconcile(p)
			if res.Generation != w.latest.Load() {
				log.Debug().Uint64("generation", res.Generation).Msg("discarding stale reconcile result")
				continue
			}
			w.apply(res)
		}
	}
}

// reconcile runs one request, converting a panic from malformed reference
// data into a single error response rather than taking the process down.
func (w *Worker) reconcile(p pending) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Uint64("generation", p.generation).Msg("reconciliation panicked")
			res = Result{Generation: p.generation, Err: fmt.Errorf("reconciliation failed: %v", r)}
		}
	}()

	snapshot := w.reconciler.Reconcile(p.req.Lots, p.req.Items, p.req.Usage)
	return Result{Generation: p.generation, Snapshot: snapshot}
}
