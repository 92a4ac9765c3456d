package worker

import (
	"sync"
	"testing"
	"time"

	"github.com/boltline/purchasing-dash/internal/domain"
)

// stubReconciler lets tests control when a reconciliation finishes.
type stubReconciler struct {
	started chan struct{}
	release chan struct{}
	result  func(lots []domain.LotRecord) []domain.ReconciledInventoryItem
}

func (s *stubReconciler) Reconcile(lots []domain.LotRecord, items []domain.ItemRecord, usage []domain.UsageRecord) []domain.ReconciledInventoryItem {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	if s.result != nil {
		return s.result(lots)
	}
	return []domain.ReconciledInventoryItem{}
}

type resultCollector struct {
	mu      sync.Mutex
	results []Result
}

func (c *resultCollector) apply(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

func (c *resultCollector) snapshot() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func lotNamed(item string) []domain.LotRecord {
	return []domain.LotRecord{{Item: item, Warehouse: "01", OnHand: 1, Available: 1}}
}

func TestWorkerAppliesLatestResult(t *testing.T) {
	stub := &stubReconciler{
		result: func(lots []domain.LotRecord) []domain.ReconciledInventoryItem {
			return []domain.ReconciledInventoryItem{{Item: lots[0].Item}}
		},
	}
	collector := &resultCollector{}
	w := New(stub, collector.apply)
	defer w.Stop()

	gen := w.Submit(Request{Lots: lotNamed("A")})
	waitFor(t, func() bool { return len(collector.snapshot()) == 1 })

	res := collector.snapshot()[0]
	if res.Generation != gen {
		t.Errorf("generation = %d, want %d", res.Generation, gen)
	}
	if len(res.Snapshot) != 1 || res.Snapshot[0].Item != "A" {
		t.Errorf("snapshot = %+v", res.Snapshot)
	}
}

func TestWorkerDiscardsStaleInFlightResult(t *testing.T) {
	stub := &stubReconciler{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result: func(lots []domain.LotRecord) []domain.ReconciledInventoryItem {
			return []domain.ReconciledInventoryItem{{Item: lots[0].Item}}
		},
	}
	collector := &resultCollector{}
	w := New(stub, collector.apply)
	defer w.Stop()

	// First request starts; while it is in flight a second supersedes it.
	w.Submit(Request{Lots: lotNamed("OLD")})
	<-stub.started
	latest := w.Submit(Request{Lots: lotNamed("NEW")})

	stub.release <- struct{}{} // finish OLD: stale, must be discarded
	<-stub.started
	stub.release <- struct{}{} // finish NEW

	waitFor(t, func() bool { return len(collector.snapshot()) == 1 })

	res := collector.snapshot()[0]
	if res.Generation != latest || res.Snapshot[0].Item != "NEW" {
		t.Errorf("applied result = gen %d %+v, want latest NEW", res.Generation, res.Snapshot)
	}
}

func TestWorkerSubmitReplacesQueuedRequest(t *testing.T) {
	stub := &stubReconciler{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result: func(lots []domain.LotRecord) []domain.ReconciledInventoryItem {
			return []domain.ReconciledInventoryItem{{Item: lots[0].Item}}
		},
	}
	collector := &resultCollector{}
	w := New(stub, collector.apply)
	defer w.Stop()

	w.Submit(Request{Lots: lotNamed("RUNNING")})
	<-stub.started

	// Both queue while the first runs; only the last survives the queue.
	w.Submit(Request{Lots: lotNamed("QUEUED-1")})
	latest := w.Submit(Request{Lots: lotNamed("QUEUED-2")})

	stub.release <- struct{}{} // RUNNING completes, stale
	<-stub.started             // QUEUED-2 starts; QUEUED-1 never ran
	stub.release <- struct{}{}

	waitFor(t, func() bool { return len(collector.snapshot()) == 1 })

	res := collector.snapshot()[0]
	if res.Generation != latest || res.Snapshot[0].Item != "QUEUED-2" {
		t.Errorf("applied result = gen %d %+v, want QUEUED-2", res.Generation, res.Snapshot)
	}
}

func TestWorkerInvalidateMarksInFlightStale(t *testing.T) {
	stub := &stubReconciler{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	collector := &resultCollector{}
	w := New(stub, collector.apply)
	defer w.Stop()

	w.Submit(Request{Lots: lotNamed("A")})
	<-stub.started
	w.Invalidate()
	stub.release <- struct{}{}

	// Give the worker a moment; nothing must be applied.
	time.Sleep(50 * time.Millisecond)
	if got := collector.snapshot(); len(got) != 0 {
		t.Errorf("invalidated result applied: %+v", got)
	}
}

type panickyReconciler struct{}

func (panickyReconciler) Reconcile([]domain.LotRecord, []domain.ItemRecord, []domain.UsageRecord) []domain.ReconciledInventoryItem {
	panic("malformed reference table")
}

func TestWorkerRecoversPanicAsError(t *testing.T) {
	collector := &resultCollector{}
	w := New(panickyReconciler{}, collector.apply)
	defer w.Stop()

	gen := w.Submit(Request{Lots: lotNamed("A")})
	waitFor(t, func() bool { return len(collector.snapshot()) == 1 })

	res := collector.snapshot()[0]
	if res.Err == nil {
		t.Fatal("expected error result from panicking reconciliation")
	}
	if res.Generation != gen {
		t.Errorf("generation = %d, want %d", res.Generation, gen)
	}
}
