package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/boltline/purchasing-dash/internal/cache"
	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/ingest"
	"github.com/boltline/purchasing-dash/internal/recon"
	"github.com/boltline/purchasing-dash/internal/refdata"
	"github.com/boltline/purchasing-dash/internal/worker"
)

// ItemWithReorder embeds the on-demand reorder signals next to a reconciled
// item for display.
type ItemWithReorder struct {
	domain.ReconciledInventoryItem
	Reorder domain.ReorderInfo `json:"reorder"`
}

// InventoryService holds one session's uploaded tables and the current
// reconciled snapshot. Uploading a table replaces the prior table of that
// type; any change to the lot, item or usage tables triggers a fresh
// reconciliation on the worker, and the latest request's result is the one
// applied.
type InventoryService struct {
	ref    refdata.Tables
	cache  cache.SnapshotCache
	worker *worker.Worker

	mu           sync.Mutex
	lots         []domain.LotRecord
	items        []domain.ItemRecord
	usage        []domain.UsageRecord
	po           []domain.PORecord
	sales        []domain.SalesRecord
	vendors      []domain.VendorRecord
	snapshot     []domain.ReconciledInventoryItem
	fingerprint  string
	reconcileErr error
}

func NewInventoryService(ref refdata.Tables, snapshotCache cache.SnapshotCache) *InventoryService {
	if snapshotCache == nil {
		snapshotCache = cache.NewNoopSnapshotCache()
	}
	s := &InventoryService{
		ref:      ref,
		cache:    snapshotCache,
		snapshot: []domain.ReconciledInventoryItem{},
	}
	s.worker = worker.New(recon.NewReconciler(ref), s.applyResult)
	return s
}

// Close stops the background worker.
func (s *InventoryService) Close() {
	s.worker.Stop()
}

// Ingest maps, validates and stores one uploaded table, then kicks off
// reconciliation when a core table changed. It returns the count of valid
// rows retained; rows dropped by validation show up only in that count and
// the log.
func (s *InventoryService) Ingest(ctx context.Context, recordType domain.RecordType, table ingest.Table) (int, error) {
	schema, ok := recon.SchemaFor(recordType)
	if !ok {
		return 0, fmt.Errorf("unknown record type %q", recordType)
	}

	mapped := recon.MapRows(table.Headers, table.Rows, schema)
	valid := recon.FilterValid(recordType, mapped)
	if dropped := len(mapped) - len(valid); dropped > 0 {
		log.Info().
			Str("type", string(recordType)).
			Int("dropped", dropped).
			Msg("dropped rows missing identity fields")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	core := true
	switch recordType {
	case domain.RecordLot:
		s.lots = recon.ToLotRecords(valid)
	case domain.RecordItems:
		s.items = recon.ToItemRecords(valid)
	case domain.RecordUsage:
		s.usage = recon.ToUsageRecords(valid)
	case domain.RecordPO:
		s.po = recon.ToPORecords(valid)
		core = false
	case domain.RecordSales:
		s.sales = recon.ToSalesRecords(valid)
		core = false
	case domain.RecordVendors:
		s.vendors = recon.ToVendorRecords(valid)
		core = false
	}

	if core {
		s.reconcileLocked(ctx)
	}
	return len(valid), nil
}

// reconcileLocked submits the current core tables for reconciliation. The
// worker receives copies so later uploads never mutate an in-flight request.
// A cached snapshot for an identical table fingerprint is applied directly.
func (s *InventoryService) reconcileLocked(ctx context.Context) {
	fp := fingerprintTables(s.lots, s.items, s.usage)
	s.fingerprint = fp

	if cached, ok, err := s.cache.Get(ctx, fp); err != nil {
		log.Warn().Err(err).Msg("snapshot cache get failed")
	} else if ok {
		s.worker.Invalidate() // any in-flight result is now stale
		s.snapshot = cached
		s.reconcileErr = nil
		return
	}

	req := worker.Request{
		Lots:  append([]domain.LotRecord(nil), s.lots...),
		Items: append([]domain.ItemRecord(nil), s.items...),
		Usage: append([]domain.UsageRecord(nil), s.usage...),
	}
	s.worker.Submit(req)
}

// applyResult runs on the worker goroutine for every non-superseded result.
// A failed reconciliation clears the snapshot rather than retaining stale
// output.
func (s *InventoryService) applyResult(res worker.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Err != nil {
		log.Error().Err(res.Err).Msg("reconciliation failed")
		s.snapshot = []domain.ReconciledInventoryItem{}
		s.reconcileErr = res.Err
		return
	}

	s.snapshot = res.Snapshot
	s.reconcileErr = nil

	if err := s.cache.Set(context.Background(), s.fingerprint, res.Snapshot); err != nil {
		log.Warn().Err(err).Msg("snapshot cache set failed")
	}
}

// Snapshot returns the current reconciled inventory, or the error from the
// last failed reconciliation.
func (s *InventoryService) Snapshot() ([]domain.ReconciledInventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconcileErr != nil {
		return nil, s.reconcileErr
	}
	return append([]domain.ReconciledInventoryItem(nil), s.snapshot...), nil
}

// SnapshotWithReorder returns the snapshot with reorder info computed per
// item. Reorder math is recomputed every call, never cached.
func (s *InventoryService) SnapshotWithReorder() ([]ItemWithReorder, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]ItemWithReorder, 0, len(snapshot))
	for _, it := range snapshot {
		out = append(out, ItemWithReorder{ReconciledInventoryItem: it, Reorder: recon.ReorderInfo(it)})
	}
	return out, nil
}

// ReorderFor computes reorder info for one reconciled item by composite id.
func (s *InventoryService) ReorderFor(id string) (domain.ReorderInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.snapshot {
		if it.ID == id {
			return recon.ReorderInfo(it), true
		}
	}
	return domain.ReorderInfo{}, false
}

// LowStockByVendor groups items needing reorder into per-vendor buckets with
// directory contacts attached. The "Unknown" pseudo-vendor is one bucket like
// any other. Groups are ordered by vendor name.
func (s *InventoryService) LowStockByVendor() ([]domain.VendorGroup, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*domain.VendorGroup)
	var names []string
	for _, it := range snapshot {
		if !recon.ReorderInfo(it).NeedsReorder {
			continue
		}
		g, ok := groups[it.Vendor]
		if !ok {
			g = &domain.VendorGroup{Vendor: it.Vendor, VendorCode: it.VendorCode}
			if detail, found := s.ref.Vendors[it.VendorCode]; found {
				g.Contacts = detail.Contacts
				g.Notes = detail.Notes
			}
			groups[it.Vendor] = g
			names = append(names, it.Vendor)
		}
		g.Items = append(g.Items, it)
	}

	sort.Strings(names)
	out := make([]domain.VendorGroup, 0, len(names))
	for _, name := range names {
		out = append(out, *groups[name])
	}
	return out, nil
}

// Summary computes the dashboard header stats from the current snapshot.
func (s *InventoryService) Summary() (domain.InventorySummary, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return domain.InventorySummary{}, err
	}

	warehouses := make(map[string]struct{})
	summary := domain.InventorySummary{TotalSKUs: len(snapshot)}
	for _, it := range snapshot {
		summary.TotalValue += it.InventoryValue
		warehouses[it.Warehouse] = struct{}{}
		if recon.ReorderInfo(it).NeedsReorder {
			summary.LowStockCount++
		}
		if it.MonthlyAvg == 0 {
			summary.NoUsageCount++
		}
	}
	summary.WarehouseCount = len(warehouses)
	return summary, nil
}

// OpenPOQuantity sums open purchase order quantities for an item across the
// uploaded PO table. Item ids compare canonically.
func (s *InventoryService) OpenPOQuantity(item string) float64 {
	item = recon.CanonicalItemID(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, po := range s.po {
		if po.Item == item && strings.EqualFold(strings.TrimSpace(po.Status), "open") {
			total += po.Quantity
		}
	}
	return total
}

// VendorDirectory lists the reference vendor directory with lead times, for
// the vendor communication views.
type VendorDirectoryEntry struct {
	Code     string               `json:"code"`
	LeadTime float64              `json:"lead_time"`
	Detail   refdata.VendorDetail `json:"detail"`
}

func (s *InventoryService) VendorDirectory() []VendorDirectoryEntry {
	codes := make([]string, 0, len(s.ref.Vendors))
	for code := range s.ref.Vendors {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]VendorDirectoryEntry, 0, len(codes))
	for _, code := range codes {
		out = append(out, VendorDirectoryEntry{
			Code:     code,
			LeadTime: s.ref.LeadTimeFor(code),
			Detail:   s.ref.Vendors[code],
		})
	}
	return out
}

// Reset clears every uploaded table and the snapshot.
func (s *InventoryService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lots, s.items, s.usage = nil, nil, nil
	s.po, s.sales, s.vendors = nil, nil, nil
	s.snapshot = []domain.ReconciledInventoryItem{}
	s.reconcileErr = nil
	s.fingerprint = ""
	s.worker.Invalidate()

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("snapshot cache invalidate failed")
	}
}

// fingerprintTables hashes the core tables so identical inputs share a cache
// entry.
func fingerprintTables(lots []domain.LotRecord, items []domain.ItemRecord, usage []domain.UsageRecord) string {
	h := sha1.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(lots)
	_ = enc.Encode(items)
	_ = enc.Encode(usage)
	return hex.EncodeToString(h.Sum(nil))
}
