package service

import (
	"context"
	"testing"
	"time"

	"github.com/boltline/purchasing-dash/internal/cache"
	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/ingest"
	"github.com/boltline/purchasing-dash/internal/refdata"
)

func newTestService(t *testing.T) *InventoryService {
	t.Helper()
	s := NewInventoryService(refdata.Default(), cache.NewNoopSnapshotCache())
	t.Cleanup(s.Close)
	return s
}

func table(headers []string, rows ...[]string) ingest.Table {
	t := ingest.Table{Headers: headers}
	for _, r := range rows {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(r) {
				row[h] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func ingestAll(t *testing.T, s *InventoryService) {
	t.Helper()
	ctx := context.Background()

	lots := table(
		[]string{"Item", "WH", "Location", "On Hand", "Committed", "Available"},
		[]string{"100100", "01", "A1", "100", "20", "80"},
		[]string{"100100", "01", "B2", "50", "0", "50"},
		[]string{"200200", "01", "C3", "0", "0", "0"},
	)
	items := table(
		[]string{"Item", "Description", "Unit Loaded Cost", "Primary Vendor", "Vendor Code"},
		[]string{"100100", "1/4-20 Hex Bolt Gr5", "0.10", "Brighton-Best International", "BRI"},
	)
	usage := table(
		[]string{"Item", "WH", "MO Avg", "Min", "Max"},
		[]string{"100100", "01", "300", "0", "0"},
	)

	for _, in := range []struct {
		recordType domain.RecordType
		table      ingest.Table
	}{
		{domain.RecordLot, lots},
		{domain.RecordItems, items},
		{domain.RecordUsage, usage},
	} {
		if _, err := s.Ingest(ctx, in.recordType, in.table); err != nil {
			t.Fatalf("Ingest(%s): %v", in.recordType, err)
		}
	}
}

// waitForSnapshot polls until the reconciliation triggered by the last upload
// has been applied.
func waitForSnapshot(t *testing.T, s *InventoryService, settled func([]domain.ReconciledInventoryItem) bool) []domain.ReconciledInventoryItem {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snapshot, err := s.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if settled(snapshot) {
			return snapshot
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("snapshot did not settle within deadline")
	return nil
}

func fullyReconciled(snapshot []domain.ReconciledInventoryItem) bool {
	if len(snapshot) != 2 {
		return false
	}
	for _, it := range snapshot {
		if it.ID == "100100-01" && it.MonthlyAvg == 300 && it.UnitCost == 0.10 {
			return true
		}
	}
	return false
}

func TestIngestBuildsSnapshot(t *testing.T) {
	s := newTestService(t)
	ingestAll(t, s)
	snapshot := waitForSnapshot(t, s, fullyReconciled)

	byID := make(map[string]domain.ReconciledInventoryItem, len(snapshot))
	for _, it := range snapshot {
		byID[it.ID] = it
	}

	bolt, ok := byID["100100-01"]
	if !ok {
		t.Fatalf("missing 100100-01 in %+v", snapshot)
	}
	if bolt.OnHand != 150 || bolt.Committed != 20 || bolt.Available != 130 {
		t.Errorf("aggregates = %v/%v/%v, want 150/20/130", bolt.OnHand, bolt.Committed, bolt.Available)
	}
	if bolt.Vendor != "Brighton-Best International" || bolt.VendorCode != "BRI" {
		t.Errorf("vendor = %q/%q", bolt.Vendor, bolt.VendorCode)
	}
	if bolt.LeadTime != 21 {
		t.Errorf("lead time = %v, want 21", bolt.LeadTime)
	}
	if bolt.InventoryValue != 13 {
		t.Errorf("inventory value = %v, want 13", bolt.InventoryValue)
	}

	orphan, ok := byID["200200-01"]
	if !ok {
		t.Fatalf("missing 200200-01 in %+v", snapshot)
	}
	if orphan.Vendor != "Unknown" || orphan.VendorCode != "" {
		t.Errorf("masterless vendor = %q/%q, want Unknown with no code", orphan.Vendor, orphan.VendorCode)
	}
}

func TestIngestUnknownType(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Ingest(context.Background(), domain.RecordType("ledger"), ingest.Table{}); err == nil {
		t.Error("expected error for unknown record type")
	}
}

func TestReorderFor(t *testing.T) {
	s := newTestService(t)
	ingestAll(t, s)
	waitForSnapshot(t, s, fullyReconciled)

	info, ok := s.ReorderFor("100100-01")
	if !ok {
		t.Fatal("ReorderFor(100100-01) not found")
	}
	// dailyAvg 10, lead 21 -> safety 14+11, reorder point 10*(21+25).
	if info.ReorderPoint != 460 {
		t.Errorf("reorder point = %v, want 460", info.ReorderPoint)
	}
	if !info.NeedsReorder {
		t.Error("130 available under reorder point 460 must need reorder")
	}

	if _, ok := s.ReorderFor("999999-01"); ok {
		t.Error("ReorderFor for unknown id must return not found")
	}
}

func TestLowStockByVendor(t *testing.T) {
	s := newTestService(t)
	ingestAll(t, s)
	waitForSnapshot(t, s, fullyReconciled)

	groups, err := s.LowStockByVendor()
	if err != nil {
		t.Fatalf("LowStockByVendor: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}
	if groups[0].Vendor != "Brighton-Best International" || groups[1].Vendor != "Unknown" {
		t.Errorf("group order = %q, %q", groups[0].Vendor, groups[1].Vendor)
	}
	if len(groups[0].Contacts) == 0 {
		t.Error("directory contacts missing for known vendor group")
	}
	if len(groups[1].Contacts) != 0 {
		t.Errorf("Unknown bucket must carry no contacts, got %v", groups[1].Contacts)
	}
	if len(groups[0].Items) != 1 || groups[0].Items[0].ID != "100100-01" {
		t.Errorf("vendor group items = %+v", groups[0].Items)
	}
}

func TestSummary(t *testing.T) {
	s := newTestService(t)
	ingestAll(t, s)
	waitForSnapshot(t, s, fullyReconciled)

	summary, err := s.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := domain.InventorySummary{
		TotalSKUs:      2,
		TotalValue:     13,
		LowStockCount:  2,
		NoUsageCount:   1,
		WarehouseCount: 1,
	}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestOpenPOQuantity(t *testing.T) {
	s := newTestService(t)
	po := table(
		[]string{"PO", "Item", "Status", "Qty"},
		[]string{"P-1001", "100100.0", "Open", "25"},
		[]string{"P-1002", "100100", "Closed", "99"},
		[]string{"P-1003", "100100", "open", "10"},
		[]string{"P-1004", "200200", "Open", "5"},
	)
	if _, err := s.Ingest(context.Background(), domain.RecordPO, po); err != nil {
		t.Fatalf("Ingest(po): %v", err)
	}

	if got := s.OpenPOQuantity("100100"); got != 35 {
		t.Errorf("OpenPOQuantity(100100) = %v, want 35", got)
	}
	// Queries coerce float-rendered ids the same way uploads do.
	if got := s.OpenPOQuantity("100100.0"); got != 35 {
		t.Errorf("OpenPOQuantity(100100.0) = %v, want 35", got)
	}
	if got := s.OpenPOQuantity("999999"); got != 0 {
		t.Errorf("OpenPOQuantity(999999) = %v, want 0", got)
	}
}

func TestVendorDirectory(t *testing.T) {
	s := newTestService(t)
	entries := s.VendorDirectory()
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Code >= entries[i].Code {
			t.Fatalf("entries not sorted by code: %q before %q", entries[i-1].Code, entries[i].Code)
		}
	}
	for _, e := range entries {
		if e.Code == "LIN" && e.LeadTime != 28 {
			t.Errorf("LIN lead time = %v, want 28", e.LeadTime)
		}
	}
}

func TestReset(t *testing.T) {
	s := newTestService(t)
	ingestAll(t, s)
	waitForSnapshot(t, s, fullyReconciled)

	s.Reset(context.Background())

	snapshot, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot after reset: %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("snapshot after reset = %+v, want empty", snapshot)
	}
	if got := s.OpenPOQuantity("100100"); got != 0 {
		t.Errorf("open PO quantity after reset = %v, want 0", got)
	}
}
