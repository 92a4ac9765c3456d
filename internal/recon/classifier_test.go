package recon

import (
	"testing"

	"github.com/boltline/purchasing-dash/internal/domain"
)

func TestClassifyRecognizesEachType(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    domain.RecordType
	}{
		{"lot export", []string{"Item", "WH", "Location", "On Hand", "Committed", "Available"}, domain.RecordLot},
		{"usage export", []string{"Item", "WH", "MO Avg", "Min", "Max"}, domain.RecordUsage},
		{"item master", []string{"Item", "Description", "Unit Loaded Cost", "Primary Vendor", "Categories", "RPL", "Vendor Code"}, domain.RecordItems},
		{"open po", []string{"PO", "Item", "Vendor", "Status", "Qty", "Due Date"}, domain.RecordPO},
		{"sales orders", []string{"SO", "Item", "Customer", "Qty", "Status"}, domain.RecordSales},
		{"vendor master", []string{"Vendor Code", "Name", "Terms"}, domain.RecordVendors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.headers)
			if !ok {
				t.Fatalf("Classify(%v): unidentified", tt.headers)
			}
			if got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.headers, got, tt.want)
			}
		})
	}
}

func TestClassifyMinOptionalGate(t *testing.T) {
	// All of lot's required fields but none of its optional ones; lot needs
	// at least one optional match, so this must not classify as lot.
	headers := []string{"Item", "WH", "On Hand"}
	got, ok := Classify(headers)
	if ok && got == domain.RecordLot {
		t.Errorf("required-only header set must not classify as lot")
	}
}

func TestClassifyUnidentified(t *testing.T) {
	if got, ok := Classify([]string{"Foo", "Bar", "Baz"}); ok {
		t.Errorf("garbage headers classified as %s", got)
	}
	if _, ok := Classify(nil); ok {
		t.Error("empty header row must be unidentified")
	}
}

func TestClassifyPrefersHigherScore(t *testing.T) {
	// A full usage header also contains lot's item+warehouse requirements,
	// but usage matches more of its own signature and must win.
	headers := []string{"Item", "WH", "MO Avg", "Min", "Max"}
	got, ok := Classify(headers)
	if !ok || got != domain.RecordUsage {
		t.Errorf("Classify = %v (%v), want usage", got, ok)
	}
}
