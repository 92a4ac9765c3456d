package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/boltline/purchasing-dash/internal/domain"
)

func TestReadCSV(t *testing.T) {
	data := "Item, WH ,On Hand\nHHCS-0501,01,100\n00451,02,\"1,250\"\n"

	table, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(table.Headers) != 3 || table.Headers[1] != "WH" {
		t.Errorf("headers = %v, want trimmed [Item WH On Hand]", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["Item"] != "HHCS-0501" || table.Rows[0]["On Hand"] != "100" {
		t.Errorf("row 0 = %v", table.Rows[0])
	}
	if table.Rows[1]["Item"] != "00451" {
		t.Errorf("leading zeros must survive: %v", table.Rows[1])
	}
	if table.Rows[1]["On Hand"] != "1,250" {
		t.Errorf("quoted separator cell = %q", table.Rows[1]["On Hand"])
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	data := "Item,WH,On Hand\nA,01\nB,02,5,EXTRA\n"

	table, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	// Short row pads with empty cells.
	if v, ok := table.Rows[0]["On Hand"]; !ok || v != "" {
		t.Errorf("short row: On Hand = %q (present=%v), want present empty", v, ok)
	}
	// Long row drops the overflow but keeps mapped columns.
	if table.Rows[1]["On Hand"] != "5" {
		t.Errorf("long row: On Hand = %q, want 5", table.Rows[1]["On Hand"])
	}
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	if _, err := ReadFile("export.pdf", strings.NewReader("x")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestReadHeader(t *testing.T) {
	header, err := ReadHeader(strings.NewReader("Item,WH,MO Avg\nA,01,5\n"))
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if len(header) != 3 || header[2] != "MO Avg" {
		t.Errorf("header = %v", header)
	}
}

func TestClassifyBatch(t *testing.T) {
	files := []BulkFile{
		{Name: "lots.csv", Table: Table{Headers: []string{"Item", "WH", "On Hand", "Available"}}},
		{Name: "usage.csv", Table: Table{Headers: []string{"Item", "WH", "MO Avg", "Min", "Max"}}},
		{Name: "mystery.csv", Table: Table{Headers: []string{"Foo", "Bar"}}},
	}

	results := ClassifyBatch(context.Background(), files)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Type != domain.RecordLot || results[0].Unidentified {
		t.Errorf("lots.csv = %+v", results[0])
	}
	if results[1].Type != domain.RecordUsage || results[1].Unidentified {
		t.Errorf("usage.csv = %+v", results[1])
	}
	if !results[2].Unidentified {
		t.Errorf("mystery.csv should be unidentified: %+v", results[2])
	}
	// One bad file never affects the rest of the batch.
	if results[0].Name != "lots.csv" || results[2].Name != "mystery.csv" {
		t.Errorf("results out of order: %+v", results)
	}
}
