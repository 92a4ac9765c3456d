// cmd/reconcile runs the reconciliation engine over a directory of ERP
// exports without the HTTP server: classify each file, reconcile the core
// tables, and write the snapshot (with reorder suggestions) as CSV.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/ingest"
	"github.com/boltline/purchasing-dash/internal/recon"
	"github.com/boltline/purchasing-dash/internal/refdata"
	"github.com/boltline/purchasing-dash/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		logger.SetLevel(lvl)
	}

	app := &cli.App{
		Name:  "reconcile",
		Usage: "Reconcile ERP exports into an inventory snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input-dir",
				Usage:    "Directory containing CSV/XLSX exports",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output CSV path (default stdout)",
			},
			&cli.StringFlag{
				Name:    "lead-times",
				Usage:   "JSON lead-time table override",
				EnvVars: []string{"REFDATA_LEAD_TIMES_PATH"},
			},
			&cli.StringFlag{
				Name:    "vendors",
				Usage:   "JSON vendor directory override",
				EnvVars: []string{"REFDATA_VENDORS_PATH"},
			},
			&cli.BoolFlag{
				Name:  "low-stock-only",
				Usage: "Emit only items that need reorder",
			},
		},
		Action: runReconcile,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("reconcile failed")
	}
}

func runReconcile(c *cli.Context) error {
	ref, err := refdata.Load(c.String("lead-times"), c.String("vendors"))
	if err != nil {
		return err
	}

	tables, err := classifyDir(c.String("input-dir"))
	if err != nil {
		return err
	}

	reconciler := recon.NewReconciler(ref)
	snapshot := reconciler.Reconcile(
		recon.ToLotRecords(tables[domain.RecordLot]),
		recon.ToItemRecords(tables[domain.RecordItems]),
		recon.ToUsageRecords(tables[domain.RecordUsage]),
	)
	log.Info().Int("items", len(snapshot)).Msg("reconciliation complete")

	var out io.Writer = os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeSnapshotCSV(out, snapshot, c.Bool("low-stock-only"))
}

// classifyDir reads every export in the directory, classifies it by header
// signature, and returns the mapped valid rows per record type. Unidentified
// files are logged and skipped; they never abort the run.
func classifyDir(dir string) (map[domain.RecordType][]domain.RawRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	tables := make(map[domain.RecordType][]domain.RawRow)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable file")
			continue
		}
		table, err := ingest.ReadFile(entry.Name(), f)
		f.Close()
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unparseable file")
			continue
		}

		recordType, ok := recon.Classify(table.Headers)
		if !ok {
			log.Warn().Str("file", entry.Name()).Msg("unidentified file, skipping")
			continue
		}

		schema, _ := recon.SchemaFor(recordType)
		mapped := recon.MapRows(table.Headers, table.Rows, schema)
		valid := recon.FilterValid(recordType, mapped)
		log.Info().
			Str("file", entry.Name()).
			Str("type", string(recordType)).
			Int("rows", len(valid)).
			Msg("classified")

		// Repeated files of one type within a run accumulate; a later run
		// starts fresh.
		tables[recordType] = append(tables[recordType], valid...)
	}
	return tables, nil
}

func writeSnapshotCSV(out io.Writer, snapshot []domain.ReconciledInventoryItem, lowStockOnly bool) error {
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })

	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"id", "item", "warehouse", "on_hand", "committed", "available",
		"locations", "description", "vendor", "vendor_code", "unit_cost",
		"inventory_value", "monthly_avg", "min", "max", "lead_time", "rpl",
		"category", "reorder_point", "target_stock", "days_of_supply",
		"needs_reorder", "suggested",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, it := range snapshot {
		info := recon.ReorderInfo(it)
		if lowStockOnly && !info.NeedsReorder {
			continue
		}

		daysOfSupply := ""
		if !math.IsInf(info.DaysOfSupply, 1) {
			daysOfSupply = strconv.FormatFloat(info.DaysOfSupply, 'f', 1, 64)
		}

		rec := []string{
			it.ID,
			it.Item,
			it.Warehouse,
			formatQty(it.OnHand),
			formatQty(it.Committed),
			formatQty(it.Available),
			strings.Join(it.Locations, ";"),
			it.Description,
			it.Vendor,
			it.VendorCode,
			formatQty(it.UnitCost),
			formatQty(it.InventoryValue),
			formatQty(it.MonthlyAvg),
			formatQty(it.Min),
			formatQty(it.Max),
			formatQty(it.LeadTime),
			it.RPL,
			it.Category,
			formatQty(info.ReorderPoint),
			formatQty(info.TargetStock),
			daysOfSupply,
			strconv.FormatBool(info.NeedsReorder),
			strconv.Itoa(info.Suggested),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
