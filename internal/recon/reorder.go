package recon

import (
	"math"

	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/refdata"
)

// Reorder policy constants.
const (
	DaysInMonth              = 30
	SafetyStockDays          = 14
	TargetStockMultiplier    = 1.5
	LongLeadTimeSafetyFactor = 0.5
	DefaultLeadTimeDays      = refdata.DefaultLeadTimeDays
)

// ReorderInfo derives the purchasing signals for one reconciled item. Pure and
// deterministic: callers recompute it on demand rather than caching it.
//
// ERP-supplied min/max levels take precedence over the computed heuristic when
// positive. Lead times beyond the default earn extra safety days proportional
// to the lead time; the nonlinearity is the policy, not an accident.
func ReorderInfo(item domain.ReconciledInventoryItem) domain.ReorderInfo {
	dailyAvg := item.MonthlyAvg / DaysInMonth

	leadTime := item.LeadTime
	if leadTime <= 0 {
		leadTime = DefaultLeadTimeDays
	}

	safetyDays := float64(SafetyStockDays)
	if leadTime > DefaultLeadTimeDays {
		safetyDays += math.Ceil(leadTime * LongLeadTimeSafetyFactor)
	}

	reorderPoint := dailyAvg * (leadTime + safetyDays)
	if item.Min > 0 {
		reorderPoint = item.Min
	}

	targetStock := reorderPoint * TargetStockMultiplier
	if item.Max > 0 {
		targetStock = item.Max
	}

	daysOfSupply := math.Inf(1) // no consumption history: cannot run out
	if dailyAvg > 0 {
		daysOfSupply = item.Available / dailyAvg
	}

	needsReorder := item.Available <= reorderPoint

	suggested := 0
	if needsReorder {
		suggested = int(math.Max(0, math.Ceil(targetStock-item.Available)))
	}

	return domain.ReorderInfo{
		ReorderPoint: reorderPoint,
		TargetStock:  targetStock,
		DaysOfSupply: daysOfSupply,
		NeedsReorder: needsReorder,
		Suggested:    suggested,
	}
}
