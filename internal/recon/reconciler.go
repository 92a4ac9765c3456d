package recon

import (
	"strings"

	"github.com/boltline/purchasing-dash/internal/domain"
	"github.com/boltline/purchasing-dash/internal/refdata"
)

// UnknownVendor is the pseudo-vendor bucket for lines where no vendor can be
// resolved from either the item master or the lot data. Downstream grouping
// treats it as a single vendor.
const UnknownVendor = "Unknown"

// keySeparator joins item and warehouse into a group key. The validator
// guarantees neither segment is blank.
const keySeparator = "|"

// Reconciler joins lot, item-master and usage tables into the unified
// inventory snapshot. Reference tables are injected so the engine stays pure
// and testable; a call never mutates its inputs.
type Reconciler struct {
	ref refdata.Tables
}

func NewReconciler(ref refdata.Tables) *Reconciler {
	return &Reconciler{ref: ref}
}

// group accumulates every lot line sharing one (item, warehouse) identity.
type group struct {
	item        string
	warehouse   string
	onHand      float64
	committed   float64
	available   float64
	locations   []string
	locationSet map[string]struct{}
	description string
	vendor      string
}

// Reconcile produces exactly one ReconciledInventoryItem per distinct
// (item, warehouse) pair in the lot input, in first-seen order. It returns an
// empty snapshot when either the lot or usage table is empty: the dashboard
// has nothing meaningful to show without both.
func (r *Reconciler) Reconcile(lots []domain.LotRecord, items []domain.ItemRecord, usage []domain.UsageRecord) []domain.ReconciledInventoryItem {
	if len(lots) == 0 || len(usage) == 0 {
		return []domain.ReconciledInventoryItem{}
	}

	itemsByID := make(map[string]domain.ItemRecord, len(items))
	for _, it := range items {
		itemsByID[it.Item] = it // last write wins on duplicate id
	}

	usageByKey := make(map[string]domain.UsageRecord, len(usage))
	for _, u := range usage {
		usageByKey[u.Item+keySeparator+u.Warehouse] = u
	}

	nameToCode := r.ref.NameToCode()

	groups := make(map[string]*group, len(lots))
	order := make([]string, 0, len(lots))
	for _, lot := range lots {
		key := lot.Item + keySeparator + lot.Warehouse
		g, ok := groups[key]
		if !ok {
			g = &group{
				item:        lot.Item,
				warehouse:   lot.Warehouse,
				locations:   []string{},
				locationSet: make(map[string]struct{}),
			}
			groups[key] = g
			order = append(order, key)
		}

		g.onHand += lot.OnHand
		g.committed += lot.Committed
		g.available += lot.Available

		if loc := strings.TrimSpace(lot.Location); loc != "" {
			if _, seen := g.locationSet[loc]; !seen {
				g.locationSet[loc] = struct{}{}
				g.locations = append(g.locations, loc)
			}
		}

		// First non-empty value wins, never overwritten once set.
		if g.description == "" && strings.TrimSpace(lot.Description) != "" {
			g.description = lot.Description
		}
		if g.vendor == "" && strings.TrimSpace(lot.Vendor) != "" {
			g.vendor = lot.Vendor
		}
	}

	out := make([]domain.ReconciledInventoryItem, 0, len(order))
	for _, key := range order {
		g := groups[key]
		master := itemsByID[g.item]

		vendor := master.PrimaryVendor
		if vendor == "" {
			vendor = g.vendor
		}
		if vendor == "" {
			vendor = UnknownVendor
		}

		vendorCode := master.VendorCode
		if vendorCode == "" {
			vendorCode = nameToCode[refdata.NormalizeVendorName(vendor)]
		}

		description := g.description
		if description == "" {
			description = master.Description
		}

		u := usageByKey[key]

		out = append(out, domain.ReconciledInventoryItem{
			ID:             g.item + "-" + g.warehouse,
			Item:           g.item,
			Warehouse:      g.warehouse,
			OnHand:         g.onHand,
			Committed:      g.committed,
			Available:      g.available,
			Locations:      g.locations,
			Description:    description,
			Vendor:         vendor,
			VendorCode:     vendorCode,
			UnitCost:       master.UnitCost,
			InventoryValue: g.available * master.UnitCost,
			MonthlyAvg:     u.MonthlyAvg,
			Min:            u.Min,
			Max:            u.Max,
			LeadTime:       r.ref.LeadTimeFor(vendorCode),
			RPL:            master.RPL,
			Category:       master.Category,
		})
	}
	return out
}
