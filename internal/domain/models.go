// internal/domain/models.go
package domain

import (
	"encoding/json"
	"math"
)

// RawRow is a single parsed spreadsheet row keyed by normalized logical field name.
// Values are strings as produced by the CSV/XLSX readers; an absent field maps to "".
type RawRow map[string]string

// RecordType identifies which ERP export a table of rows came from.
type RecordType string

const (
	RecordLot     RecordType = "lot"
	RecordItems   RecordType = "items"
	RecordUsage   RecordType = "usage"
	RecordPO      RecordType = "po"
	RecordSales   RecordType = "sales"
	RecordVendors RecordType = "vendors"
)

// LotRecord is one on-hand line for an item at a warehouse location.
// Multiple lot lines can share the same (item, warehouse) identity.
type LotRecord struct {
	Item        string  `json:"item"`
	Warehouse   string  `json:"warehouse"`
	Location    string  `json:"location,omitempty"`
	OnHand      float64 `json:"on_hand"`
	Committed   float64 `json:"committed"`
	Available   float64 `json:"available"`
	Description string  `json:"description,omitempty"`
	Vendor      string  `json:"vendor,omitempty"`
}

// ItemRecord is one item-master entry, unique per item id.
type ItemRecord struct {
	Item          string  `json:"item"`
	Description   string  `json:"description,omitempty"`
	UnitCost      float64 `json:"unit_cost"`
	PrimaryVendor string  `json:"primary_vendor,omitempty"`
	Category      string  `json:"category,omitempty"`
	RPL           string  `json:"rpl,omitempty"`
	VendorCode    string  `json:"vendor_code,omitempty"`
}

// UsageRecord is consumption history for an item at a warehouse.
type UsageRecord struct {
	Item       string  `json:"item"`
	Warehouse  string  `json:"warehouse"`
	MonthlyAvg float64 `json:"monthly_avg"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// PORecord is a pass-through purchase order line. Open quantities feed the
// per-item availability lookup; everything else is displayed as-is.
type PORecord struct {
	PONumber string  `json:"po_number"`
	Item     string  `json:"item"`
	Vendor   string  `json:"vendor,omitempty"`
	Status   string  `json:"status,omitempty"`
	Quantity float64 `json:"quantity"`
	DueDate  string  `json:"due_date,omitempty"`
}

// SalesRecord is a pass-through sales order line.
type SalesRecord struct {
	OrderNumber string  `json:"order_number"`
	Item        string  `json:"item"`
	Customer    string  `json:"customer,omitempty"`
	Quantity    float64 `json:"quantity"`
	Status      string  `json:"status,omitempty"`
}

// VendorRecord is a pass-through vendor master line.
type VendorRecord struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Terms string `json:"terms,omitempty"`
}

// ReconciledInventoryItem is the reconciler's output: one row per distinct
// (item, warehouse) pair in valid lot input, aggregating every lot line for
// that pair and merged with item-master and usage attributes.
type ReconciledInventoryItem struct {
	ID             string   `json:"id"` // "item-warehouse"
	Item           string   `json:"item"`
	Warehouse      string   `json:"warehouse"`
	OnHand         float64  `json:"on_hand"`
	Committed      float64  `json:"committed"`
	Available      float64  `json:"available"`
	Locations      []string `json:"locations"`
	Description    string   `json:"description,omitempty"`
	Vendor         string   `json:"vendor"`
	VendorCode     string   `json:"vendor_code,omitempty"`
	UnitCost       float64  `json:"unit_cost"`
	InventoryValue float64  `json:"inventory_value"`
	MonthlyAvg     float64  `json:"monthly_avg"`
	Min            float64  `json:"min"`
	Max            float64  `json:"max"`
	LeadTime       float64  `json:"lead_time"`
	RPL            string   `json:"rpl,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// ReorderInfo holds derived purchasing signals for one reconciled item.
// It is recomputed on every call and never stored.
type ReorderInfo struct {
	ReorderPoint float64 `json:"reorder_point"`
	TargetStock  float64 `json:"target_stock"`
	DaysOfSupply float64 `json:"days_of_supply"` // +Inf when there is no consumption history
	NeedsReorder bool    `json:"needs_reorder"`
	Suggested    int     `json:"suggested"`
}

// MarshalJSON renders an infinite days-of-supply as null; JSON has no Inf.
func (r ReorderInfo) MarshalJSON() ([]byte, error) {
	var days *float64
	if !math.IsInf(r.DaysOfSupply, 0) {
		days = &r.DaysOfSupply
	}
	return json.Marshal(struct {
		ReorderPoint float64  `json:"reorder_point"`
		TargetStock  float64  `json:"target_stock"`
		DaysOfSupply *float64 `json:"days_of_supply"`
		NeedsReorder bool     `json:"needs_reorder"`
		Suggested    int      `json:"suggested"`
	}{r.ReorderPoint, r.TargetStock, days, r.NeedsReorder, r.Suggested})
}

// VendorGroup is a low-stock bucket for one vendor, with directory contacts
// attached when the vendor code resolves.
type VendorGroup struct {
	Vendor     string                    `json:"vendor"`
	VendorCode string                    `json:"vendor_code,omitempty"`
	Contacts   []string                  `json:"contacts,omitempty"`
	Notes      string                    `json:"notes,omitempty"`
	Items      []ReconciledInventoryItem `json:"items"`
}

// InventorySummary backs the dashboard header cards.
type InventorySummary struct {
	TotalSKUs      int     `json:"total_skus"`
	TotalValue     float64 `json:"total_value"`
	LowStockCount  int     `json:"low_stock_count"`
	NoUsageCount   int     `json:"no_usage_count"`
	WarehouseCount int     `json:"warehouse_count"`
}

// ClassifiedFile is the per-file outcome of a bulk upload. Type is empty when
// the classifier could not identify the file.
type ClassifiedFile struct {
	Filename string     `json:"filename"`
	Type     RecordType `json:"type,omitempty"`
	Rows     int        `json:"rows"`
	Error    string     `json:"error,omitempty"`
}
