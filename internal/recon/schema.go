package recon

import "github.com/boltline/purchasing-dash/internal/domain"

// FieldSpec maps one logical field to its acceptable column header aliases.
// Alias order is significant: when several aliases appear in the same row,
// the earliest one listed wins.
type FieldSpec struct {
	Name    string
	Aliases []string
}

// Schema describes one record type: how its columns map to logical fields and
// how its header row is recognized during bulk classification. Required groups
// are an all-or-nothing gate; optional groups are scored, and a file must match
// at least MinOptional of them to be classified as this type.
type Schema struct {
	Type        domain.RecordType
	Fields      []FieldSpec
	Required    []string // logical field names that must all be present in the header
	Optional    []string // logical field names scored during classification
	MinOptional int
}

// Schemas lists every record type in declaration order. Classifier ties resolve
// to the earliest entry, so types with overlapping headers must be ordered with
// the more specific signature first.
var Schemas = []Schema{
	{
		Type: domain.RecordLot,
		Fields: []FieldSpec{
			{Name: "item", Aliases: []string{"Item", "item"}},
			{Name: "warehouse", Aliases: []string{"WH", "wh", "Warehouse"}},
			{Name: "location", Aliases: []string{"Location", "location"}},
			{Name: "onHand", Aliases: []string{"On Hand", "onHand"}},
			{Name: "committed", Aliases: []string{"Committed", "committed"}},
			{Name: "available", Aliases: []string{"Available", "available"}},
			{Name: "description", Aliases: []string{"Description", "description"}},
			{Name: "vendor", Aliases: []string{"Vendor", "vendor"}},
		},
		Required:    []string{"item", "warehouse", "onHand"},
		Optional:    []string{"location", "committed", "available"},
		MinOptional: 1,
	},
	{
		Type: domain.RecordUsage,
		Fields: []FieldSpec{
			{Name: "item", Aliases: []string{"Item", "item"}},
			{Name: "warehouse", Aliases: []string{"WH", "wh", "Warehouse"}},
			{Name: "monthlyAvg", Aliases: []string{"MO Avg", "monthlyAvg"}},
			{Name: "min", Aliases: []string{"Min", "min"}},
			{Name: "max", Aliases: []string{"Max", "max"}},
		},
		Required:    []string{"item", "monthlyAvg"},
		Optional:    []string{"warehouse", "min", "max"},
		MinOptional: 1,
	},
	{
		Type: domain.RecordItems,
		Fields: []FieldSpec{
			{Name: "item", Aliases: []string{"Item", "item"}},
			{Name: "description", Aliases: []string{"Description", "description"}},
			{Name: "unitCost", Aliases: []string{"Unit Loaded Cost", "Avg Cost", "unitCost"}},
			{Name: "primaryVendor", Aliases: []string{"Primary Vendor", "primaryVendor"}},
			{Name: "category", Aliases: []string{"Categories", "Item Category", "category"}},
			{Name: "rpl", Aliases: []string{"RPL", "rpl"}},
			{Name: "vendorCode", Aliases: []string{"Vendor Code", "vendorCode"}},
		},
		Required:    []string{"item"},
		Optional:    []string{"unitCost", "primaryVendor", "category", "rpl", "vendorCode"},
		MinOptional: 2,
	},
	{
		Type: domain.RecordPO,
		Fields: []FieldSpec{
			{Name: "poNumber", Aliases: []string{"PO", "PO Number", "poNumber"}},
			{Name: "item", Aliases: []string{"Item", "item"}},
			{Name: "vendor", Aliases: []string{"Vendor", "vendor"}},
			{Name: "status", Aliases: []string{"Status", "status"}},
			{Name: "quantity", Aliases: []string{"Qty", "Quantity", "quantity"}},
			{Name: "dueDate", Aliases: []string{"Due Date", "dueDate"}},
		},
		Required:    []string{"poNumber", "item"},
		Optional:    []string{"vendor", "status", "quantity", "dueDate"},
		MinOptional: 1,
	},
	{
		Type: domain.RecordSales,
		Fields: []FieldSpec{
			{Name: "orderNumber", Aliases: []string{"SO", "Order", "orderNumber"}},
			{Name: "item", Aliases: []string{"Item", "item"}},
			{Name: "customer", Aliases: []string{"Customer", "customer"}},
			{Name: "quantity", Aliases: []string{"Qty", "Quantity", "quantity"}},
			{Name: "status", Aliases: []string{"Status", "status"}},
		},
		Required:    []string{"orderNumber", "item"},
		Optional:    []string{"customer", "quantity", "status"},
		MinOptional: 1,
	},
	{
		Type: domain.RecordVendors,
		Fields: []FieldSpec{
			{Name: "code", Aliases: []string{"Vendor Code", "Code", "code"}},
			{Name: "name", Aliases: []string{"Vendor", "Name", "name"}},
			{Name: "terms", Aliases: []string{"Terms", "terms"}},
		},
		Required:    []string{"code", "name"},
		Optional:    []string{"terms"},
		MinOptional: 0,
	},
}

// RequiredIdentityFields lists the fields a row must carry to survive
// validation; downstream joins key on these, so blanks are never admitted.
var RequiredIdentityFields = map[domain.RecordType][]string{
	domain.RecordLot:   {"item", "warehouse"},
	domain.RecordItems: {"item"},
	domain.RecordUsage: {"item", "warehouse"},
}

// SchemaFor returns the schema for a record type.
func SchemaFor(t domain.RecordType) (Schema, bool) {
	for _, s := range Schemas {
		if s.Type == t {
			return s, true
		}
	}
	return Schema{}, false
}
