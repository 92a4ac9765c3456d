package recon

import "github.com/boltline/purchasing-dash/internal/domain"

// The To*Records converters turn mapped rows into typed records, applying the
// zero-fallback numeric normalization to every quantity field.

func ToLotRecords(rows []domain.RawRow) []domain.LotRecord {
	out := make([]domain.LotRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.LotRecord{
			Item:        r["item"],
			Warehouse:   r["warehouse"],
			Location:    r["location"],
			OnHand:      ParseQuantity(r["onHand"]),
			Committed:   ParseQuantity(r["committed"]),
			Available:   ParseQuantity(r["available"]),
			Description: r["description"],
			Vendor:      r["vendor"],
		})
	}
	return out
}

func ToItemRecords(rows []domain.RawRow) []domain.ItemRecord {
	out := make([]domain.ItemRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ItemRecord{
			Item:          r["item"],
			Description:   r["description"],
			UnitCost:      ParseQuantity(r["unitCost"]),
			PrimaryVendor: r["primaryVendor"],
			Category:      r["category"],
			RPL:           r["rpl"],
			VendorCode:    r["vendorCode"],
		})
	}
	return out
}

func ToUsageRecords(rows []domain.RawRow) []domain.UsageRecord {
	out := make([]domain.UsageRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.UsageRecord{
			Item:       r["item"],
			Warehouse:  r["warehouse"],
			MonthlyAvg: ParseQuantity(r["monthlyAvg"]),
			Min:        ParseQuantity(r["min"]),
			Max:        ParseQuantity(r["max"]),
		})
	}
	return out
}

func ToPORecords(rows []domain.RawRow) []domain.PORecord {
	out := make([]domain.PORecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PORecord{
			PONumber: r["poNumber"],
			Item:     r["item"],
			Vendor:   r["vendor"],
			Status:   r["status"],
			Quantity: ParseQuantity(r["quantity"]),
			DueDate:  r["dueDate"],
		})
	}
	return out
}

func ToSalesRecords(rows []domain.RawRow) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SalesRecord{
			OrderNumber: r["orderNumber"],
			Item:        r["item"],
			Customer:    r["customer"],
			Quantity:    ParseQuantity(r["quantity"]),
			Status:      r["status"],
		})
	}
	return out
}

func ToVendorRecords(rows []domain.RawRow) []domain.VendorRecord {
	out := make([]domain.VendorRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.VendorRecord{
			Code:  r["code"],
			Name:  r["name"],
			Terms: r["terms"],
		})
	}
	return out
}
