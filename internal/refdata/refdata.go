// Package refdata holds the static purchasing reference tables: vendor-code
// lead times and the vendor contact directory. Both are treated as immutable
// configuration and injected into the components that consume them.
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultKey is the required fallback entry in the lead-time table.
const DefaultKey = "DEFAULT"

// DefaultLeadTimeDays applies when a vendor code is missing or unmapped and
// the loaded table carries no DEFAULT entry of its own.
const DefaultLeadTimeDays = 14

// VendorDetail is one vendor directory entry.
type VendorDetail struct {
	Name        string   `json:"name"`
	Contacts    []string `json:"contacts,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	FreightGoal string   `json:"freight_goal,omitempty"`
}

// Tables bundles the reference data the reconciler and vendor endpoints use.
type Tables struct {
	LeadTimes map[string]float64      `json:"lead_times"` // vendor code -> days
	Vendors   map[string]VendorDetail `json:"vendors"`    // vendor code -> detail
}

// Default returns the built-in reference tables, used when no override files
// are configured.
func Default() Tables {
	return Tables{
		LeadTimes: map[string]float64{
			DefaultKey: DefaultLeadTimeDays,
			"BRI":      21,
			"FAS":      10,
			"LIN":      28,
			"NUC":      14,
			"STE":      35,
		},
		Vendors: map[string]VendorDetail{
			"BRI": {
				Name:        "Brighton-Best International",
				Contacts:    []string{"orders@brightonbest.example"},
				FreightGoal: "Free freight at $750",
			},
			"FAS": {
				Name:        "Fastenal Wholesale",
				Contacts:    []string{"wholesale@fastenal.example"},
				FreightGoal: "Free freight at $500",
			},
			"LIN": {
				Name:     "Lindstrom Metric",
				Contacts: []string{"sales@lindstrom.example"},
				Notes:    "Metric specials quoted per order",
			},
			"NUC": {
				Name:        "Nucor Fastener",
				Contacts:    []string{"mill@nucor-fastener.example"},
				FreightGoal: "Truckload pricing at 10k lbs",
			},
			"STE": {
				Name:  "Stelfast Inc.",
				Notes: "Import lead times vary by quarter",
			},
		},
	}
}

// Load reads the reference tables from JSON files. An empty path keeps the
// built-in table for that side. A loaded lead-time table must carry a DEFAULT
// entry; refusing to guess here keeps the fallback explicit.
func Load(leadTimesPath, vendorsPath string) (Tables, error) {
	t := Default()

	if leadTimesPath != "" {
		leadTimes := make(map[string]float64)
		if err := readJSON(leadTimesPath, &leadTimes); err != nil {
			return Tables{}, fmt.Errorf("load lead times: %w", err)
		}
		if _, ok := leadTimes[DefaultKey]; !ok {
			return Tables{}, fmt.Errorf("lead time table %s is missing the %s entry", leadTimesPath, DefaultKey)
		}
		t.LeadTimes = leadTimes
	}

	if vendorsPath != "" {
		vendors := make(map[string]VendorDetail)
		if err := readJSON(vendorsPath, &vendors); err != nil {
			return Tables{}, fmt.Errorf("load vendor directory: %w", err)
		}
		t.Vendors = vendors
	}

	return t, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LeadTimeFor resolves a vendor code to lead-time days, falling back to the
// DEFAULT entry for a missing or unmapped code.
func (t Tables) LeadTimeFor(vendorCode string) float64 {
	if vendorCode != "" {
		if days, ok := t.LeadTimes[vendorCode]; ok {
			return days
		}
	}
	if days, ok := t.LeadTimes[DefaultKey]; ok {
		return days
	}
	return DefaultLeadTimeDays
}

// NameToCode builds the reverse vendor index (normalized name -> code) used
// to recover a vendor code when the item master lacks one but a lot line
// carries a human-readable vendor name. Built once per reconciliation call.
func (t Tables) NameToCode() map[string]string {
	idx := make(map[string]string, len(t.Vendors))
	for code, v := range t.Vendors {
		key := NormalizeVendorName(v.Name)
		if key == "" {
			continue
		}
		idx[key] = code
	}
	return idx
}

// NormalizeVendorName normalizes a vendor name so directory entries and lot
// line spellings join reliably.
func NormalizeVendorName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
