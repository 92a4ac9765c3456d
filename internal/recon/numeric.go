package recon

import (
	"strconv"
	"strings"
)

// ParseQuantity converts a locale-formatted numeric cell into a float64.
// Empty cells and anything that fails to parse become 0 so that a handful of
// malformed cells in an ERP export never aborts reconciliation of the file.
func ParseQuantity(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
