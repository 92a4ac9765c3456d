package recon

import (
	"regexp"
	"strings"

	"github.com/boltline/purchasing-dash/internal/domain"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

// normalizeColumnName collapses the header spelling variants ERP exports
// produce ("On Hand", "on_hand", "ON HAND") into one comparable key.
func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// floatRenderedID matches integer ids that picked up a fractional tail on the
// way through a spreadsheet cell, e.g. "100100.0".
var floatRenderedID = regexp.MustCompile(`^(\d+)\.0+$`)

// CanonicalItemID coerces an item id to its canonical string form. Part
// numbers must compare by exact string equality across sources, so the id is
// never parsed as a number: leading zeros survive, and only a spreadsheet
// float-rendering artifact (".0" tail on an all-digit id) is stripped.
func CanonicalItemID(v string) string {
	v = strings.TrimSpace(v)
	if m := floatRenderedID.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}

// headerIndex resolves a normalized column name to the exact header key used
// in the parsed rows.
type headerIndex map[string]string

func newHeaderIndex(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for _, h := range headers {
		key := normalizeColumnName(h)
		if _, ok := idx[key]; !ok {
			idx[key] = h
		}
	}
	return idx
}

// resolve returns the header key for the first alias present in the file,
// honoring alias declaration order.
func (idx headerIndex) resolve(aliases []string) (string, bool) {
	for _, alias := range aliases {
		if h, ok := idx[normalizeColumnName(alias)]; ok {
			return h, true
		}
	}
	return "", false
}

// MapRows normalizes raw parsed rows into the schema's logical field set.
// Every logical field is present in the output; fields whose aliases do not
// appear in the header map to "". The item field, when present, is coerced to
// its canonical string form.
func MapRows(headers []string, rows []map[string]string, schema Schema) []domain.RawRow {
	idx := newHeaderIndex(headers)

	// Resolve each logical field to a concrete header once per table.
	resolved := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		if h, ok := idx.resolve(f.Aliases); ok {
			resolved[f.Name] = h
		}
	}

	out := make([]domain.RawRow, 0, len(rows))
	for _, row := range rows {
		mapped := make(domain.RawRow, len(schema.Fields))
		for _, f := range schema.Fields {
			h, ok := resolved[f.Name]
			if !ok {
				mapped[f.Name] = ""
				continue
			}
			mapped[f.Name] = row[h]
		}
		if v, ok := mapped["item"]; ok {
			mapped["item"] = CanonicalItemID(v)
		}
		out = append(out, mapped)
	}
	return out
}
