package recon

import (
	"strings"

	"github.com/boltline/purchasing-dash/internal/domain"
)

// FilterValid drops rows missing any of the record type's identity fields.
// Downstream joins key on these fields, so a row with a blank warehouse must
// never reach the reconciler: it would silently land in a group keyed on an
// empty segment. Record types with no identity requirement pass through.
func FilterValid(recordType domain.RecordType, rows []domain.RawRow) []domain.RawRow {
	required, ok := RequiredIdentityFields[recordType]
	if !ok || len(required) == 0 {
		return rows
	}

	valid := make([]domain.RawRow, 0, len(rows))
	for _, row := range rows {
		if hasRequiredFields(row, required) {
			valid = append(valid, row)
		}
	}
	return valid
}

func hasRequiredFields(row domain.RawRow, required []string) bool {
	for _, f := range required {
		if strings.TrimSpace(row[f]) == "" {
			return false
		}
	}
	return true
}
