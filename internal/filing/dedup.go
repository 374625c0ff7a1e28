package filing

import (
	"strings"

	"github.com/trajectory-dev/trajectory/internal/model"
)

// dedupKey identifies one reporting period of one entity.
type dedupKey struct {
	entity   model.EntityRef
	resolved bool
	value    string
}

// IsDescriptive reports whether a report label is a spelled-out report type
// such as "PRE-GENERAL" rather than a terse code such as "12G".
func IsDescriptive(label string) bool {
	return strings.Contains(label, "-")
}

// Deduplicate collapses amendments so that each entity keeps at most one
// record per reporting period. A record's period is its resolved quarter and
// coverage end (see Resolve), so a filing dated by its coverage end and one
// dated only through its label land on the same key when they cover the same
// day. Records that do not resolve are keyed by report label. When two records
// share a key, a descriptive label replaces a terse one; otherwise the first
// record in input order wins. Records with no usable key are dropped and
// counted in the second return value.
//
// Output preserves the order in which keys were first seen.
func Deduplicate(recs []model.FilingRecord) ([]model.FilingRecord, int) {
	kept := make(map[dedupKey]int)
	var out []model.FilingRecord
	unkeyed := 0

	for _, rec := range recs {
		key, ok := keyOf(rec)
		if !ok {
			unkeyed++
			continue
		}
		i, seen := kept[key]
		if !seen {
			kept[key] = len(out)
			out = append(out, rec)
			continue
		}
		if IsDescriptive(rec.ReportLabel) && !IsDescriptive(out[i].ReportLabel) {
			out[i] = rec
		}
	}
	return out, unkeyed
}

func keyOf(rec model.FilingRecord) (dedupKey, bool) {
	if rec.Entity.IsZero() {
		return dedupKey{}, false
	}
	if p, ok := Resolve(rec); ok {
		return dedupKey{entity: rec.Entity, resolved: true, value: p.PeriodKey + "|" + p.CoverageEnd}, true
	}
	// A coverage end that is not a date carries no period; only the label can.
	if label := strings.TrimSpace(rec.ReportLabel); label != "" {
		return dedupKey{entity: rec.Entity, value: label}, true
	}
	return dedupKey{}, false
}
