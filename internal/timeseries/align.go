package timeseries

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/trajectory-dev/trajectory/internal/filing"
	"github.com/trajectory-dev/trajectory/internal/model"
)

// Align folds deduplicated filings of one or more entities into period rows
// holding one metric value per entity, ordered by sort timestamp with the raw
// report label as tie-break. Filings whose period cannot be resolved are
// skipped and counted in the second return value.
//
// Rows are keyed by period key and coverage end together, so a special
// pre-election filing and the routine quarterly report of the same quarter
// stay separate rows. The first filing to create a row fixes its labels.
// Input is expected to be deduplicated; should an entity still have two
// filings for one row, the first one's value is kept.
func Align(recs []model.FilingRecord, metric model.Metric) ([]model.SeriesRow, int) {
	index := make(map[string]int)
	var rows []model.SeriesRow
	unresolvable := 0

	for _, rec := range recs {
		p, ok := filing.Resolve(rec)
		if !ok {
			unresolvable++
			continue
		}
		key := p.PeriodKey + "|" + p.CoverageEnd
		i, seen := index[key]
		if !seen {
			i = len(rows)
			index[key] = i
			rows = append(rows, model.SeriesRow{
				PeriodKey:     p.PeriodKey,
				DisplayLabel:  p.DisplayLabel,
				SortTimestamp: p.SortTimestamp,
				RawSortKey:    p.RawSortKey,
				Values:        make(map[model.EntityRef]decimal.Decimal),
			})
		}
		if _, dup := rows[i].Values[rec.Entity]; !dup {
			rows[i].Values[rec.Entity] = metric.Value(rec)
		}
	}

	slices.SortStableFunc(rows, compareRows)
	return rows, unresolvable
}

func compareRows(a, b model.SeriesRow) int {
	if c := a.SortTimestamp.Compare(b.SortTimestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.RawSortKey, b.RawSortKey)
}
