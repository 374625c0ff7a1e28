package timeseries

import (
	"slices"

	"github.com/trajectory-dev/trajectory/internal/model"
	"github.com/trajectory-dev/trajectory/internal/quarter"
)

// Ticks derives axis labels from the quarters the rows cover: one per distinct
// quarter in chronological order, placed at the quarter's last day. Above
// opts.TickThreshold quarters only those listed in opts.ThinQuarters remain.
func Ticks(rows []model.SeriesRow, opts Options) []model.Tick {
	seen := make(map[quarter.Quarter]bool)
	var quarters []quarter.Quarter
	for _, row := range rows {
		q, ok := quarter.Find(row.PeriodKey)
		if !ok || seen[q] {
			continue
		}
		seen[q] = true
		quarters = append(quarters, q)
	}
	slices.SortFunc(quarters, quarter.Quarter.Compare)

	if len(quarters) > opts.TickThreshold {
		quarters = slices.DeleteFunc(quarters, func(q quarter.Quarter) bool {
			return !slices.Contains(opts.ThinQuarters, q.Q)
		})
	}

	ticks := make([]model.Tick, 0, len(quarters))
	for _, q := range quarters {
		ticks = append(ticks, model.Tick{Label: q.String(), Timestamp: q.End()})
	}
	return ticks
}
