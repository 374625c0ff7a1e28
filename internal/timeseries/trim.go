package timeseries

import "github.com/trajectory-dev/trajectory/internal/model"

// Trim drops the leading rows in which no selected entity has a value above
// zero, so a chart opens at the first period of real activity. A series with
// no activity at all is returned unchanged. The second return value is the
// number of rows dropped.
func Trim(rows []model.SeriesRow, entities []model.EntityRef) ([]model.SeriesRow, int) {
	for i, row := range rows {
		if active(row, entities) {
			return rows[i:], i
		}
	}
	return rows, 0
}

func active(row model.SeriesRow, entities []model.EntityRef) bool {
	for _, e := range entities {
		if v, ok := row.Values[e]; ok && v.IsPositive() {
			return true
		}
	}
	return false
}
