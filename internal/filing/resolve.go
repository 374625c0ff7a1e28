package filing

import (
	"regexp"
	"strings"
	"time"

	"github.com/trajectory-dev/trajectory/internal/model"
	"github.com/trajectory-dev/trajectory/internal/quarter"
)

const dateFormat = "2006-01-02"

// coverageLayouts are the accepted spellings of a coverage end date.
var coverageLayouts = []string{
	dateFormat,
	"2006-1-2",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// embeddedDate matches the YYYY.MM.DD dates some report labels carry,
// e.g. "PRE-GENERAL Q4 2022.10.19".
var embeddedDate = regexp.MustCompile(`\b(\d{4})\.(\d{2})\.(\d{2})\b`)

var spaces = regexp.MustCompile(`\s+`)

// Resolve places a filing on the quarter axis. It tries, in order, the
// coverage end date, a YYYY.MM.DD date embedded in the report label, and a
// "Q<n> <year>" label (synthesizing the quarter end as coverage end). It
// returns false when none of these yield a date.
func Resolve(rec model.FilingRecord) (model.ResolvedPeriod, bool) {
	end, ok := coverageEnd(rec)
	if !ok {
		return model.ResolvedPeriod{}, false
	}
	key := quarter.FromDate(end).String()
	return model.ResolvedPeriod{
		PeriodKey:     key,
		DisplayLabel:  displayLabel(rec.ReportLabel, key),
		SortTimestamp: end,
		RawSortKey:    rec.ReportLabel,
		CoverageEnd:   end.Format(dateFormat),
	}, true
}

func coverageEnd(rec model.FilingRecord) (time.Time, bool) {
	if t, ok := parseDate(rec.CoverageEnd); ok {
		return t, true
	}
	for _, m := range embeddedDate.FindAllString(rec.ReportLabel, -1) {
		if t, err := time.Parse("2006.01.02", m); err == nil {
			return t, true
		}
	}
	if q, ok := quarter.Find(rec.ReportLabel); ok {
		return q.End(), true
	}
	return time.Time{}, false
}

// parseDate reads a coverage end in any accepted layout, truncated to the
// calendar day in UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range coverageLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// displayLabel strips embedded dates from a report label. Labels that are
// empty afterwards fall back to the period key.
func displayLabel(label, periodKey string) string {
	s := embeddedDate.ReplaceAllString(label, " ")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	if s == "" {
		return periodKey
	}
	return s
}
