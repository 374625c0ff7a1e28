package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FilingRecord is one disclosure report for one entity. The same period may
// appear several times when a filing was amended.
type FilingRecord struct {
	Entity        EntityRef
	ReportLabel   string // free text: "Q3 2025", "PRE-GENERAL Q4 2022.10.19", "12G"
	CoverageEnd   string // optional date string; empty when absent
	Receipts      decimal.Decimal
	Disbursements decimal.Decimal
	CashBeginning decimal.Decimal
	CashEnding    decimal.Decimal
}

// Metric selects which amount of a filing is charted.
type Metric string

const (
	MetricReceipts      Metric = "receipts"
	MetricDisbursements Metric = "disbursements"
	MetricCashEnding    Metric = "cashEnding"
)

// ParseMetric accepts the metric names case-insensitively, plus the
// snake_case spelling "cash_ending".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "receipts":
		return MetricReceipts, nil
	case "disbursements":
		return MetricDisbursements, nil
	case "cashending", "cash_ending":
		return MetricCashEnding, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Value extracts the metric from a filing.
func (m Metric) Value(rec FilingRecord) decimal.Decimal {
	switch m {
	case MetricDisbursements:
		return rec.Disbursements
	case MetricCashEnding:
		return rec.CashEnding
	default:
		return rec.Receipts
	}
}

// ResolvedPeriod is the canonical placement of a filing on the time axis.
type ResolvedPeriod struct {
	PeriodKey     string    // canonical quarter, "Q3 2025"
	DisplayLabel  string    // cleaned report label for presentation
	SortTimestamp time.Time // coverage end, used for ordering only
	RawSortKey    string    // original report label, tie-break
	CoverageEnd   string    // resolved coverage end, YYYY-MM-DD
}
