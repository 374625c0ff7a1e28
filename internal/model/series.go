package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeriesRow holds one metric value per entity for a single period. An entity
// missing from Values did not file for the period and must render as a gap.
type SeriesRow struct {
	PeriodKey     string                        `json:"periodKey"`
	DisplayLabel  string                        `json:"displayLabel"`
	SortTimestamp time.Time                     `json:"sortTimestamp"`
	RawSortKey    string                        `json:"rawSortKey"`
	Values        map[EntityRef]decimal.Decimal `json:"values"`
}

// Tick is an axis label placed on a fixed end-of-quarter grid position.
type Tick struct {
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats counts what the pipeline discarded along the way.
type Stats struct {
	Input        int `json:"input"`
	Unselected   int `json:"unselected"`   // records for entities outside the selection
	Unkeyed      int `json:"unkeyed"`      // records with no usable dedup key
	Duplicates   int `json:"duplicates"`   // records collapsed into another filing
	Unresolvable int `json:"unresolvable"` // records with no usable date
	Trimmed      int `json:"trimmed"`      // leading all-empty rows dropped
}

// Series is the ready-to-render result of the pipeline.
type Series struct {
	Rows  []SeriesRow `json:"rows"`
	Ticks []Tick      `json:"ticks"`
	Stats Stats       `json:"stats"`
}
