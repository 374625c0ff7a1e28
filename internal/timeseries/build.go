// Package timeseries turns raw filing histories into chart-ready series.
//
// The pipeline runs in a fixed order: select the requested entities,
// deduplicate amendments per entity, resolve each filing to a quarter,
// align entities onto shared period rows, trim leading empty periods and
// derive axis ticks. Every stage is a pure function of its input, so a
// Builder may be shared between goroutines.
package timeseries

import (
	"github.com/trajectory-dev/trajectory/internal/filing"
	"github.com/trajectory-dev/trajectory/internal/model"
)

// DefaultTickThreshold is the number of distinct quarters above which ticks
// are thinned.
const DefaultTickThreshold = 12

// Options tunes tick generation.
type Options struct {
	TickThreshold int   // thin when more distinct quarters than this
	ThinQuarters  []int // quarters kept after thinning
}

// DefaultOptions returns a threshold of 12 quarters, thinned to Q1 and Q3.
func DefaultOptions() Options {
	return Options{
		TickThreshold: DefaultTickThreshold,
		ThinQuarters:  []int{1, 3},
	}
}

// Builder runs the pipeline with fixed options.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder. Zero-valued options fall back to the defaults.
func NewBuilder(opts Options) *Builder {
	def := DefaultOptions()
	if opts.TickThreshold <= 0 {
		opts.TickThreshold = def.TickThreshold
	}
	if len(opts.ThinQuarters) == 0 {
		opts.ThinQuarters = def.ThinQuarters
	}
	return &Builder{opts: opts}
}

// Build charts metric for the selected entities. Records of other entities
// are ignored. An empty record list or selection yields empty rows and ticks.
func (b *Builder) Build(recs []model.FilingRecord, entities []model.EntityRef, metric model.Metric) model.Series {
	stats := model.Stats{Input: len(recs)}
	empty := model.Series{Rows: []model.SeriesRow{}, Ticks: []model.Tick{}, Stats: stats}
	if len(recs) == 0 || len(entities) == 0 {
		empty.Stats.Unselected = len(recs)
		return empty
	}

	selected := make(map[model.EntityRef]bool, len(entities))
	for _, e := range entities {
		selected[e] = true
	}
	var inScope []model.FilingRecord
	for _, rec := range recs {
		if selected[rec.Entity] {
			inScope = append(inScope, rec)
		}
	}
	stats.Unselected = len(recs) - len(inScope)

	deduped, unkeyed := filing.Deduplicate(inScope)
	stats.Unkeyed = unkeyed
	stats.Duplicates = len(inScope) - unkeyed - len(deduped)

	rows, unresolvable := Align(deduped, metric)
	stats.Unresolvable = unresolvable

	rows, trimmed := Trim(rows, entities)
	stats.Trimmed = trimmed

	if rows == nil {
		rows = []model.SeriesRow{}
	}
	return model.Series{
		Rows:  rows,
		Ticks: Ticks(rows, b.opts),
		Stats: stats,
	}
}

// Build runs the pipeline with DefaultOptions.
func Build(recs []model.FilingRecord, entities []model.EntityRef, metric model.Metric) model.Series {
	return NewBuilder(DefaultOptions()).Build(recs, entities, metric)
}
