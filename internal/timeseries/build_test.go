package timeseries

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trajectory-dev/trajectory/internal/filing"
	"github.com/trajectory-dev/trajectory/internal/model"
	"github.com/trajectory-dev/trajectory/internal/quarter"
)

func TestBuild_EmptyInput(t *testing.T) {
	series := Build(nil, []model.EntityRef{c1}, model.MetricReceipts)
	assert.NotNil(t, series.Rows)
	assert.NotNil(t, series.Ticks)
	assert.Empty(t, series.Rows)
	assert.Empty(t, series.Ticks)
}

func TestBuild_NoEntities(t *testing.T) {
	recs := []model.FilingRecord{filed(c1, "Q1 2024", "", "10")}
	series := Build(recs, nil, model.MetricReceipts)
	assert.Empty(t, series.Rows)
	assert.Empty(t, series.Ticks)
	assert.Equal(t, 1, series.Stats.Unselected)
}

func TestBuild_AmendmentCollapsed(t *testing.T) {
	recs := []model.FilingRecord{
		filed(c1, "12G", "2022-10-19", "1000"),
		filed(c1, "PRE-GENERAL", "2022-10-19", "1000"),
	}
	series := Build(recs, []model.EntityRef{c1}, model.MetricReceipts)
	require.Len(t, series.Rows, 1)
	assert.Equal(t, "PRE-GENERAL", series.Rows[0].DisplayLabel)
	assert.Equal(t, 1, series.Stats.Duplicates)
}

func TestBuild_DateAndLabelDatedFilingsCollapse(t *testing.T) {
	recs := []model.FilingRecord{
		filed(c1, "PRE-GENERAL Q4 2022", "2022-10-19", "900"),
		filed(c1, "12G 2022.10.19", "", "1000"),
		filed(c1, "Q3 2025", "2025-09-30", "5"),
		filed(c1, "Q3 2025", "", "7"),
	}

	series := Build(recs, []model.EntityRef{c1}, model.MetricReceipts)
	require.Len(t, series.Rows, 2)
	assert.Equal(t, "PRE-GENERAL Q4 2022", series.Rows[0].DisplayLabel)
	assert.Equal(t, map[model.EntityRef]string{c1: "900"}, stringValues(series.Rows[0]))
	assert.Equal(t, map[model.EntityRef]string{c1: "5"}, stringValues(series.Rows[1]))
	assert.Equal(t, 2, series.Stats.Duplicates)
}

func TestBuild_NonDateCoverageEndKeepsQuarters(t *testing.T) {
	recs := []model.FilingRecord{
		filed(c1, "Q1 2024", "N/A", "10"),
		filed(c1, "Q2 2024", "N/A", "20"),
	}

	series := Build(recs, []model.EntityRef{c1}, model.MetricReceipts)
	require.Len(t, series.Rows, 2)
	assert.Equal(t, "Q1 2024", series.Rows[0].PeriodKey)
	assert.Equal(t, "Q2 2024", series.Rows[1].PeriodKey)
	assert.Zero(t, series.Stats.Duplicates)
}

func TestBuild_TrimsToEarliestStart(t *testing.T) {
	var recs []model.FilingRecord
	for i, key := range []string{"Q3 2022", "Q4 2022", "Q1 2023", "Q2 2023", "Q3 2023", "Q4 2023"} {
		v1, v2 := "0", "0"
		if i >= 2 {
			v1 = "100"
		}
		if i >= 4 {
			v2 = "50"
		}
		recs = append(recs, filed(c1, key, "", v1), filed(c2, key, "", v2))
	}

	series := Build(recs, []model.EntityRef{c1, c2}, model.MetricReceipts)
	require.Len(t, series.Rows, 4)
	assert.Equal(t, "Q1 2023", series.Rows[0].PeriodKey)
	assert.Equal(t, 2, series.Stats.Trimmed)
	assert.Equal(t, []string{"Q1 2023", "Q2 2023", "Q3 2023", "Q4 2023"}, labels(series.Ticks))
}

func TestBuild_SixteenQuartersThinnedTicks(t *testing.T) {
	var recs []model.FilingRecord
	for i := 0; i < 16; i++ {
		recs = append(recs, filed(c1, quarter.Format(2020+i/4, i%4+1), "", "10"))
	}
	series := Build(recs, []model.EntityRef{c1}, model.MetricReceipts)
	assert.Len(t, series.Rows, 16)
	assert.Len(t, series.Ticks, 8)
}

func TestBuild_IgnoresUnselectedEntities(t *testing.T) {
	recs := []model.FilingRecord{
		filed(c1, "Q1 2024", "", "10"),
		filed(c2, "Q4 2023", "", "99"),
		filed(p1, "Q1 2024", "", "5"),
	}
	series := Build(recs, []model.EntityRef{c1}, model.MetricReceipts)
	require.Len(t, series.Rows, 1)
	assert.Equal(t, map[model.EntityRef]string{c1: "10"}, stringValues(series.Rows[0]))
	assert.Equal(t, 2, series.Stats.Unselected)
}

func TestBuild_Stats(t *testing.T) {
	recs := []model.FilingRecord{
		filed(c1, "Q1 2023", "", "0"),
		filed(c1, "Q2 2023", "", "10"),
		filed(c1, "Q2 2023", "", "10"),
		filed(c1, "TERMINATION", "", "0"),
		{Entity: c1},
		filed(c2, "Q2 2023", "", "1"),
	}
	series := Build(recs, []model.EntityRef{c1}, model.MetricReceipts)
	assert.Equal(t, model.Stats{
		Input:        6,
		Unselected:   1,
		Unkeyed:      1,
		Duplicates:   1,
		Unresolvable: 1,
		Trimmed:      1,
	}, series.Stats)
}

func TestBuilder_ZeroOptionsUseDefaults(t *testing.T) {
	b := NewBuilder(Options{})
	assert.Equal(t, DefaultOptions(), b.opts)
}

func TestBuilder_ConcurrentUse(t *testing.T) {
	b := NewBuilder(DefaultOptions())
	recs := randomRecords(rand.New(rand.NewSource(7)), 200)
	want := b.Build(recs, allRefs, model.MetricReceipts)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := b.Build(recs, allRefs, model.MetricReceipts)
			assert.Equal(t, len(want.Rows), len(got.Rows))
		}()
	}
	wg.Wait()
}

var allRefs = []model.EntityRef{c1, c2, p1}

var noiseLabels = []string{"12G", "PRE-GENERAL", "30G", "POST-GENERAL", "TERMINATION", "YE"}

// randomRecords produces a filing history with amendments, special
// filings, unresolvable reports, leading zero periods and periods dated both
// by coverage end and by label.
func randomRecords(rng *rand.Rand, n int) []model.FilingRecord {
	recs := make([]model.FilingRecord, 0, n)
	for i := 0; i < n; i++ {
		e := allRefs[rng.Intn(len(allRefs))]
		year := 2018 + rng.Intn(6)
		q := 1 + rng.Intn(4)
		amount := "0"
		if year > 2019 || rng.Intn(3) == 0 {
			amount = fmt.Sprintf("%d.%02d", rng.Intn(100000), rng.Intn(100))
		}
		var rec model.FilingRecord
		switch rng.Intn(6) {
		case 0:
			rec = filed(e, quarter.Format(year, q), "", amount)
		case 1:
			end := quarter.Quarter{Year: year, Q: q}.End().AddDate(0, 0, -rng.Intn(60))
			rec = filed(e, noiseLabels[rng.Intn(len(noiseLabels))], end.Format("2006-01-02"), amount)
		case 2:
			end := quarter.Quarter{Year: year, Q: q}.End().AddDate(0, 0, -rng.Intn(60))
			rec = filed(e, "PRE-GENERAL "+quarter.Format(year, q)+" "+end.Format("2006.01.02"), "", amount)
		case 3:
			rec = filed(e, noiseLabels[rng.Intn(len(noiseLabels))], "", amount)
		case 4:
			// Same day, once as a coverage end and once inside the label.
			end := quarter.Quarter{Year: year, Q: q}.End().AddDate(0, 0, -rng.Intn(60))
			other := fmt.Sprintf("%d", rng.Intn(1000))
			pair := []model.FilingRecord{
				filed(e, noiseLabels[rng.Intn(len(noiseLabels))], end.Format("2006-01-02"), amount),
				filed(e, "12G "+end.Format("2006.01.02"), "", other),
			}
			rng.Shuffle(len(pair), func(i, j int) { pair[i], pair[j] = pair[j], pair[i] })
			recs = append(recs, pair[0])
			rec = pair[1]
		default:
			// A quarter label with and without its quarter-end date.
			label := quarter.Format(year, q)
			end := quarter.Quarter{Year: year, Q: q}.End().Format("2006-01-02")
			recs = append(recs, filed(e, label, end, amount))
			rec = filed(e, label, "", fmt.Sprintf("%d", rng.Intn(1000)))
		}
		recs = append(recs, rec)
	}
	return recs
}

func stringValues(r model.SeriesRow) map[model.EntityRef]string {
	out := make(map[model.EntityRef]string, len(r.Values))
	for e, v := range r.Values {
		out[e] = v.String()
	}
	return out
}

func TestBuild_Properties(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		recs := randomRecords(rng, 20+rng.Intn(120))

		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			series := Build(recs, allRefs, model.MetricReceipts)
			rows := series.Rows

			// Rows stay in chronological order.
			for i := 1; i < len(rows); i++ {
				a, b := rows[i-1], rows[i]
				require.False(t, b.SortTimestamp.Before(a.SortTimestamp), "row %d out of order", i)
				if a.SortTimestamp.Equal(b.SortTimestamp) {
					require.LessOrEqual(t, a.RawSortKey, b.RawSortKey)
				}
			}

			// No synthesized zeros: every value is backed by a deduplicated filing.
			deduped, _ := filing.Deduplicate(recs)
			backed := make(map[string]bool)
			for _, rec := range deduped {
				if p, ok := filing.Resolve(rec); ok {
					backed[rec.Entity.String()+"|"+p.PeriodKey+"|"+p.CoverageEnd] = true
				}
			}
			for _, r := range rows {
				for e := range r.Values {
					end := r.SortTimestamp.Format("2006-01-02")
					assert.True(t, backed[e.String()+"|"+r.PeriodKey+"|"+end], "%s has no filing for %s", e, r.PeriodKey)
				}
			}

			// Each value comes from the filing the amendment rule picks for that
			// entity and period: the first descriptive one, else the first one.
			winners := make(map[string]model.FilingRecord)
			for _, rec := range recs {
				p, ok := filing.Resolve(rec)
				if !ok {
					continue
				}
				k := rec.Entity.String() + "|" + p.PeriodKey + "|" + p.CoverageEnd
				w, seen := winners[k]
				if !seen || (filing.IsDescriptive(rec.ReportLabel) && !filing.IsDescriptive(w.ReportLabel)) {
					winners[k] = rec
				}
			}
			for _, r := range rows {
				for e, v := range r.Values {
					w := winners[e.String()+"|"+r.PeriodKey+"|"+r.SortTimestamp.Format("2006-01-02")]
					assert.True(t, w.Receipts.Equal(v), "%s %s: got %s, want %s from %q", e, r.PeriodKey, v, w.Receipts, w.ReportLabel)
				}
			}

			// Gap-trim boundary.
			untrimmed, _ := Align(deduped, model.MetricReceipts)
			k := series.Stats.Trimmed
			for _, r := range untrimmed[:k] {
				for _, v := range r.Values {
					assert.False(t, v.IsPositive(), "trimmed row %s had activity", r.PeriodKey)
				}
			}
			if len(rows) > 0 && k > 0 {
				assert.True(t, active(rows[0], allRefs))
			}

			// Tick thinning threshold.
			distinct := make(map[string]bool)
			for _, r := range rows {
				distinct[r.PeriodKey] = true
			}
			if len(distinct) > DefaultTickThreshold {
				for _, tick := range series.Ticks {
					q, err := quarter.Parse(tick.Label)
					require.NoError(t, err)
					assert.Contains(t, []int{1, 3}, q.Q)
				}
			} else {
				assert.Len(t, series.Ticks, len(distinct))
			}

			// Dedup idempotence.
			again, _ := filing.Deduplicate(deduped)
			assert.Equal(t, deduped, again)
		})
	}
}
