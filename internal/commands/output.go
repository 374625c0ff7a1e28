package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/trajectory-dev/trajectory/internal/entities"
	"github.com/trajectory-dev/trajectory/internal/model"
)

type chartView struct {
	Metric   model.Metric
	Entities []model.EntityRef
	Catalog  *entities.Service
	Series   model.Series
}

type renderer func(w io.Writer, v chartView) error

type entityJSON struct {
	Ref  model.EntityRef `json:"ref"`
	Name string          `json:"name"`
}

type chartJSON struct {
	Metric   model.Metric      `json:"metric"`
	Entities []entityJSON      `json:"entities"`
	Rows     []model.SeriesRow `json:"rows"`
	Ticks    []model.Tick      `json:"ticks"`
	Stats    model.Stats       `json:"stats"`
}

func writeJSON(w io.Writer, v chartView) error {
	out := chartJSON{
		Metric:   v.Metric,
		Entities: make([]entityJSON, 0, len(v.Entities)),
		Rows:     v.Series.Rows,
		Ticks:    v.Series.Ticks,
		Stats:    v.Series.Stats,
	}
	for _, ref := range v.Entities {
		out.Entities = append(out.Entities, entityJSON{Ref: ref, Name: v.Catalog.Name(ref)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding series: %w", err)
	}
	return nil
}

// writeTable prints one line per period with a column per entity. Periods an
// entity did not file for are left blank.
func writeTable(w io.Writer, v chartView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"PERIOD", "LABEL"}
	for _, ref := range v.Entities {
		header = append(header, v.Catalog.Name(ref))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, row := range v.Series.Rows {
		cells := []string{row.PeriodKey, row.DisplayLabel}
		for _, ref := range v.Entities {
			cell := ""
			if val, ok := row.Values[ref]; ok {
				cell = formatAmount(val)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	labels := make([]string, len(v.Series.Ticks))
	for i, t := range v.Series.Ticks {
		labels[i] = t.Label
	}
	_, err := fmt.Fprintf(w, "\n%s by quarter; ticks: %s\n", v.Metric, strings.Join(labels, ", "))
	return err
}

// formatAmount renders d to the cent with thousands separators, without
// going through float64.
func formatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	whole, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return d.StringFixed(2)
	}
	s := humanize.BigComma(n) + "." + cents
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}
