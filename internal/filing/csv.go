package filing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trajectory-dev/trajectory/internal/model"
)

// Header is the CSV header for filing exports.
const Header = "entity_id,entity_kind,report_label,coverage_end,receipts,disbursements,cash_beginning,cash_ending"

const (
	numFields     = 8
	colEntityID   = 0
	colEntityKind = 1
	colLabel      = 2
	colCoverage   = 3
	colReceipts   = 4
	colDisburse   = 5
	colCashBegin  = 6
	colCashEnd    = 7
)

// ReadRecords reads filing records from a CSV reader with a header row.
// Rows without an entity ID are skipped; the second return value counts them.
func ReadRecords(r io.Reader) ([]model.FilingRecord, int, error) {
	cr := csv.NewReader(r)
	// Exports often drop trailing empty amount columns.
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading filings CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, 0, nil
	}

	// Skip header row.
	var recs []model.FilingRecord
	skipped := 0
	for _, row := range records[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			skipped++
			continue
		}
		recs = append(recs, rec)
	}
	return recs, skipped, nil
}

// WriteRecords writes records to a CSV writer (including header).
func WriteRecords(w io.Writer, recs []model.FilingRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a FilingRecord to a CSV row.
func MarshalRecord(rec model.FilingRecord) []string {
	row := make([]string, numFields)
	row[colEntityID] = rec.Entity.ID
	row[colEntityKind] = string(rec.Entity.Kind)
	row[colLabel] = rec.ReportLabel
	row[colCoverage] = rec.CoverageEnd
	row[colReceipts] = rec.Receipts.StringFixed(2)
	row[colDisburse] = rec.Disbursements.StringFixed(2)
	row[colCashBegin] = rec.CashBeginning.StringFixed(2)
	row[colCashEnd] = rec.CashEnding.StringFixed(2)
	return row
}

// UnmarshalRecord converts a CSV row to a FilingRecord. Missing columns are
// treated as empty and empty or malformed amounts default to zero; only a
// missing entity ID is an error.
func UnmarshalRecord(row []string) (model.FilingRecord, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	id := field(colEntityID)
	if id == "" {
		return model.FilingRecord{}, fmt.Errorf("missing entity_id")
	}

	// The kind is informational; an unknown value is kept as written.
	kind, err := model.ParseEntityKind(field(colEntityKind))
	if err != nil {
		kind = model.EntityKind(strings.ToLower(field(colEntityKind)))
	}

	return model.FilingRecord{
		Entity:        model.EntityRef{Kind: kind, ID: id},
		ReportLabel:   field(colLabel),
		CoverageEnd:   field(colCoverage),
		Receipts:      amount(field(colReceipts)),
		Disbursements: amount(field(colDisburse)),
		CashBeginning: amount(field(colCashBegin)),
		CashEnding:    amount(field(colCashEnd)),
	}, nil
}

// amount parses a money column, tolerating "$" and thousands separators.
func amount(s string) decimal.Decimal {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
