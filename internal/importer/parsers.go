package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trajectory-dev/trajectory/internal/filing"
	"github.com/trajectory-dev/trajectory/internal/model"
)

// CSVParser reads the filings CSV export (see filing.Header).
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a filings CSV.
func (p *CSVParser) Parse(r io.Reader) ([]model.FilingRecord, int, error) {
	return filing.ReadRecords(r)
}

// JSONParser reads a JSON array of filing objects as served by the filings API.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

type jsonRecord struct {
	EntityID      string              `json:"entityId"`
	EntityKind    string              `json:"entityKind"`
	ReportLabel   string              `json:"reportLabel"`
	CoverageEnd   *string             `json:"coverageEnd"`
	Receipts      decimal.NullDecimal `json:"receipts"`
	Disbursements decimal.NullDecimal `json:"disbursements"`
	CashBeginning decimal.NullDecimal `json:"cashBeginning"`
	CashEnding    decimal.NullDecimal `json:"cashEnding"`
}

// Parse reads a JSON array. Elements that do not decode, or that lack an
// entity ID, are skipped; null or missing amounts are zero.
func (p *JSONParser) Parse(r io.Reader) ([]model.FilingRecord, int, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading filings JSON: %w", err)
	}

	var recs []model.FilingRecord
	skipped := 0
	for _, msg := range raw {
		var jr jsonRecord
		if err := json.Unmarshal(msg, &jr); err != nil {
			skipped++
			continue
		}
		rec, ok := jr.record()
		if !ok {
			skipped++
			continue
		}
		recs = append(recs, rec)
	}
	return recs, skipped, nil
}

func (jr jsonRecord) record() (model.FilingRecord, bool) {
	id := strings.TrimSpace(jr.EntityID)
	if id == "" {
		return model.FilingRecord{}, false
	}
	kind, err := model.ParseEntityKind(jr.EntityKind)
	if err != nil {
		kind = model.EntityKind(strings.ToLower(strings.TrimSpace(jr.EntityKind)))
	}
	var end string
	if jr.CoverageEnd != nil {
		end = strings.TrimSpace(*jr.CoverageEnd)
	}
	return model.FilingRecord{
		Entity:        model.EntityRef{Kind: kind, ID: id},
		ReportLabel:   strings.TrimSpace(jr.ReportLabel),
		CoverageEnd:   end,
		Receipts:      orZero(jr.Receipts),
		Disbursements: orZero(jr.Disbursements),
		CashBeginning: orZero(jr.CashBeginning),
		CashEnding:    orZero(jr.CashEnding),
	}, true
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
