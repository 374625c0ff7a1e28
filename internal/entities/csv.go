package entities

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/trajectory-dev/trajectory/internal/model"
)

// Header is the CSV header for entities.csv.
const Header = "kind,id,name"

const (
	numFields = 3
	colKind   = 0
	colID     = 1
	colName   = 2
)

// ReadEntities reads entities.csv.
func ReadEntities(r io.Reader) ([]model.Entity, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entities CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var out []model.Entity
	for i, rec := range records[1:] {
		e, err := UnmarshalEntity(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// WriteEntities writes entities.csv.
func WriteEntities(w io.Writer, list []model.Entity) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range list {
		if err := cw.Write(MarshalEntity(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntity converts an Entity to a CSV row.
func MarshalEntity(e model.Entity) []string {
	row := make([]string, numFields)
	row[colKind] = string(e.Ref.Kind)
	row[colID] = e.Ref.ID
	row[colName] = e.Name
	return row
}

// UnmarshalEntity converts a CSV row to an Entity.
func UnmarshalEntity(record []string) (model.Entity, error) {
	if len(record) != numFields {
		return model.Entity{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	kind, err := model.ParseEntityKind(record[colKind])
	if err != nil {
		return model.Entity{}, err
	}

	id := strings.TrimSpace(record[colID])
	if id == "" {
		return model.Entity{}, fmt.Errorf("missing id")
	}

	return model.Entity{
		Ref:  model.EntityRef{Kind: kind, ID: id},
		Name: strings.TrimSpace(record[colName]),
	}, nil
}
