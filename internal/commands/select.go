package commands

import (
	"fmt"
	"strings"

	"github.com/trajectory-dev/trajectory/internal/entities"
	"github.com/trajectory-dev/trajectory/internal/model"
)

// selectEntities turns --entity values into refs. A bare ID is looked up in
// the catalog first and then among the loaded filings; it must match exactly
// one ref. With no specs every entity in recs is selected in first-seen order.
func selectEntities(specs []string, catalog *entities.Service, recs []model.FilingRecord) ([]model.EntityRef, error) {
	if len(specs) == 0 {
		return refsIn(recs), nil
	}

	seen := make(map[model.EntityRef]bool)
	var refs []model.EntityRef
	for _, spec := range specs {
		ref, err := resolveSpec(spec, catalog, recs)
		if err != nil {
			return nil, err
		}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func resolveSpec(spec string, catalog *entities.Service, recs []model.FilingRecord) (model.EntityRef, error) {
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, ":") {
		return model.ParseEntityRef(spec)
	}
	if spec == "" {
		return model.EntityRef{}, fmt.Errorf("empty entity")
	}

	candidates := catalog.Lookup(spec)
	if len(candidates) == 0 {
		for _, ref := range refsIn(recs) {
			if ref.ID == spec {
				candidates = append(candidates, ref)
			}
		}
	}

	switch len(candidates) {
	case 0:
		return model.EntityRef{}, fmt.Errorf("unknown entity %q", spec)
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.String()
		}
		return model.EntityRef{}, fmt.Errorf("entity %q is ambiguous: %s", spec, strings.Join(names, ", "))
	}
}

func refsIn(recs []model.FilingRecord) []model.EntityRef {
	seen := make(map[model.EntityRef]bool)
	var refs []model.EntityRef
	for _, rec := range recs {
		if rec.Entity.IsZero() || seen[rec.Entity] {
			continue
		}
		seen[rec.Entity] = true
		refs = append(refs, rec.Entity)
	}
	return refs
}
