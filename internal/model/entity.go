package model

import (
	"fmt"
	"strings"
)

// EntityKind classifies the source table an entity comes from.
type EntityKind string

const (
	KindPerson    EntityKind = "person"
	KindCandidate EntityKind = "candidate"
	KindCommittee EntityKind = "committee"
)

// ParseEntityKind accepts a kind name in any case.
func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPerson, KindCandidate, KindCommittee:
		return k, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", s)
	}
}

// EntityRef identifies an entity across the person, candidate and committee
// ID spaces. Two refs with the same ID but different kinds are different entities.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

// String returns the "kind:id" form, e.g. "committee:C001".
func (r EntityRef) String() string {
	return string(r.Kind) + ":" + r.ID
}

// IsZero reports whether the ref has no ID.
func (r EntityRef) IsZero() bool {
	return r.ID == ""
}

// ParseEntityRef parses "kind:id".
func ParseEntityRef(s string) (EntityRef, error) {
	kind, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return EntityRef{}, fmt.Errorf("invalid entity ref %q: want kind:id", s)
	}
	k, err := ParseEntityKind(kind)
	if err != nil {
		return EntityRef{}, fmt.Errorf("invalid entity ref %q: %w", s, err)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return EntityRef{}, fmt.Errorf("invalid entity ref %q: empty id", s)
	}
	return EntityRef{Kind: k, ID: id}, nil
}

// MarshalText lets EntityRef key JSON objects.
func (r EntityRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (r *EntityRef) UnmarshalText(b []byte) error {
	ref, err := ParseEntityRef(string(b))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// Entity is a row of the entity catalog.
type Entity struct {
	Ref  EntityRef
	Name string
}
