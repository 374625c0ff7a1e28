package entities

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/trajectory-dev/trajectory/internal/model"
)

// FileName is the catalog file created by init.
const FileName = "entities.csv"

// Service provides in-memory lookup over the entity catalog.
type Service struct {
	entities []model.Entity
	byRef    map[model.EntityRef]model.Entity
	byID     map[string][]model.EntityRef
}

// NewService creates a Service from a slice of entities. When a ref appears
// more than once the first entry wins.
func NewService(list []model.Entity) *Service {
	s := &Service{
		byRef: make(map[model.EntityRef]model.Entity, len(list)),
		byID:  make(map[string][]model.EntityRef),
	}
	for _, e := range list {
		if _, dup := s.byRef[e.Ref]; dup {
			continue
		}
		s.entities = append(s.entities, e)
		s.byRef[e.Ref] = e
		s.byID[e.Ref.ID] = append(s.byID[e.Ref.ID], e.Ref)
	}
	return s
}

// Load reads a catalog file and returns a Service.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entity catalog: %w", err)
	}
	defer f.Close()

	list, err := ReadEntities(f)
	if err != nil {
		return nil, fmt.Errorf("reading entity catalog: %w", err)
	}
	return NewService(list), nil
}

// All returns all entities in file order.
func (s *Service) All() []model.Entity {
	return s.entities
}

// Get returns an entity by ref.
func (s *Service) Get(ref model.EntityRef) (model.Entity, bool) {
	e, ok := s.byRef[ref]
	return e, ok
}

// Exists reports whether a ref is in the catalog.
func (s *Service) Exists(ref model.EntityRef) bool {
	_, ok := s.byRef[ref]
	return ok
}

// Lookup returns every ref whose ID is id, across all kinds.
func (s *Service) Lookup(id string) []model.EntityRef {
	return s.byID[id]
}

// Name returns the catalog name for ref, or the ref itself when unnamed.
func (s *Service) Name(ref model.EntityRef) string {
	if e, ok := s.byRef[ref]; ok && e.Name != "" {
		return e.Name
	}
	return ref.String()
}

// ByKind returns all entities of the given kind.
func (s *Service) ByKind(kind model.EntityKind) []model.Entity {
	var result []model.Entity
	for _, e := range s.entities {
		if e.Ref.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// Save writes the catalog to <dir>/entities.csv.
func (s *Service) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return fmt.Errorf("creating entity catalog file: %w", err)
	}
	defer f.Close()

	if err := WriteEntities(f, s.entities); err != nil {
		return fmt.Errorf("writing entity catalog: %w", err)
	}
	return nil
}
