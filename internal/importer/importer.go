package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trajectory-dev/trajectory/internal/model"
)

// Parser converts an exported filing file into FilingRecords. Rows that
// cannot be read at all are skipped and counted rather than failing the file.
type Parser interface {
	Parse(r io.Reader) (recs []model.FilingRecord, skipped int, err error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes an importable file.
type FileInfo struct {
	Name   string
	Path   string
	Format string
	Size   int64
}

// Result is the combined output of loading several files.
type Result struct {
	Records []model.FilingRecord
	Files   int
	Skipped int
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser matching a file's extension, or nil.
func (r *Registry) ForPath(path string) Parser {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil
	}
	return r.Get(ext)
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&JSONParser{})
	return r
}

// Scan returns the files in dir that some registered parser can read,
// sorted by name.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := r.ForPath(e.Name())
		if p == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Format: p.Format(),
			Size:   info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ParseFile reads one file with the parser matching its extension.
func (r *Registry) ParseFile(path string) ([]model.FilingRecord, int, error) {
	p := r.ForPath(path)
	if p == nil {
		return nil, 0, fmt.Errorf("no parser for %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	recs, skipped, err := p.Parse(f)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return recs, skipped, nil
}

// Load reads every path in order. Directories contribute the files Scan
// finds in them; plain files must have a registered extension.
func (r *Registry) Load(paths []string) (Result, error) {
	var res Result
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return Result{}, fmt.Errorf("stat %s: %w", path, err)
		}

		var files []string
		if info.IsDir() {
			found, err := r.Scan(path)
			if err != nil {
				return Result{}, err
			}
			for _, fi := range found {
				files = append(files, fi.Path)
			}
		} else {
			files = []string{path}
		}

		for _, file := range files {
			recs, skipped, err := r.ParseFile(file)
			if err != nil {
				return Result{}, err
			}
			res.Records = append(res.Records, recs...)
			res.Skipped += skipped
			res.Files++
		}
	}
	return res, nil
}
