package formconfig

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses a JSON or YAML document. source names the document in errors.
func Load(data []byte, source string, opts ...Option) (*Definition, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	return newLoader(opts).build(doc, source)
}

// LoadFile reads and parses name from fsys.
func LoadFile(fsys fs.FS, name string, opts ...Option) (*Definition, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("formconfig: read %s: %w", name, err)
	}
	return Load(data, name, opts...)
}

// Store holds every definition found in a filesystem, keyed by file path
// without extension.
type Store struct {
	defs map[string]*Definition
}

// LoadFS walks fsys and loads every .json, .yaml and .yml file. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS, opts ...Option) (*Store, error) {
	store := &Store{defs: make(map[string]*Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		name := strings.TrimSuffix(p, path.Ext(p))
		if _, exists := store.defs[name]; exists {
			return fmt.Errorf("formconfig: duplicate definition %q (file %s)", name, p)
		}
		def, err := LoadFile(fsys, p, opts...)
		if err != nil {
			return err
		}
		store.defs[name] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Definition returns the definition stored under name.
func (s *Store) Definition(name string) (*Definition, bool) {
	if s == nil {
		return nil, false
	}
	def, ok := s.defs[name]
	return def, ok
}

// Names lists the stored definitions in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("formconfig: file %s is empty", source)
	}

	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("formconfig: parse %s: %w", source, err)
	}
	return doc, nil
}
