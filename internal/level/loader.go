package level

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Loader handles loading levels from a directory on disk.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll loads every level file directly under Root, ordered by file name.
// Any malformed file fails the whole load.
func (l *Loader) LoadAll() ([]*Level, error) {
	return LoadFS(os.DirFS(l.Root), ".")
}

// LoadCatalog loads and validates all levels under Root as one catalog.
func (l *Loader) LoadCatalog(name string) (*Catalog, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return NewCatalog(name, levels)
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (*Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", p, err)
	}
	lvl, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", p, err)
	}
	lvl.Source = p
	if lvl.Name == "" {
		lvl.Name = nameFromFile(p)
	}
	return lvl, nil
}

// LoadFS loads every level file in dir of fsys, ordered by file name.
// Used for the embedded packs and for directories on disk.
func LoadFS(fsys fs.FS, dir string) ([]*Level, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(e.Name()))) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	levels := make([]*Level, 0, len(names))
	for _, name := range names {
		p := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", p, err)
		}
		lvl, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing file %s: %w", p, err)
		}
		lvl.Source = p
		if lvl.Name == "" {
			lvl.Name = nameFromFile(name)
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// nameFromFile derives a display name from a file name like "03_ice_cave.yaml".
func nameFromFile(p string) string {
	base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	if i := strings.IndexByte(base, '_'); i >= 0 && i < len(base)-1 {
		base = base[i+1:]
	}
	return strings.ReplaceAll(base, "_", " ")
}
