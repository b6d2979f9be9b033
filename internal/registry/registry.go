// Package registry provides a global registry for level packs.
// Packs register themselves in init() functions, allowing the platform
// to discover and load catalogs without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/sleepwalk/internal/level"
)

// Source builds a validated catalog for a pack.
type Source func() (*level.Catalog, error)

// PackInfo contains metadata about a registered pack.
type PackInfo struct {
	ID    string
	Title string
}

type entry struct {
	title  string
	source Source
}

var (
	packs = make(map[string]entry)
	mu    sync.RWMutex
)

// Register adds a level pack to the registry.
// Typically called from a pack's init() function.
// Panics if a pack with the same ID is already registered.
func Register(id, title string, src Source) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := packs[id]; exists {
		panic(fmt.Sprintf("registry: pack %q already registered", id))
	}
	packs[id] = entry{title: title, source: src}
}

// List returns information about all registered packs, sorted by ID.
func List() []PackInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PackInfo, 0, len(packs))
	for id, e := range packs {
		result = append(result, PackInfo{ID: id, Title: e.title})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Load builds the catalog of a pack by its ID.
// Returns an error if the pack ID is not registered or its levels are malformed.
func Load(id string) (*level.Catalog, error) {
	mu.RLock()
	e, ok := packs[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown pack %q", id)
	}

	cat, err := e.source()
	if err != nil {
		return nil, fmt.Errorf("registry: loading pack %q: %w", id, err)
	}
	return cat, nil
}

// Exists checks if a pack with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := packs[id]
	return ok
}
