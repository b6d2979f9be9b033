package level

import (
	"errors"
	"fmt"
)

// ErrNoLevels is returned when a catalog would contain no levels.
var ErrNoLevels = errors.New("level: catalog has no levels")

// Catalog is an immutable, ordered list of validated levels.
type Catalog struct {
	name   string
	levels []*Level
}

// NewCatalog validates every level and builds a catalog.
// Validation happens here so malformed data fails before any session exists.
func NewCatalog(name string, levels []*Level) (*Catalog, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	for i, l := range levels {
		if err := Validate(l); err != nil {
			return nil, fmt.Errorf("level: catalog %q level %d: %w", name, i+1, err)
		}
	}

	owned := make([]*Level, len(levels))
	copy(owned, levels)
	return &Catalog{name: name, levels: owned}, nil
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// Level returns the level at the given index (0-based).
// Returns nil if index is out of range.
func (c *Catalog) Level(index int) *Level {
	if index < 0 || index >= len(c.levels) {
		return nil
	}
	return c.levels[index]
}

// IsLast reports whether index is the final level of the catalog.
func (c *Catalog) IsLast(index int) bool {
	return index == len(c.levels)-1
}

// Names returns the names of all levels.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.levels))
	for i, l := range c.levels {
		names[i] = l.Name
	}
	return names
}
