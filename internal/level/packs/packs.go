// Package packs embeds the built-in level packs and registers them.
package packs

import (
	"embed"

	"github.com/vovakirdan/sleepwalk/internal/level"
	"github.com/vovakirdan/sleepwalk/internal/registry"
)

//go:embed classic/*.yaml tutorial/*.yaml
var files embed.FS

// Built-in pack IDs.
const (
	Classic  = "classic"
	Tutorial = "tutorial"
)

func init() {
	registry.Register(Classic, "Classic Dreams", embedded(Classic))
	registry.Register(Tutorial, "Tutorial", embedded(Tutorial))
}

// embedded returns a registry source reading one directory of the embedded FS.
func embedded(dir string) registry.Source {
	return func() (*level.Catalog, error) {
		levels, err := level.LoadFS(files, dir)
		if err != nil {
			return nil, err
		}
		return level.NewCatalog(dir, levels)
	}
}
