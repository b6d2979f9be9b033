package level

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sleepwalk/internal/core"
)

// Layout glyphs understood by ParseYAML.
const (
	glyphFloor  = '.'
	glyphSpace  = ' '
	glyphWall   = '#'
	glyphStart  = 'S'
	glyphBed    = 'B'
	glyphPillow = 'P'
	glyphDream  = 'Z'
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	Name      string         `yaml:"name"`
	Theme     string         `yaml:"theme"`
	Layout    []string       `yaml:"layout"`
	Doors     []YAMLColored  `yaml:"doors,omitempty"`
	Keys      []YAMLColored  `yaml:"keys,omitempty"`
	Enemies   []YAMLEnemy    `yaml:"enemies,omitempty"`
	Powerups  []YAMLPowerup  `yaml:"powerups,omitempty"`
	Platforms []YAMLPlatform `yaml:"platforms,omitempty"`
}

// YAMLColored is a door or key entry.
type YAMLColored struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Color string `yaml:"color"`
}

// YAMLEnemy is a hazard entry. Start defaults to the first path entry.
type YAMLEnemy struct {
	Kind      string   `yaml:"kind"`
	MaxHealth int      `yaml:"max_health,omitempty"`
	Start     *[2]int  `yaml:"start,omitempty"`
	Path      [][2]int `yaml:"path"`
}

// YAMLPowerup is a powerup entry.
type YAMLPowerup struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Kind string `yaml:"kind"`
}

// YAMLPlatform is a moving platform entry.
type YAMLPlatform struct {
	ID   string   `yaml:"id"`
	Path [][2]int `yaml:"path"`
}

// ParseYAML parses a YAML level file into a Level.
// The result is not yet validated; see Validate.
func ParseYAML(data []byte) (*Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return yl.toLevel()
}

// toLevel converts the raw YAML form into a Level.
func (yl YAMLLevel) toLevel() (*Level, error) {
	l := &Level{
		Name:  yl.Name,
		Theme: Theme(strings.ToLower(yl.Theme)),
		Walls: make(map[core.Pos]bool),
	}
	if l.Theme == "" {
		l.Theme = ThemeForest
	}

	if err := parseLayout(l, yl.Layout); err != nil {
		return nil, err
	}

	for _, d := range yl.Doors {
		if _, ok := core.ParseColor(d.Color); !ok {
			return nil, ValidationError{Code: CodeBadColor, Level: l.Name, Message: fmt.Sprintf("door color %q", d.Color)}
		}
		l.Doors = append(l.Doors, Door{Pos: core.P(d.X, d.Y), Color: strings.ToLower(d.Color)})
	}
	for _, k := range yl.Keys {
		if _, ok := core.ParseColor(k.Color); !ok {
			return nil, ValidationError{Code: CodeBadColor, Level: l.Name, Message: fmt.Sprintf("key color %q", k.Color)}
		}
		l.Keys = append(l.Keys, Key{Pos: core.P(k.X, k.Y), Color: strings.ToLower(k.Color)})
	}

	for i, e := range yl.Enemies {
		kind := EnemyKind(strings.ToLower(e.Kind))
		if kind == "" {
			kind = EnemyNormal
		}
		if kind != EnemyNormal && kind != EnemyBoss {
			return nil, ValidationError{Code: CodeBadKind, Level: l.Name, Message: fmt.Sprintf("enemy %d kind %q", i, e.Kind)}
		}
		enemy := Enemy{Kind: kind, MaxHealth: e.MaxHealth, Path: toPath(e.Path)}
		if e.Start != nil {
			enemy.Start = core.P(e.Start[0], e.Start[1])
		} else if len(enemy.Path) > 0 {
			enemy.Start = enemy.Path[0]
		}
		if kind == EnemyBoss && enemy.MaxHealth == 0 {
			enemy.MaxHealth = 1
		}
		l.Enemies = append(l.Enemies, enemy)
	}

	for _, p := range yl.Powerups {
		kind := PowerupKind(strings.ToLower(p.Kind))
		switch kind {
		case PowerupSpeed, PowerupInvincible, PowerupTime, PowerupMagnet:
		default:
			return nil, ValidationError{Code: CodeBadKind, Level: l.Name, Message: fmt.Sprintf("powerup kind %q", p.Kind)}
		}
		l.Powerups = append(l.Powerups, Powerup{Pos: core.P(p.X, p.Y), Kind: kind})
	}

	for _, p := range yl.Platforms {
		l.Platforms = append(l.Platforms, Platform{ID: p.ID, Path: toPath(p.Path)})
	}

	return l, nil
}

// parseLayout reads walls, start, bed, pillows and dreams from the ASCII rows.
// Pillows and dreams are indexed in row-major scan order.
func parseLayout(l *Level, rows []string) error {
	l.Height = len(rows)
	for _, row := range rows {
		if n := len([]rune(row)); n > l.Width {
			l.Width = n
		}
	}
	if l.Width == 0 || l.Height == 0 {
		return ValidationError{Code: CodeBadSize, Level: l.Name, Message: "layout is empty"}
	}

	startSeen, bedSeen := false, false
	for y, row := range rows {
		for x, ch := range []rune(row) {
			p := core.P(x, y)
			switch ch {
			case glyphFloor, glyphSpace:
			case glyphWall:
				l.Walls[p] = true
			case glyphStart:
				if startSeen {
					return ValidationError{Code: CodeBadLayout, Level: l.Name, Message: fmt.Sprintf("second start at %v", p)}
				}
				l.Start, startSeen = p, true
			case glyphBed:
				if bedSeen {
					return ValidationError{Code: CodeBadLayout, Level: l.Name, Message: fmt.Sprintf("second bed at %v", p)}
				}
				l.Bed, bedSeen = p, true
			case glyphPillow:
				l.Pillows = append(l.Pillows, p)
			case glyphDream:
				l.Dreams = append(l.Dreams, p)
			default:
				return ValidationError{Code: CodeBadLayout, Level: l.Name, Message: fmt.Sprintf("unknown glyph %q at %v", ch, p)}
			}
		}
	}

	if !startSeen {
		return ValidationError{Code: CodeBadLayout, Level: l.Name, Message: "layout has no start tile 'S'"}
	}
	if !bedSeen {
		return ValidationError{Code: CodeBadLayout, Level: l.Name, Message: "layout has no bed tile 'B'"}
	}
	return nil
}

func toPath(raw [][2]int) []core.Pos {
	path := make([]core.Pos, len(raw))
	for i, p := range raw {
		path[i] = core.P(p[0], p[1])
	}
	return path
}
