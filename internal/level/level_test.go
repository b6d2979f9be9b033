package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/sleepwalk/internal/core"
)

const sampleLevel = `
name: Sample
theme: ice
layout:
  - "#######"
  - "#S.P.Z#"
  - "#..#..#"
  - "#P...B#"
  - "#######"
doors:
  - {x: 4, y: 2, color: red}
  - {x: 2, y: 2, color: Red}
keys:
  - {x: 2, y: 1, color: red}
enemies:
  - kind: normal
    path: [[1, 2], [2, 2]]
  - kind: boss
    start: [4, 3]
    path: [[4, 3]]
powerups:
  - {x: 3, y: 3, kind: magnet}
platforms:
  - id: raft
    path: [[5, 2], [5, 1]]
`

func TestParseYAML(t *testing.T) {
	l, err := ParseYAML([]byte(sampleLevel))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	if l.Name != "Sample" || l.Theme != ThemeIce {
		t.Errorf("name/theme = %q/%q, expected Sample/ice", l.Name, l.Theme)
	}
	if l.Width != 7 || l.Height != 5 {
		t.Errorf("expected 7x5, got %dx%d", l.Width, l.Height)
	}
	if l.Start != core.P(1, 1) {
		t.Errorf("start = %v, expected (1,1)", l.Start)
	}
	if l.Bed != core.P(5, 3) {
		t.Errorf("bed = %v, expected (5,3)", l.Bed)
	}

	// Pillows are indexed in row-major order
	if len(l.Pillows) != 2 || l.Pillows[0] != core.P(3, 1) || l.Pillows[1] != core.P(1, 3) {
		t.Errorf("pillows = %v, expected [(3,1) (1,3)]", l.Pillows)
	}
	if len(l.Dreams) != 1 || l.Dreams[0] != core.P(5, 1) {
		t.Errorf("dreams = %v, expected [(5,1)]", l.Dreams)
	}
	if !l.IsWall(core.P(3, 2)) {
		t.Error("expected wall at (3,2)")
	}
	if !l.IsWall(core.P(-1, 0)) {
		t.Error("out of bounds should count as wall")
	}

	if l.Doors[1].Color != "red" {
		t.Errorf("door colors should be normalized, got %q", l.Doors[1].Color)
	}
	if l.Enemies[0].Start != core.P(1, 2) {
		t.Errorf("enemy start should default to first path entry, got %v", l.Enemies[0].Start)
	}
	if l.Enemies[1].Kind != EnemyBoss || l.Enemies[1].MaxHealth != 1 {
		t.Errorf("boss = %+v, expected kind boss with default health 1", l.Enemies[1])
	}
	if l.DoorIndex(core.P(2, 2)) != 1 || l.DoorIndex(core.P(1, 1)) != -1 {
		t.Error("DoorIndex returned wrong index")
	}

	if err := Validate(l); err != nil {
		t.Errorf("Validate failed on sample: %v", err)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
	}{
		{"no start", "layout: ['#B#']", CodeBadLayout},
		{"no bed", "layout: ['#S#']", CodeBadLayout},
		{"two starts", "layout: ['SSB']", CodeBadLayout},
		{"bad glyph", "layout: ['S?B']", CodeBadLayout},
		{"empty layout", "name: x", CodeBadSize},
		{"bad door color", "layout: ['S.B']\ndoors: [{x: 1, y: 0, color: plaid}]", CodeBadColor},
		{"bad powerup", "layout: ['S.B']\npowerups: [{x: 1, y: 0, kind: jetpack}]", CodeBadKind},
		{"bad enemy", "layout: ['S.B']\nenemies: [{kind: dragon, path: [[1, 0]]}]", CodeBadKind},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tc.data))
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Code != tc.code {
				t.Errorf("code = %s, expected %s", ve.Code, tc.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	base := func() *Level {
		return &Level{
			Name:   "v",
			Width:  5,
			Height: 5,
			Start:  core.P(0, 0),
			Bed:    core.P(4, 4),
			Walls:  map[core.Pos]bool{core.P(2, 2): true},
		}
	}

	tests := []struct {
		name   string
		mutate func(l *Level)
		code   string
	}{
		{"bad size", func(l *Level) { l.Width = 0 }, CodeBadSize},
		{"bed out of bounds", func(l *Level) { l.Bed = core.P(5, 4) }, CodeOutOfBounds},
		{"start on wall", func(l *Level) { l.Start = core.P(2, 2) }, CodeStartOnWall},
		{"bed on wall", func(l *Level) { l.Bed = core.P(2, 2) }, CodeBedOnWall},
		{"pillow out of bounds", func(l *Level) { l.Pillows = []core.Pos{core.P(-1, 0)} }, CodeOutOfBounds},
		{"key out of bounds", func(l *Level) { l.Keys = []Key{{Pos: core.P(9, 9), Color: "red"}} }, CodeOutOfBounds},
		{"empty patrol", func(l *Level) { l.Enemies = []Enemy{{Start: core.P(1, 1)}} }, CodeEmptyPatrol},
		{"patrol out of bounds", func(l *Level) {
			l.Enemies = []Enemy{{Start: core.P(1, 1), Path: []core.Pos{core.P(1, 1), core.P(1, 7)}}}
		}, CodeOutOfBounds},
		{"negative health", func(l *Level) {
			l.Enemies = []Enemy{{Start: core.P(1, 1), Path: []core.Pos{core.P(1, 1)}, Kind: EnemyBoss, MaxHealth: -2}}
		}, CodeBadHealth},
		{"duplicate platform", func(l *Level) {
			l.Platforms = []Platform{{ID: "a", Path: []core.Pos{core.P(1, 0)}}, {ID: "a", Path: []core.Pos{core.P(2, 0)}}}
		}, CodeDuplicatePlatform},
		{"empty platform path", func(l *Level) { l.Platforms = []Platform{{ID: "a"}} }, CodeEmptyPatrol},
	}

	if err := Validate(base()); err != nil {
		t.Fatalf("base level should be valid: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := base()
			tc.mutate(l)
			err := Validate(l)
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Code != tc.code {
				t.Errorf("code = %s, expected %s (%v)", ve.Code, tc.code, err)
			}
		})
	}
}

func TestNewCatalog(t *testing.T) {
	if _, err := NewCatalog("empty", nil); !errors.Is(err, ErrNoLevels) {
		t.Errorf("expected ErrNoLevels, got %v", err)
	}

	good, _ := ParseYAML([]byte("name: one\nlayout: ['S.B']"))
	bad := &Level{Name: "bad", Width: 1, Height: 1, Bed: core.P(3, 3)}
	if _, err := NewCatalog("mixed", []*Level{good, bad}); err == nil {
		t.Error("catalog with an invalid level should fail to build")
	}

	two, _ := ParseYAML([]byte("name: two\nlayout: ['B.S']"))
	c, err := NewCatalog("ok", []*Level{good, two})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if c.Len() != 2 || c.Name() != "ok" {
		t.Errorf("catalog = %s/%d, expected ok/2", c.Name(), c.Len())
	}
	if c.Level(1) != two || c.Level(2) != nil || c.Level(-1) != nil {
		t.Error("Level() returned wrong entry")
	}
	if c.IsLast(0) || !c.IsLast(1) {
		t.Error("IsLast returned wrong value")
	}
	if names := c.Names(); names[0] != "one" || names[1] != "two" {
		t.Errorf("Names() = %v", names)
	}
}

func TestLoadFSOrdersByFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"pack/02_second.yaml": {Data: []byte("layout: ['S.B']")},
		"pack/01_first.yml":   {Data: []byte("name: First\nlayout: ['S.B']")},
		"pack/readme.txt":     {Data: []byte("not a level")},
	}

	levels, err := LoadFS(fsys, "pack")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Name != "First" {
		t.Errorf("first level = %q, expected First", levels[0].Name)
	}
	if levels[1].Name != "second" {
		t.Errorf("unnamed level should take its name from the file, got %q", levels[1].Name)
	}
}

func TestLoaderFailsOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "01_ok.yaml"), []byte("layout: ['S.B']"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "02_bad.yaml"), []byte("layout: ['S.?']"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir).LoadCatalog("disk"); err == nil {
		t.Error("expected malformed level to fail the load")
	}
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "07_night_sky.yaml")
	if err := os.WriteFile(p, []byte(sampleLevel), 0o600); err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(dir).LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if l.Source != p {
		t.Errorf("Source = %q, expected %q", l.Source, p)
	}
}
