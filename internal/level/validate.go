package level

import (
	"fmt"

	"github.com/vovakirdan/sleepwalk/internal/core"
)

// Validation codes.
const (
	CodeBadSize           = "BAD_SIZE"
	CodeBadLayout         = "BAD_LAYOUT"
	CodeBadColor          = "BAD_COLOR"
	CodeBadKind           = "BAD_KIND"
	CodeBadHealth         = "BAD_HEALTH"
	CodeOutOfBounds       = "OUT_OF_BOUNDS"
	CodeStartOnWall       = "START_ON_WALL"
	CodeBedOnWall         = "BED_ON_WALL"
	CodeEmptyPatrol       = "EMPTY_PATROL"
	CodeDuplicatePlatform = "DUPLICATE_PLATFORM"
)

// ValidationError contains details about malformed level data.
type ValidationError struct {
	Code    string
	Level   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Level == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Level, e.Message)
}

// Validate checks the structural invariants of a level:
//   - positive dimensions
//   - start, bed, items, doors, keys, enemy paths and platform paths in bounds
//   - start and bed not on walls
//   - every patrol path has at least one entry
//   - unique platform IDs and non-negative boss health
//
// Items placed on walls are trusted not to occur and are not checked.
func Validate(l *Level) error {
	if l.Width <= 0 || l.Height <= 0 {
		return ValidationError{Code: CodeBadSize, Level: l.Name, Message: fmt.Sprintf("size %dx%d", l.Width, l.Height)}
	}

	if err := checkBounds(l, "start", l.Start); err != nil {
		return err
	}
	if err := checkBounds(l, "bed", l.Bed); err != nil {
		return err
	}
	if l.Walls[l.Start] {
		return ValidationError{Code: CodeStartOnWall, Level: l.Name, Message: fmt.Sprintf("start %v", l.Start)}
	}
	if l.Walls[l.Bed] {
		return ValidationError{Code: CodeBedOnWall, Level: l.Name, Message: fmt.Sprintf("bed %v", l.Bed)}
	}

	for i, p := range l.Pillows {
		if err := checkBounds(l, fmt.Sprintf("pillow %d", i), p); err != nil {
			return err
		}
	}
	for i, p := range l.Dreams {
		if err := checkBounds(l, fmt.Sprintf("dream %d", i), p); err != nil {
			return err
		}
	}
	for i, d := range l.Doors {
		if err := checkBounds(l, fmt.Sprintf("door %d", i), d.Pos); err != nil {
			return err
		}
	}
	for i, k := range l.Keys {
		if err := checkBounds(l, fmt.Sprintf("key %d", i), k.Pos); err != nil {
			return err
		}
	}
	for i, p := range l.Powerups {
		if err := checkBounds(l, fmt.Sprintf("powerup %d", i), p.Pos); err != nil {
			return err
		}
	}

	for i, e := range l.Enemies {
		what := fmt.Sprintf("enemy %d", i)
		if len(e.Path) == 0 {
			return ValidationError{Code: CodeEmptyPatrol, Level: l.Name, Message: what + " has an empty patrol path"}
		}
		if err := checkBounds(l, what+" start", e.Start); err != nil {
			return err
		}
		for j, p := range e.Path {
			if err := checkBounds(l, fmt.Sprintf("%s path[%d]", what, j), p); err != nil {
				return err
			}
		}
		if e.MaxHealth < 0 {
			return ValidationError{Code: CodeBadHealth, Level: l.Name, Message: fmt.Sprintf("%s max health %d", what, e.MaxHealth)}
		}
	}

	seen := make(map[string]bool, len(l.Platforms))
	for i, p := range l.Platforms {
		what := fmt.Sprintf("platform %q", p.ID)
		if p.ID == "" {
			what = fmt.Sprintf("platform %d", i)
		} else if seen[p.ID] {
			return ValidationError{Code: CodeDuplicatePlatform, Level: l.Name, Message: what}
		}
		seen[p.ID] = true

		if len(p.Path) == 0 {
			return ValidationError{Code: CodeEmptyPatrol, Level: l.Name, Message: what + " has an empty path"}
		}
		for j, pos := range p.Path {
			if err := checkBounds(l, fmt.Sprintf("%s path[%d]", what, j), pos); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkBounds(l *Level, what string, p core.Pos) error {
	if l.InBounds(p) {
		return nil
	}
	return ValidationError{
		Code:    CodeOutOfBounds,
		Level:   l.Name,
		Message: fmt.Sprintf("%s at %v outside %dx%d", what, p, l.Width, l.Height),
	}
}
