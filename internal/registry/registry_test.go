package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/sleepwalk/internal/level"
)

var errBroken = errors.New("broken pack")

func TestRegisterAndLoad(t *testing.T) {
	Register("zz-test", "Test Pack", func() (*level.Catalog, error) {
		l, err := level.ParseYAML([]byte("name: only\nlayout: ['S.B']"))
		if err != nil {
			return nil, err
		}
		return level.NewCatalog("zz-test", []*level.Level{l})
	})
	Register("zz-broken", "Broken", func() (*level.Catalog, error) {
		return nil, errBroken
	})

	if !Exists("zz-test") {
		t.Fatal("registered pack should exist")
	}
	if Exists("nope") {
		t.Error("unregistered pack should not exist")
	}

	cat, err := Load("zz-test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 1 || cat.Level(0).Name != "only" {
		t.Errorf("unexpected catalog contents: %v", cat.Names())
	}

	if _, err := Load("zz-broken"); !errors.Is(err, errBroken) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
	if _, err := Load("nope"); err == nil {
		t.Error("expected error for unknown pack")
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List not sorted: %v", list)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", "Dup", func() (*level.Catalog, error) { return nil, errBroken })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("zz-dup", "Dup again", func() (*level.Catalog, error) { return nil, errBroken })
}
