package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/game"
	"github.com/vovakirdan/sleepwalk/internal/level"
	_ "github.com/vovakirdan/sleepwalk/internal/level/packs"
	"github.com/vovakirdan/sleepwalk/internal/storage"
)

const corridorYAML = `
name: Corridor
layout:
  - "#####"
  - "#SPB#"
  - "#####"
`

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func campaignView(lvl *level.Level, s *game.Session) campaign.View {
	return campaign.View{Level: lvl, Session: s, LevelCount: 1}
}

func newCorridorModel(t *testing.T, c *clock) (Model, *storage.Memory) {
	t.Helper()
	lvl, err := level.ParseYAML([]byte(corridorYAML))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	cat, err := level.NewCatalog("test", []*level.Level{lvl})
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}

	store := storage.NewMemory(10)
	ctrl, err := campaign.New(cat, campaign.Options{BestTimes: store, Leaderboard: store, Attempts: store})
	if err != nil {
		t.Fatalf("campaign.New() failed: %v", err)
	}
	t.Cleanup(ctrl.Close)
	if err := ctrl.Start(0, c.now()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	return NewModel(ctrl, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, c.now), store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestModelPlaysRunToLeaderboard(t *testing.T) {
	c := newClock()
	m, _ := newCorridorModel(t, c)
	ctrl := m.Controller()

	c.advance(time.Second)
	m, _ = update(t, m, runeKey('d'))
	c.advance(time.Second)
	m, _ = update(t, m, runeKey('D'))

	if ctrl.Phase() != campaign.PhaseFallingAsleep {
		t.Fatalf("phase after reaching bed = %v, expected %v", ctrl.Phase(), campaign.PhaseFallingAsleep)
	}

	// The sleep cue ends on a frame after the delay
	c.advance(2 * time.Second)
	m, _ = update(t, m, FrameMsg{Owner: ctrl.ID(), Time: c.now()})
	if ctrl.Phase() != campaign.PhaseAwaitingName {
		t.Fatalf("phase after sleep delay = %v, expected %v", ctrl.Phase(), campaign.PhaseAwaitingName)
	}
	if !m.name.Focused() {
		t.Fatal("name prompt should be focused")
	}

	// Letters go to the prompt, not to movement or quit
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Ada")})
	if m.IsQuitting() {
		t.Fatal("typing a name should not quit")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if ctrl.Phase() != campaign.PhaseFinished {
		t.Fatalf("phase after submit = %v, expected %v", ctrl.Phase(), campaign.PhaseFinished)
	}
	if cmd == nil {
		t.Fatal("submit should load the leaderboard")
	}
	m, _ = update(t, m, cmd())

	if len(m.scores) != 1 {
		t.Fatalf("leaderboard = %+v, expected one entry", m.scores)
	}
	if m.scores[0].Name != "Ada" || m.scores[0].ElapsedSeconds != 2 {
		t.Errorf("entry = %+v, expected Ada at 2.0s", m.scores[0])
	}
	if m.View() == "" {
		t.Error("View() is empty")
	}
}

func TestModelTicksBelongToTheirSession(t *testing.T) {
	c := newClock()
	m, _ := newCorridorModel(t, c)
	ctrl := m.Controller()

	epoch := ctrl.Epoch()
	_, cmd := update(t, m, TickMsg{Owner: ctrl.ID(), Epoch: epoch, Time: c.now()})
	if cmd == nil {
		t.Error("current tick should schedule the next one")
	}

	_, cmd = update(t, m, TickMsg{Owner: "someone-else", Epoch: epoch, Time: c.now()})
	if cmd != nil {
		t.Error("tick of another controller should be dropped")
	}

	m, cmd = update(t, m, runeKey('r'))
	if cmd == nil {
		t.Error("restart should start a new tick chain")
	}
	if ctrl.Epoch() == epoch {
		t.Fatal("restart should change the epoch")
	}
	_, cmd = update(t, m, TickMsg{Owner: ctrl.ID(), Epoch: epoch, Time: c.now()})
	if cmd != nil {
		t.Error("tick of the replaced session should be dropped")
	}
}

func TestModelBack(t *testing.T) {
	c := newClock()
	m, _ := newCorridorModel(t, c)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc should request the menu")
	}
	if cmd != nil {
		t.Error("embedded model should leave quitting to its parent")
	}

	m, _ = newCorridorModel(t, c)
	m.standalone = true
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("standalone back should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("standalone back should return tea.Quit")
	}
}

func TestModelScoresOverlayBlocksMoves(t *testing.T) {
	c := newClock()
	m, _ := newCorridorModel(t, c)
	ctrl := m.Controller()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.showScores {
		t.Fatal("tab should open the scores")
	}
	c.advance(time.Second)
	m, _ = update(t, m, runeKey('d'))
	if got := ctrl.Snapshot().Session.Player; got != core.P(1, 1) {
		t.Errorf("player = %v, expected no move while scores are open", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showScores || m.BackToMenu() {
		t.Error("esc should close the scores first")
	}
}

func TestSessionModelMenuToPlayAndBack(t *testing.T) {
	c := newClock()
	env := Env{Records: storage.MemoryProvider(10), Now: c.now}
	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 40, Pack: "tutorial"}

	m := NewSessionModel(env, cfg)
	defer m.active.close()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SessionModel)
	if m.screen != screenPlay {
		t.Fatalf("screen after enter = %v, expected play", m.screen)
	}
	if m.config.Pack != "tutorial" || m.config.StartLevel != 0 {
		t.Errorf("config = %+v, expected tutorial level 0", m.config)
	}
	if m.play.Controller().Catalog().Name() == "" {
		t.Error("controller has no catalog")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SessionModel)
	if m.screen != screenMenu {
		t.Errorf("screen after esc = %v, expected menu", m.screen)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(SessionModel)
	if m.screen != screenScores {
		t.Errorf("screen after tab = %v, expected scores", m.screen)
	}
}
