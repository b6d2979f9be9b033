package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sleepwalk/internal/campaign"
	"github.com/vovakirdan/sleepwalk/internal/core"
)

const (
	nameCharLimit = 16
	flushTimeout  = 2 * time.Second
)

// scoresMsg carries a leaderboard loaded off the update loop.
type scoresMsg struct {
	records []campaign.ScoreRecord
	err     error
}

// Model is the Bubble Tea model for playing a level pack.
// It owns no game state itself: every move, tick and deferred event goes
// through the campaign controller.
type Model struct {
	ctrl       *campaign.Controller
	screen     *core.Screen
	keys       *KeyMapper
	help       help.Model
	name       textinput.Model
	theme      Theme
	now        func() time.Time
	width      int
	height     int
	standalone bool
	showScores bool
	scores     []campaign.ScoreRecord
	scoresErr  error
	quitting   bool
	backToMenu bool
}

// NewModel creates a play model around a started controller.
// A nil now uses time.Now.
func NewModel(ctrl *campaign.Controller, cfg core.RuntimeConfig, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	name := textinput.New()
	name.Placeholder = campaign.DefaultPlayerName
	name.CharLimit = nameCharLimit
	name.Width = nameCharLimit + 1
	name.Prompt = "Name: "
	name.SetValue(cfg.PlayerName)

	return Model{
		ctrl:   ctrl,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keys:   NewKeyMapper(),
		help:   help.New(),
		name:   name,
		theme:  DefaultTheme(),
		now:    now,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
	}
}

// Init starts the hazard ticks and the frame loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ticks(m.now()), frameCmd(m.ctrl.ID()))
}

// ticks schedules the first tick of the controller's current session.
func (m Model) ticks(now time.Time) tea.Cmd {
	return tickCmd(m.ctrl.ID(), m.ctrl.Epoch(), m.ctrl.TickPeriod(now))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case FrameMsg:
		if msg.Owner != m.ctrl.ID() {
			return m, nil
		}
		return m.handleFrame()

	case scoresMsg:
		m.scores = msg.records
		m.scoresErr = msg.err
		return m, nil
	}

	if m.name.Focused() {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTick advances hazards. A tick from a replaced session is dropped by
// the controller and not rescheduled, which ends that session's tick chain.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Owner != m.ctrl.ID() || !m.ctrl.Tick(msg.Epoch, msg.Time) {
		return m, nil
	}
	return m, tickCmd(msg.Owner, msg.Epoch, m.ctrl.TickPeriod(msg.Time))
}

// handleFrame runs deferred controller work and focuses the name prompt
// once a finished run asks for it.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	m.ctrl.Pump(m.now())
	if m.ctrl.Phase() == campaign.PhaseAwaitingName && !m.name.Focused() {
		return m, tea.Batch(m.name.Focus(), frameCmd(m.ctrl.ID()))
	}
	return m, frameCmd(m.ctrl.ID())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.Phase() == campaign.PhaseAwaitingName {
		return m.handleNameKey(msg)
	}

	now := m.now()
	action := m.keys.MapKey(msg)
	switch {
	case action == core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case action.IsMove():
		if !m.showScores {
			m.ctrl.Move(action.Dir(), now)
		}

	case action == core.ActionRestart:
		m.showScores = false
		m.ctrl.Reset(now)
		return m, m.ticks(now)

	case action == core.ActionConfirm:
		return m.confirm(now)

	case action == core.ActionScores:
		m.showScores = !m.showScores
		if m.showScores {
			return m, m.loadScores()
		}

	case action == core.ActionBack:
		if m.showScores {
			m.showScores = false
			return m, nil
		}
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// confirm moves past the end-of-session screens.
func (m Model) confirm(now time.Time) (tea.Model, tea.Cmd) {
	switch m.ctrl.Phase() {
	case campaign.PhaseLevelComplete:
		if _, err := m.ctrl.Advance(now); err != nil {
			return m, nil
		}
		return m, m.ticks(now)

	case campaign.PhaseGameOver:
		m.ctrl.Reset(now)
		return m, m.ticks(now)

	case campaign.PhaseFinished:
		m.showScores = false
		if err := m.ctrl.Start(0, now); err != nil {
			return m, nil
		}
		return m, m.ticks(now)
	}
	return m, nil
}

// handleNameKey feeds the name prompt. Enter or Esc submits; a blank name
// falls back to the default.
func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter, tea.KeyEsc:
		if err := m.ctrl.SubmitName(m.name.Value()); err != nil {
			return m, nil
		}
		m.name.Blur()
		m.showScores = true
		return m, m.loadScores()
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// loadScores flushes pending writes and reads the leaderboard in a command,
// so the update loop never waits on storage.
func (m Model) loadScores() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		//nolint:errcheck // A timed out flush still shows what is stored
		ctrl.Flush(ctx)
		records, err := ctrl.Leaderboard()
		return scoresMsg{records: records, err: err}
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	now := m.now()
	v := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(m.renderHeader(v))
	b.WriteString("\n\n")

	if m.showScores {
		b.WriteString(m.renderScores(v))
	} else {
		if m.screen.Width() != v.Level.Width || m.screen.Height() != v.Level.Height {
			m.screen.Resize(v.Level.Width, v.Level.Height)
		}
		drawBoard(m.screen, v.Level, v.Session, now)
		b.WriteString(RenderScreen(m.screen))
		b.WriteString("\n\n")
		for _, line := range hudLines(v, now) {
			b.WriteString(m.theme.HUDValue.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(m.theme.Notice.Render(v.Notice))
		b.WriteString("\n")
		if overlay := m.renderOverlay(v); overlay != "" {
			b.WriteString("\n")
			b.WriteString(overlay)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys.Keys())))

	if m.width <= 0 || m.height <= 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) renderHeader(v campaign.View) string {
	sep := m.theme.HUDSeparator.Render("  |  ")
	title := m.theme.HUDTitle.Render(fmt.Sprintf("Level %d/%d", v.LevelIndex+1, v.LevelCount))
	name := m.theme.HUDValue.Render(v.Level.Name)
	theme := m.theme.HUDControls.Render(string(v.Level.Theme))
	return title + sep + name + sep + theme
}

// renderOverlay returns the panel for the current phase, if any.
func (m Model) renderOverlay(v campaign.View) string {
	var title, body string
	switch v.Phase {
	case campaign.PhaseFallingAsleep:
		title = "Zzz..."
		body = "Drifting off to sleep"
	case campaign.PhaseLevelComplete:
		title = "Sweet dreams!"
		body = fmt.Sprintf("Final time %s\nEnter: next level   R: play again", formatSeconds(v.Session.FinalTime))
	case campaign.PhaseGameOver:
		title = "Woken by a nightmare"
		body = "Enter or R: try again"
	case campaign.PhaseAwaitingName:
		title = "All dreams complete!"
		total := 0.0
		if v.Pending != nil {
			total = v.Pending.ElapsedSeconds
		}
		body = fmt.Sprintf("Run time %.1fs\n\n%s\n\nEnter: save", total, m.name.View())
	case campaign.PhaseFinished:
		title = "Pack complete!"
		body = "Enter: play again   Tab: leaderboard"
		if v.RunStart != 0 {
			body = fmt.Sprintf("Run time %s from level %d\nOnly runs from level 1 are ranked\nEnter: play from level 1",
				formatSeconds(v.RunTotal), v.RunStart+1)
		}
	default:
		return ""
	}
	if v.NewRecord && v.Phase != campaign.PhaseGameOver {
		title += "  " + m.theme.Record.Render("New best time!")
	}
	content := m.theme.OverlayTitle.Render(title) + "\n\n" + m.theme.OverlayText.Render(body)
	return m.theme.OverlayBorder.Render(content)
}

func (m Model) renderScores(v campaign.View) string {
	var b strings.Builder
	b.WriteString(m.theme.MenuTitle.Render("LEADERBOARD"))
	b.WriteString("\n\n")
	switch {
	case m.scoresErr != nil:
		b.WriteString(m.theme.Notice.Render("Scores unavailable: " + m.scoresErr.Error()))
	case len(m.scores) == 0:
		b.WriteString(m.theme.MenuDescription.Render("No runs recorded yet."))
	default:
		t := newLeaderboardTable(m.scores, len(m.scores)+1, false)
		b.WriteString(t.View())
	}
	b.WriteString("\n")
	if v.Phase == campaign.PhaseFinished {
		b.WriteString("\n")
		b.WriteString(m.theme.MenuDescription.Render("Enter: play again"))
		b.WriteString("\n")
	}
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Controller returns the controller driven by the model.
func (m Model) Controller() *campaign.Controller {
	return m.ctrl
}

// Run plays cfg.Pack from cfg.StartLevel in a standalone program.
// goBack reports whether the player left with Back rather than Quit.
func Run(env Env, cfg core.RuntimeConfig) (goBack bool, err error) {
	ctrl, err := env.NewController(cfg.Pack, cfg.StartLevel, cfg.PlayerName)
	if err != nil {
		return false, err
	}
	defer ctrl.Close()

	model := NewModel(ctrl, cfg, env.Now)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := finalModel.(Model); ok {
		return m.BackToMenu() && !m.IsQuitting(), nil
	}
	return false, nil
}
