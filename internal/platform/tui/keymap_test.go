package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sleepwalk/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"w", runeKey('w'), core.ActionUp},
		{"W", runeKey('W'), core.ActionUp},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{"a", runeKey('a'), core.ActionLeft},
		{"A", runeKey('A'), core.ActionLeft},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"s", runeKey('s'), core.ActionDown},
		{"S", runeKey('S'), core.ActionDown},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown},
		{"d", runeKey('d'), core.ActionRight},
		{"D", runeKey('D'), core.ActionRight},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"r", runeKey('r'), core.ActionRestart},
		{"R", runeKey('R'), core.ActionRestart},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, core.ActionScores},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{"q", runeKey('q'), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runeKey('x'), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%s) = %v, expected %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{runeKey('S'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}
