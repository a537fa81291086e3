// Package input handles keyboard input processing.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bingo-client/internal/session"
	"github.com/palemoky/bingo-client/internal/ui/model"
)

// HandleKeyPress handles keyboard input and returns whether it was handled.
// Unhandled keys fall through to the text input.
func HandleKeyPress(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.Keys()

	if key.Matches(msg, keys.Quit) {
		return true, tea.Quit
	}

	switch m.Screen() {
	case model.ScreenJoin:
		return handleJoinKey(m, msg)
	case model.ScreenMenu:
		return handleMenuKey(m, msg)
	}

	if key.Matches(msg, keys.Help) {
		m.SetShowingHelp(!m.ShowingHelp())
		return true, nil
	}
	if key.Matches(msg, keys.Reconnect) && m.Snapshot().Connection == session.ConnDisconnected {
		m.Controller().Reconnect()
		return true, nil
	}

	switch m.Screen() {
	case model.ScreenLobby:
		return handleLobbyKey(m, msg)
	case model.ScreenGame:
		return handleGameKey(m, msg)
	case model.ScreenGameOver:
		return handleGameOverKey(m, msg)
	}
	return false, nil
}

func handleMenuKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.Keys()

	switch {
	case key.Matches(msg, keys.Up):
		m.SetMenuIndex(m.MenuIndex() - 1)
		return true, nil
	case key.Matches(msg, keys.Down):
		m.SetMenuIndex(m.MenuIndex() + 1)
		return true, nil
	case key.Matches(msg, keys.Select):
		return selectMenuItem(m, model.MenuItem(m.MenuIndex()))
	case key.Matches(msg, keys.Back):
		return true, tea.Quit
	}

	// 数字键直接选择
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if r >= '1' && int(r-'1') < len(model.MenuItems) {
			m.SetMenuIndex(int(r - '1'))
			return selectMenuItem(m, model.MenuItem(r-'1'))
		}
	}
	return true, nil
}

func selectMenuItem(m model.Model, item model.MenuItem) (bool, tea.Cmd) {
	if item == model.MenuQuit {
		return true, tea.Quit
	}
	if m.Snapshot().Busy {
		return true, m.SetNotification(model.NotifyWarning, "⏳ Already setting up a room", true)
	}

	switch item {
	case model.MenuQuickPlay:
		m.Controller().QuickPlay()
	case model.MenuCreateRoom:
		m.Controller().CreateRoom()
	case model.MenuJoinByCode:
		m.StartJoin()
	}
	return true, nil
}

func handleJoinKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		code := strings.TrimSpace(m.Input().Value())
		if code == "" {
			return true, m.SetNotification(model.NotifyWarning, "⚠️ Enter a room code", true)
		}
		m.CancelJoin()
		m.Controller().JoinByCode(code)
		return true, nil
	case tea.KeyEsc:
		m.CancelJoin()
		return true, nil
	}
	return false, nil
}

func handleLobbyKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.Keys()

	switch {
	case key.Matches(msg, keys.Start):
		if !m.Snapshot().IsHost {
			return true, m.SetNotification(model.NotifyWarning, "⚠️ Only the host can start the game", true)
		}
		m.Controller().StartGame()
		return true, nil
	case key.Matches(msg, keys.Back):
		m.Controller().NewGame()
		return true, nil
	}
	return false, nil
}

func handleGameKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.Keys()
	snap := m.Snapshot()

	switch {
	case key.Matches(msg, keys.Up):
		m.MoveCursor(-1, 0)
	case key.Matches(msg, keys.Down):
		m.MoveCursor(1, 0)
	case key.Matches(msg, keys.Left):
		m.MoveCursor(0, -1)
	case key.Matches(msg, keys.Right):
		m.MoveCursor(0, 1)
	case key.Matches(msg, keys.Mark):
		if snap.CurrentCard == nil {
			return true, nil
		}
		row, col := m.Cursor()
		m.Controller().ToggleMark(snap.CurrentCard.ID, row, col)
	case key.Matches(msg, keys.Claim):
		if snap.ClaimPending {
			return true, m.SetNotification(model.NotifyWarning, "⏳ Your claim is being checked", true)
		}
		m.Controller().SubmitClaim()
	case key.Matches(msg, keys.NextCard):
		if id := nextCardID(snap); id != "" {
			m.Controller().SelectCard(id)
		}
	case key.Matches(msg, keys.AutoMark):
		m.Controller().SetAutoMark(!snap.AutoMark)
	case key.Matches(msg, keys.Back):
		return true, m.SetNotification(model.NotifyWarning, "⚠️ Game in progress, press ctrl+c to quit", true)
	default:
		return false, nil
	}
	return true, nil
}

// nextCardID 循环切换到下一张卡片，只有一张时返回空串
func nextCardID(snap session.Snapshot) string {
	if len(snap.Cards) < 2 || snap.CurrentCard == nil {
		return ""
	}
	for i, c := range snap.Cards {
		if c.ID == snap.CurrentCard.ID {
			return snap.Cards[(i+1)%len(snap.Cards)].ID
		}
	}
	return snap.Cards[0].ID
}

func handleGameOverKey(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.Keys()
	if key.Matches(msg, keys.NewGame) || key.Matches(msg, keys.Back) {
		m.Controller().NewGame()
		return true, nil
	}
	return false, nil
}
