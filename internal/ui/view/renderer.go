// Package view provides UI rendering functions.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/session"
	"github.com/palemoky/bingo-client/internal/ui/common"
	"github.com/palemoky/bingo-client/internal/ui/model"
)

// CreateViewRenderer creates a view renderer function that can be injected into BingoModel.
func CreateViewRenderer() func(model.Model, model.Screen) string {
	return func(m model.Model, screen model.Screen) string {
		var content string
		switch screen {
		case model.ScreenMenu, model.ScreenJoin:
			content = MenuView(m)
		case model.ScreenLobby:
			content = LobbyView(m)
		case model.ScreenGame:
			content = GameView(m)
		case model.ScreenGameOver:
			content = GameOverView(m)
		default:
			content = "Unknown screen"
		}

		help := m.Help().View(m.Keys().ForScreen(screen))
		return lipgloss.JoinVertical(lipgloss.Left, content, "", m.Styles().Muted.Render(help))
	}
}

// centered 水平居中
func centered(m model.Model, s string) string {
	return lipgloss.PlaceHorizontal(m.Width(), lipgloss.Center, s)
}

// renderNotification 渲染优先级最高的系统通知
func renderNotification(m model.Model) string {
	n := m.GetCurrentNotification()
	if n == nil {
		return ""
	}
	st := m.Styles()
	var style lipgloss.Style
	switch n.Type {
	case model.NotifyAlert, model.NotifyWarning, model.NotifyDisconnected:
		style = st.Warn
	case model.NotifyReconnecting:
		style = st.Warn.UnsetBold()
	case model.NotifyReconnectSuccess:
		style = st.Success
	}
	return style.Render(n.Message)
}

// connectionLabel 连接状态的简短文本
func connectionLabel(st *common.Styles, snap session.Snapshot) string {
	switch snap.Connection {
	case session.ConnConnected:
		return st.Success.Render("● online")
	case session.ConnConnecting:
		return st.Muted.Render("○ connecting")
	case session.ConnReconnecting:
		return st.Warn.Render(fmt.Sprintf("◐ reconnecting %d/%d", snap.ReconnectAttempt, snap.ReconnectMax))
	case session.ConnDisconnected:
		return common.ErrorStyle.Render("✕ offline")
	default:
		return st.Muted.Render("○ idle")
	}
}

// MenuView renders the main menu and the join-by-code prompt.
func MenuView(m model.Model) string {
	st := m.Styles()
	snap := m.Snapshot()
	var sb strings.Builder

	sb.WriteString(centered(m, st.Title.Render(common.BallIcon+" BINGO")))
	sb.WriteString("\n\n")
	if snap.PlayerID != "" {
		sb.WriteString(centered(m, fmt.Sprintf("Welcome, %s!", common.TruncateName(snap.PlayerID, 24))))
		sb.WriteString("\n")
	}
	sb.WriteString(centered(m, renderNotification(m)))
	sb.WriteString("\n\n")

	lines := []string{"Choose:", ""}
	for i, item := range model.MenuItems {
		prefix := "  "
		if i == m.MenuIndex() {
			prefix = "▶ "
		}
		lines = append(lines, fmt.Sprintf("%s%d. %s", prefix, i+1, item))
	}
	menu := common.BoxStyle.Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	sb.WriteString(centered(m, menu))
	sb.WriteString("\n")

	switch {
	case snap.Busy:
		sb.WriteString(centered(m, common.PromptStyle.Render(st.Accent.Render("⏳ Setting up room..."))))
	case m.Screen() == model.ScreenJoin:
		sb.WriteString(centered(m, common.PromptStyle.Render("Room code: "+m.Input().View())))
	}
	return sb.String()
}

// LobbyView renders the waiting room: code, QR code and roster.
func LobbyView(m model.Model) string {
	st := m.Styles()
	snap := m.Snapshot()
	var sb strings.Builder

	code := snap.RoomCode
	if code == "" {
		code = snap.RoomID
	}
	sb.WriteString(centered(m, st.Title.Render("🏠 Room "+code)))
	sb.WriteString("\n")
	sb.WriteString(centered(m, connectionLabel(st, snap)))
	sb.WriteString("\n")
	sb.WriteString(centered(m, renderNotification(m)))
	sb.WriteString("\n\n")

	roster := common.BoxStyle.Padding(0, 2).Render(RenderRoster(st, snap))
	if qr := common.QRCode(code); qr != "" {
		share := lipgloss.JoinVertical(lipgloss.Center, qr, st.Muted.Render("Scan or share "+code))
		sb.WriteString(centered(m, lipgloss.JoinHorizontal(lipgloss.Top, roster, "  ", share)))
	} else {
		sb.WriteString(centered(m, roster))
	}
	sb.WriteString("\n\n")

	hint := "Waiting for the host to start..."
	if snap.IsHost {
		hint = "Press S to start the game"
	}
	sb.WriteString(centered(m, st.Accent.Render(hint)))
	return sb.String()
}

// RenderRoster 玩家列表，房主带标记
func RenderRoster(st *common.Styles, snap session.Snapshot) string {
	lines := []string{fmt.Sprintf("Players (%d)", len(snap.Roster)), ""}
	if len(snap.Roster) == 0 {
		lines = append(lines, st.Muted.Render("Nobody here yet..."))
	}
	for _, p := range snap.Roster {
		icon := common.PlayerIcon
		if snap.IsHost && p.ID == snap.PlayerID {
			icon = common.HostIcon
		}
		name := common.TruncateName(p.DisplayName(), 20)
		if p.ID == snap.PlayerID {
			name += st.Muted.Render(" (you)")
		}
		lines = append(lines, icon+" "+name)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// GameView renders the card, the last number and the called board.
func GameView(m model.Model) string {
	st := m.Styles()
	snap := m.Snapshot()
	var sb strings.Builder

	header := fmt.Sprintf("%s Room %s   %s", common.BallIcon, snap.RoomCode, connectionLabel(st, snap))
	sb.WriteString(centered(m, st.Title.Render(header)))
	sb.WriteString("\n")
	sb.WriteString(centered(m, renderNotification(m)))
	sb.WriteString("\n\n")

	last := st.Muted.Render("Waiting for the first number...")
	if snap.LastNumber != nil {
		last = "Last number: " + st.BallLast.UnsetWidth().Render(common.BallLabel(*snap.LastNumber, snap.Variant))
	}
	sb.WriteString(centered(m, last))
	sb.WriteString("\n\n")

	var cardView string
	if snap.CurrentCard != nil {
		row, col := m.Cursor()
		cardView = common.BoxStyle.Render(RenderCard(st, *snap.CurrentCard, snap.Variant, row, col))
	} else {
		cardView = common.BoxStyle.Padding(1, 2).Render(st.Muted.Render("No card issued"))
	}
	board := common.BoxStyle.Render(RenderCalledBoard(st, snap.CalledNumbers, snap.LastNumber, snap.Variant))
	sb.WriteString(centered(m, lipgloss.JoinHorizontal(lipgloss.Top, cardView, "  ", board)))
	sb.WriteString("\n\n")

	sb.WriteString(centered(m, renderStatusLine(st, snap)))
	return sb.String()
}

func renderStatusLine(st *common.Styles, snap session.Snapshot) string {
	parts := make([]string, 0, 4)
	if n := len(snap.Cards); n > 1 && snap.CurrentCard != nil {
		for i, c := range snap.Cards {
			if c.ID == snap.CurrentCard.ID {
				parts = append(parts, fmt.Sprintf("Card %d/%d", i+1, n))
				break
			}
		}
	}
	if snap.AutoMark {
		parts = append(parts, "Auto-mark on")
	} else {
		parts = append(parts, "Auto-mark off")
	}
	parts = append(parts, fmt.Sprintf("Called %d", len(snap.CalledNumbers)))
	if snap.ClaimPending {
		parts = append(parts, st.Accent.Render("Checking your claim..."))
	}
	return strings.Join(parts, "  |  ")
}

// RenderCard 渲染一张卡片，光标所在格反色
func RenderCard(st *common.Styles, c card.Card, v card.Variant, cursorRow, cursorCol int) string {
	var rows []string
	if labels := card.ColumnLabels(v); len(labels) > 0 {
		cells := make([]string, len(labels))
		for i, l := range labels {
			cells[i] = st.Header.Render(l)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	for r, line := range c.Grid {
		cells := make([]string, len(line))
		for col, cell := range line {
			var style lipgloss.Style
			switch {
			case cell.Free:
				style = st.CellFree
			case cell.Blank():
				style = st.CellBlank
			case cell.Marked:
				style = st.CellMarked
			default:
				style = st.Cell
			}
			if r == cursorRow && col == cursorCol {
				style = style.Inherit(st.Cursor)
			}
			label := cell.Label()
			if cell.Free {
				label = "★"
			} else if cell.Blank() {
				label = "·"
			}
			cells[col] = style.Render(label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderCalledBoard 已开号码面板，每行 15 个
func RenderCalledBoard(st *common.Styles, called []int, last *int, v card.Variant) string {
	seen := make(map[int]bool, len(called))
	for _, n := range called {
		seen[n] = true
	}

	const perRow = 15
	total := common.BallRange(v)
	labels := card.ColumnLabels(v)

	rows := []string{st.Accent.Render(fmt.Sprintf("Called %d/%d", len(called), total))}
	for start := 1; start <= total; start += perRow {
		cells := make([]string, 0, perRow+1)
		if len(labels) > 0 {
			cells = append(cells, st.Header.Width(2).Render(labels[(start-1)/perRow]))
		}
		for n := start; n < start+perRow && n <= total; n++ {
			text := fmt.Sprintf("%d", n)
			switch {
			case last != nil && *last == n:
				cells = append(cells, st.BallLast.Render(text))
			case seen[n]:
				cells = append(cells, st.BallCalled.Render(text))
			default:
				cells = append(cells, st.Ball.Render("·"))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// GameOverView renders the result screen.
func GameOverView(m model.Model) string {
	st := m.Styles()
	snap := m.Snapshot()
	var sb strings.Builder

	var result string
	switch snap.Outcome {
	case session.OutcomeWon:
		result = st.Success.Render(common.TrophyIcon + " BINGO! You won!")
	default:
		result = st.Warn.Render(fmt.Sprintf("%s won this round", common.TruncateName(snap.WinnerName(), 24)))
	}
	sb.WriteString(centered(m, st.Title.Render("Game over")))
	sb.WriteString("\n\n")
	sb.WriteString(centered(m, result))
	sb.WriteString("\n")
	sb.WriteString(centered(m, renderNotification(m)))
	sb.WriteString("\n\n")

	if snap.CurrentCard != nil {
		sb.WriteString(centered(m, common.BoxStyle.Render(RenderCard(st, *snap.CurrentCard, snap.Variant, -1, -1))))
		sb.WriteString("\n\n")
	}
	sb.WriteString(centered(m, st.Muted.Render(fmt.Sprintf("%d numbers called", len(snap.CalledNumbers)))))
	return sb.String()
}
