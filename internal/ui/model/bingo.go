// Package model contains the UI model implementations.
package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bingo-client/internal/session"
	"github.com/palemoky/bingo-client/internal/ui/common"
)

const notificationTTL = 3 * time.Second

// MenuItem 主菜单选项
type MenuItem int

const (
	MenuQuickPlay MenuItem = iota
	MenuCreateRoom
	MenuJoinByCode
	MenuQuit
)

// MenuItems 主菜单文本，顺序与 MenuItem 一致
var MenuItems = []string{
	"Quick play",
	"Create room",
	"Join by code",
	"Quit",
}

// BingoModel is the main tea model. All session state comes from snapshots.
type BingoModel struct {
	ctrl   Controller
	styles *common.Styles
	keys   KeyMap

	snap    session.Snapshot
	updates chan session.Snapshot

	// Menu state
	menuIndex int
	joining   bool

	// Card cursor, reset when the current card changes
	cursorRow int
	cursorCol int
	cardID    string

	showingHelp bool

	// System notifications
	notifications map[NotificationType]*SystemNotification
	notifySeq     int

	// UI components
	input  *textinput.Model
	help   help.Model
	width  int
	height int

	// View renderer (injected to break circular import)
	viewRenderer func(Model, Screen) string

	// Key handler (injected to break circular import)
	keyHandler func(Model, tea.KeyMsg) (bool, tea.Cmd)
}

// NewBingoModel creates a new BingoModel bound to ctrl.
func NewBingoModel(ctrl Controller, styles *common.Styles) *BingoModel {
	ti := textinput.New()
	ti.Placeholder = "Room code"
	ti.CharLimit = 16
	ti.Width = 20

	return &BingoModel{
		ctrl:          ctrl,
		styles:        styles,
		keys:          DefaultKeyMap(),
		snap:          ctrl.Snapshot(),
		updates:       make(chan session.Snapshot, 1),
		notifications: make(map[NotificationType]*SystemNotification),
		input:         &ti,
		help:          help.New(),
	}
}

// Publish hands a snapshot to the program. It never blocks; an undelivered
// older snapshot is replaced since each one carries the full state.
func (m *BingoModel) Publish(s session.Snapshot) {
	for {
		select {
		case m.updates <- s:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

func (m *BingoModel) Init() tea.Cmd {
	return tea.Batch(m.listenForSnapshots(), textinput.Blink)
}

func (m *BingoModel) listenForSnapshots() tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-m.updates}
	}
}

// --- Model interface implementation ---

func (m *BingoModel) Snapshot() session.Snapshot { return m.snap }
func (m *BingoModel) Controller() Controller     { return m.ctrl }
func (m *BingoModel) Styles() *common.Styles     { return m.styles }
func (m *BingoModel) Keys() KeyMap               { return m.keys }
func (m *BingoModel) MenuIndex() int             { return m.menuIndex }
func (m *BingoModel) Input() *textinput.Model    { return m.input }
func (m *BingoModel) Help() *help.Model          { return &m.help }
func (m *BingoModel) ShowingHelp() bool          { return m.showingHelp }
func (m *BingoModel) Width() int                 { return m.width }
func (m *BingoModel) Height() int                { return m.height }
func (m *BingoModel) Cursor() (row, col int)     { return m.cursorRow, m.cursorCol }

// SetShowingHelp 切换完整帮助
func (m *BingoModel) SetShowingHelp(show bool) {
	m.showingHelp = show
	m.help.ShowAll = show
}

// Screen derives the screen from the latest snapshot.
func (m *BingoModel) Screen() Screen {
	if !m.snap.Active {
		if m.joining {
			return ScreenJoin
		}
		return ScreenMenu
	}
	switch m.snap.Phase {
	case session.PhaseInProgress:
		return ScreenGame
	case session.PhaseFinished:
		return ScreenGameOver
	default:
		return ScreenLobby
	}
}

// SetMenuIndex 循环选择菜单项
func (m *BingoModel) SetMenuIndex(i int) {
	n := len(MenuItems)
	m.menuIndex = ((i % n) + n) % n
}

// StartJoin 进入输入房间码状态
func (m *BingoModel) StartJoin() {
	m.joining = true
	m.input.Reset()
	m.input.Focus()
}

// CancelJoin 退出输入房间码状态
func (m *BingoModel) CancelJoin() {
	m.joining = false
	m.input.Blur()
}

// MoveCursor 在当前卡片内移动光标，越界时停在边缘
func (m *BingoModel) MoveCursor(dRow, dCol int) {
	c := m.snap.CurrentCard
	if c == nil || c.Rows() == 0 {
		return
	}
	m.cursorRow = clamp(m.cursorRow+dRow, 0, c.Rows()-1)
	m.cursorCol = clamp(m.cursorCol+dCol, 0, c.Cols(m.cursorRow)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

func (m *BingoModel) SetNotification(notifyType NotificationType, message string, temporary bool) tea.Cmd {
	m.notifySeq++
	seq := m.notifySeq
	m.notifications[notifyType] = &SystemNotification{
		Message:   message,
		Type:      notifyType,
		Temporary: temporary,
		seq:       seq,
	}
	if !temporary {
		return nil
	}
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return ClearNotificationMsg{Type: notifyType, Seq: seq}
	})
}

func (m *BingoModel) ClearNotification(notifyType NotificationType) {
	delete(m.notifications, notifyType)
}

func (m *BingoModel) GetCurrentNotification() *SystemNotification {
	priorityOrder := []NotificationType{
		NotifyAlert,
		NotifyWarning,
		NotifyDisconnected,
		NotifyReconnecting,
		NotifyReconnectSuccess,
	}

	for _, notifyType := range priorityOrder {
		if notification, exists := m.notifications[notifyType]; exists {
			return notification
		}
	}
	return nil
}

// Update handles tea messages.
func (m *BingoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case SnapshotMsg:
		cmds = append(cmds, m.applySnapshot(msg.Snapshot), m.listenForSnapshots())

	case ClearNotificationMsg:
		if n, ok := m.notifications[msg.Type]; ok && n.seq == msg.Seq {
			m.ClearNotification(msg.Type)
		}

	case tea.KeyMsg:
		if m.keyHandler != nil {
			handled, keyCmd := m.keyHandler(m, msg)
			if keyCmd != nil {
				cmds = append(cmds, keyCmd)
			}
			if handled {
				return m, tea.Batch(cmds...)
			}
		}
	}

	if m.joining {
		newInput, cmd := m.input.Update(msg)
		*m.input = newInput
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applySnapshot 切换到新快照，并把提示和连接变化转成通知
func (m *BingoModel) applySnapshot(next session.Snapshot) tea.Cmd {
	prev := m.snap
	m.snap = next

	var cmds []tea.Cmd
	if next.AlertSeq > prev.AlertSeq && next.Alert != "" {
		cmds = append(cmds, m.SetNotification(NotifyAlert, "⚠️ "+next.Alert, true))
	}

	if next.Active && m.joining {
		m.CancelJoin()
	}

	cardID := ""
	if next.CurrentCard != nil {
		cardID = next.CurrentCard.ID
	}
	if cardID != m.cardID {
		m.cardID = cardID
		m.cursorRow, m.cursorCol = 0, 0
	}

	cmds = append(cmds, m.syncConnection(prev, next))
	return tea.Batch(cmds...)
}

func (m *BingoModel) syncConnection(prev, next session.Snapshot) tea.Cmd {
	if !next.Active {
		m.ClearNotification(NotifyDisconnected)
		m.ClearNotification(NotifyReconnecting)
		return nil
	}

	switch next.Connection {
	case session.ConnReconnecting:
		m.ClearNotification(NotifyDisconnected)
		return m.SetNotification(NotifyReconnecting,
			fmt.Sprintf("🔄 Reconnecting (%d/%d)...", next.ReconnectAttempt, next.ReconnectMax), false)
	case session.ConnDisconnected:
		m.ClearNotification(NotifyReconnecting)
		return m.SetNotification(NotifyDisconnected, "🔌 Connection lost, press R to reconnect", false)
	case session.ConnConnected:
		wasDown := prev.Active && (prev.Connection == session.ConnReconnecting || prev.Connection == session.ConnDisconnected)
		m.ClearNotification(NotifyReconnecting)
		m.ClearNotification(NotifyDisconnected)
		if wasDown {
			return m.SetNotification(NotifyReconnectSuccess, "✅ Reconnected", true)
		}
	}
	return nil
}

// View renders the model.
func (m *BingoModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.viewRenderer != nil {
		content = m.viewRenderer(m, m.Screen())
	} else {
		content = "View renderer not initialized"
	}

	return common.DocStyle.Render(content)
}

// SetViewRenderer sets the view rendering function.
func (m *BingoModel) SetViewRenderer(fn func(Model, Screen) string) {
	m.viewRenderer = fn
}

// SetKeyHandler sets the keyboard event handler function.
func (m *BingoModel) SetKeyHandler(fn func(Model, tea.KeyMsg) (bool, tea.Cmd)) {
	m.keyHandler = fn
}
