// Package model defines the core types and interfaces for the UI.
package model

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bingo-client/internal/session"
	"github.com/palemoky/bingo-client/internal/ui/common"
)

// Screen is the screen currently shown, derived from the session snapshot.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenJoin
	ScreenLobby
	ScreenGame
	ScreenGameOver
)

// NotificationType represents types of system notifications.
type NotificationType int

const (
	NotifyAlert            NotificationType = iota // 会话提示（临时）
	NotifyWarning                                  // 操作提示（临时）
	NotifyDisconnected                             // 连接断开（持久）
	NotifyReconnecting                             // 重连中（持久）
	NotifyReconnectSuccess                         // 重连成功（临时）
)

// SystemNotification represents a system notification.
type SystemNotification struct {
	Message   string
	Type      NotificationType
	Temporary bool // 是否为临时通知（3秒后自动消失）
	seq       int
}

// --- Tea Messages ---

// SnapshotMsg carries a new session snapshot into the program.
type SnapshotMsg struct {
	Snapshot session.Snapshot
}

// ClearNotificationMsg clears a temporary notification unless it was replaced since.
type ClearNotificationMsg struct {
	Type NotificationType
	Seq  int
}

// --- Controller ---

// Controller is the command surface of the session coordinator.
type Controller interface {
	CreateRoom()
	QuickPlay()
	JoinByCode(code string)
	StartGame()
	ToggleMark(cardID string, row, col int)
	SelectCard(cardID string)
	SubmitClaim()
	SetAutoMark(on bool)
	Reconnect()
	NewGame()
	Snapshot() session.Snapshot
}

// --- Model Interface ---

// Model is the interface of BingoModel used by the view and input packages.
type Model interface {
	Screen() Screen
	Snapshot() session.Snapshot
	Controller() Controller
	Styles() *common.Styles
	Keys() KeyMap

	// Menu
	MenuIndex() int
	SetMenuIndex(int)
	StartJoin()
	CancelJoin()

	// Card cursor
	Cursor() (row, col int)
	MoveCursor(dRow, dCol int)

	// UI components
	Input() *textinput.Model
	Help() *help.Model
	ShowingHelp() bool
	SetShowingHelp(bool)

	// Notification management
	SetNotification(notifyType NotificationType, message string, temporary bool) tea.Cmd
	ClearNotification(notifyType NotificationType)
	GetCurrentNotification() *SystemNotification

	// Dimensions
	Width() int
	Height() int
}
