package model

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap 所有按键绑定
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding

	Start     key.Binding
	Mark      key.Binding
	Claim     key.Binding
	NextCard  key.Binding
	AutoMark  key.Binding
	Reconnect key.Binding
	NewGame   key.Binding
}

// DefaultKeyMap 默认按键
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Start:     key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start game")),
		Mark:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "mark")),
		Claim:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "BINGO!")),
		NextCard:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next card")),
		AutoMark:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-mark")),
		Reconnect: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reconnect")),
		NewGame:   key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "new game")),
	}
}

// screenKeys 某个界面的帮助内容，实现 help.KeyMap
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (s screenKeys) ShortHelp() []key.Binding  { return s.short }
func (s screenKeys) FullHelp() [][]key.Binding { return s.full }

// ForScreen 返回界面对应的帮助按键
func (k KeyMap) ForScreen(screen Screen) help.KeyMap {
	switch screen {
	case ScreenJoin:
		return screenKeys{short: []key.Binding{k.Select, k.Back}}
	case ScreenLobby:
		return screenKeys{
			short: []key.Binding{k.Start, k.Back, k.Help},
			full:  [][]key.Binding{{k.Start, k.Back}, {k.Reconnect, k.Quit}},
		}
	case ScreenGame:
		return screenKeys{
			short: []key.Binding{k.Mark, k.Claim, k.NextCard, k.AutoMark, k.Help},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Left, k.Right},
				{k.Mark, k.Claim, k.NextCard, k.AutoMark},
				{k.Reconnect, k.Quit},
			},
		}
	case ScreenGameOver:
		return screenKeys{short: []key.Binding{k.NewGame, k.Quit}}
	default:
		return screenKeys{
			short: []key.Binding{k.Up, k.Down, k.Select, k.Quit},
		}
	}
}
