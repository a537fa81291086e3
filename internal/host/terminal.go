package host

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/sound"
)

// guestPrefix 访客 ID 前缀
const guestPrefix = "guest_"

// Player 可播放提示音的组件
type Player interface {
	Play(cue sound.Cue)
}

// TerminalOptions 终端宿主参数
type TerminalOptions struct {
	PlayerID   string
	PlayerName string
	Theme      string // auto/dark/light
	Sound      Player // nil 表示静音
}

// Terminal 终端里的宿主实现：提示音代替触感，提示文本由界面从快照显示
type Terminal struct {
	identity Identity
	scheme   ColorScheme
	sound    Player
}

var _ Capabilities = (*Terminal)(nil)

// NewTerminal 创建终端宿主。未配置玩家 ID 时生成访客 ID。
func NewTerminal(opts TerminalOptions) *Terminal {
	id := opts.PlayerID
	if id == "" {
		id = guestPrefix + uuid.NewString()[:8]
	}
	name := opts.PlayerName
	if name == "" {
		name = os.Getenv("USER")
	}

	scheme, ok := ParseScheme(opts.Theme)
	if !ok {
		scheme = SchemeLight
		if lipgloss.HasDarkBackground() {
			scheme = SchemeDark
		}
	}

	logger.LogInfo("host identity %s (%s), scheme %s", id, name, scheme)
	return &Terminal{
		identity: Identity{ID: id, Name: name},
		scheme:   scheme,
		sound:    opts.Sound,
	}
}

func (t *Terminal) Identity() (Identity, bool) {
	return t.identity, true
}

func (t *Terminal) ColorScheme() ColorScheme {
	return t.scheme
}

func (t *Terminal) ShortPulse()    { t.play(sound.CueTap) }
func (t *Terminal) LongPulse()     { t.play(sound.CueDraw) }
func (t *Terminal) NotifySuccess() { t.play(sound.CueSuccess) }
func (t *Terminal) NotifyError()   { t.play(sound.CueError) }

func (t *Terminal) Alert(message string) {
	t.play(sound.CueAlert)
	logger.LogInfo("alert: %s", message)
}

func (t *Terminal) play(cue sound.Cue) {
	if t.sound != nil {
		t.sound.Play(cue)
	}
}
