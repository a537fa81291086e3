package session

import (
	"slices"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/protocol"
)

// Phase 游戏阶段，只能向前推进
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Outcome 本玩家视角的结果
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// ConnState 实时通道状态
type ConnState int

const (
	ConnIdle ConnState = iota
	ConnConnecting
	ConnConnected
	ConnReconnecting
	ConnDisconnected
)

func (s ConnState) String() string {
	switch s {
	case ConnIdle:
		return "idle"
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnReconnecting:
		return "reconnecting"
	case ConnDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session 一局游戏的全部客户端状态，只由协调器循环修改
type Session struct {
	RoomID   string
	RoomCode string
	PlayerID string
	IsHost   bool
	Variant  card.Variant

	Phase         Phase
	CalledNumbers []int
	LastNumber    *int
	LastSequence  int

	Roster  []protocol.PlayerInfo
	Winner  string
	Outcome Outcome

	Connection       ConnState
	ReconnectAttempt int
	ReconnectMax     int

	Cards       *card.Engine
	CurrentCard string

	called map[int]struct{}
}

// NewSession 创建处于 Lobby 的会话
func NewSession(roomID, roomCode, playerID string, isHost bool, variant card.Variant, cards []card.Card) *Session {
	engine := card.NewEngine(cards, variant)
	s := &Session{
		RoomID:   roomID,
		RoomCode: roomCode,
		PlayerID: playerID,
		IsHost:   isHost,
		Variant:  variant,
		Phase:    PhaseLobby,
		Cards:    engine,
		called:   make(map[int]struct{}),
	}
	if ids := engine.IDs(); len(ids) > 0 {
		s.CurrentCard = ids[0]
	}
	return s
}

// Start Lobby → InProgress，返回是否发生了转换
func (s *Session) Start() bool {
	if s.Phase != PhaseLobby {
		return false
	}
	s.Phase = PhaseInProgress
	return true
}

// Finish → Finished，第一次生效的胜者决定结果
func (s *Session) Finish(winner string) bool {
	if s.Phase == PhaseFinished {
		return false
	}
	s.Phase = PhaseFinished
	s.Winner = winner
	if winner != "" && winner == s.PlayerID {
		s.Outcome = OutcomeWon
	} else {
		s.Outcome = OutcomeLost
	}
	return true
}

// WonByOther 游戏是否已由其他玩家赢下
func (s *Session) WonByOther() bool {
	return s.Phase == PhaseFinished && s.Outcome == OutcomeLost
}

// AddNumber 记录开出的号码，重复号码返回 false。
// gap 表示 sequence 不连续（中间有号码丢失）。
func (s *Session) AddNumber(n, sequence int) (added, gap bool) {
	if _, dup := s.called[n]; dup {
		return false, false
	}
	s.called[n] = struct{}{}
	s.CalledNumbers = append(s.CalledNumbers, n)
	s.LastNumber = card.Int(n)

	if sequence > 0 {
		gap = sequence != s.LastSequence+1
		s.LastSequence = sequence
	}
	return true, gap
}

// AddPlayer 加入名单，按 ID 去重；没有 ID 的玩家总是追加
func (s *Session) AddPlayer(p protocol.PlayerInfo) bool {
	if p.ID != "" && slices.ContainsFunc(s.Roster, func(q protocol.PlayerInfo) bool { return q.ID == p.ID }) {
		return false
	}
	s.Roster = append(s.Roster, p)
	return true
}

// SelectCard 切换当前展示的卡片
func (s *Session) SelectCard(cardID string) bool {
	if !s.Cards.Has(cardID) || s.CurrentCard == cardID {
		return false
	}
	s.CurrentCard = cardID
	return true
}
