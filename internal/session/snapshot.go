package session

import (
	"slices"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/protocol"
)

// Snapshot 渲染层看到的只读状态，所有切片都是副本
type Snapshot struct {
	Active   bool // 是否有会话
	Busy     bool // 正在创建/加入房间
	PlayerID string

	RoomID   string
	RoomCode string
	IsHost   bool
	Variant  card.Variant
	Phase    Phase

	CalledNumbers []int
	LastNumber    *int

	CurrentCard *card.Card
	Cards       []card.Card

	Roster  []protocol.PlayerInfo
	Winner  string
	Outcome Outcome

	Connection       ConnState
	ReconnectAttempt int
	ReconnectMax     int

	ClaimPending bool
	AutoMark     bool

	// Alert 最近一次提示，AlertSeq 每次提示递增
	Alert    string
	AlertSeq int
}

// snapshot 从会话拷贝出快照；s 为 nil 时只包含会话外字段
func (s *Session) snapshot(base Snapshot) Snapshot {
	if s == nil {
		return base
	}
	snap := base
	snap.Active = true
	snap.PlayerID = s.PlayerID
	snap.RoomID = s.RoomID
	snap.RoomCode = s.RoomCode
	snap.IsHost = s.IsHost
	snap.Variant = s.Variant
	snap.Phase = s.Phase
	snap.CalledNumbers = slices.Clone(s.CalledNumbers)
	if s.LastNumber != nil {
		snap.LastNumber = card.Int(*s.LastNumber)
	}
	if c, ok := s.Cards.Snapshot(s.CurrentCard); ok {
		snap.CurrentCard = &c
	}
	snap.Cards = s.Cards.Cards()
	snap.Roster = slices.Clone(s.Roster)
	snap.Winner = s.Winner
	snap.Outcome = s.Outcome
	snap.Connection = s.Connection
	snap.ReconnectAttempt = s.ReconnectAttempt
	snap.ReconnectMax = s.ReconnectMax
	return snap
}

// Clone 深拷贝，副本与原快照不共享任何可变内存
func (s Snapshot) Clone() Snapshot {
	out := s
	out.CalledNumbers = slices.Clone(s.CalledNumbers)
	if s.LastNumber != nil {
		out.LastNumber = card.Int(*s.LastNumber)
	}
	if s.CurrentCard != nil {
		c := s.CurrentCard.Clone()
		out.CurrentCard = &c
	}
	if s.Cards != nil {
		out.Cards = make([]card.Card, len(s.Cards))
		for i := range s.Cards {
			out.Cards[i] = s.Cards[i].Clone()
		}
	}
	out.Roster = slices.Clone(s.Roster)
	return out
}

// WinnerName 胜者的展示名，名单里找不到时回退到 ID
func (s Snapshot) WinnerName() string {
	for _, p := range s.Roster {
		if p.ID == s.Winner {
			return p.DisplayName()
		}
	}
	return protocol.PlayerInfo{ID: s.Winner}.DisplayName()
}
