package session

import (
	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/protocol"
	"github.com/palemoky/bingo-client/internal/transport"
)

// handleFrame 分发一条入站消息；不属于当前会话的消息直接丢弃
func (c *Coordinator) handleFrame(f transport.Frame) {
	if c.session == nil || f.RoomID != c.session.RoomID {
		logger.LogDebug("dropping frame for stale room %q", f.RoomID)
		return
	}
	if err := c.dispatcher.Dispatch(f.Data); err != nil {
		logger.LogError("dropping inbound message: %v", err)
	}
}

// handleEvent 同步通道状态
func (c *Coordinator) handleEvent(ev transport.Event) {
	s := c.session
	if s == nil || ev.RoomID != s.RoomID {
		return
	}

	switch ev.Kind {
	case transport.EventConnected:
		s.Connection = ConnConnected
		s.ReconnectAttempt = 0
	case transport.EventDisconnected:
		logger.LogInfo("channel for room %s disconnected: %v", s.RoomID, ev.Err)
		s.Connection = ConnDisconnected
	case transport.EventReconnecting:
		s.Connection = ConnReconnecting
		s.ReconnectAttempt = ev.Attempt
		s.ReconnectMax = ev.MaxAttempts
	case transport.EventError:
		logger.LogError("channel error for room %s: %v", s.RoomID, ev.Err)
		// 重连放弃时才会带 Attempt
		if ev.Attempt > 0 {
			s.Connection = ConnDisconnected
		}
	}
	c.publish()
}

// target 把分发结果接到协调器，只在循环内被调用
type target struct {
	c *Coordinator
}

func (t target) GameStarted(roomID string) {
	s := t.c.session
	if roomID != "" && roomID != s.RoomID {
		logger.LogDebug("game_started for other room %s", roomID)
		return
	}
	if !s.Start() {
		return
	}
	logger.LogInfo("game started in room %s", s.RoomID)
	t.c.host.LongPulse()
	t.c.publish()
}

func (t target) NumberDrawn(number, sequence int) {
	s := t.c.session
	added, gap := s.AddNumber(number, sequence)
	if !added {
		logger.LogDebug("ignoring repeated number %d", number)
		return
	}
	if gap {
		logger.LogError("number %d arrived out of sequence (sequence %d)", number, sequence)
	}
	if t.c.autoMark && s.Cards.ApplyDraw(number) {
		t.c.host.ShortPulse()
	}
	t.c.publish()
}

func (t target) ClaimResult(valid bool, playerID, message string) {
	s := t.c.session
	if !valid {
		if playerID == "" || playerID == s.PlayerID {
			t.c.claims.Rejected(message)
			t.c.publish()
		}
		return
	}

	if !s.Finish(playerID) {
		logger.LogDebug("ignoring claim_result for %s, game already finished", playerID)
		return
	}
	logger.LogInfo("game finished in room %s, winner %s (%s)", s.RoomID, playerID, s.Outcome)
	t.c.host.LongPulse()
	t.c.publish()
}

func (t target) PlayerJoined(player protocol.PlayerInfo) {
	if t.c.session.AddPlayer(player) {
		t.c.publish()
	}
}

func (t target) Pong() {
	logger.LogDebug("pong")
}
