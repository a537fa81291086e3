package session

import (
	"strings"

	"github.com/palemoky/bingo-client/internal/apperrors"
	"github.com/palemoky/bingo-client/internal/claim"
	"github.com/palemoky/bingo-client/internal/logger"
)

// 玩家命令。全部异步排进协调器循环，立即返回。

// CreateRoom 创建房间并以房主身份加入
func (c *Coordinator) CreateRoom() {
	c.post(func() { c.beginSetup(setupCreate, "") })
}

// QuickPlay 创建房间，延迟后自动开始
func (c *Coordinator) QuickPlay() {
	c.post(func() { c.beginSetup(setupQuickPlay, "") })
}

// JoinRoom 用房间 ID 加入
func (c *Coordinator) JoinRoom(roomID string) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return
	}
	c.post(func() { c.beginSetup(setupJoin, roomID) })
}

// JoinByCode 先向权威服务解析房间码再加入
func (c *Coordinator) JoinByCode(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}
	c.post(func() { c.beginSetup(setupJoinByCode, code) })
}

// StartGame 请求开始游戏
func (c *Coordinator) StartGame() {
	c.post(c.startGame)
}

// ToggleMark 手动标记/取消标记
func (c *Coordinator) ToggleMark(cardID string, row, col int) {
	c.post(func() { c.toggleMark(cardID, row, col) })
}

// SelectCard 切换当前卡片
func (c *Coordinator) SelectCard(cardID string) {
	c.post(func() {
		if c.session != nil && c.session.SelectCard(cardID) {
			c.publish()
		}
	})
}

// SubmitClaim 用当前卡片申报
func (c *Coordinator) SubmitClaim() {
	c.post(c.submitClaim)
}

// SetAutoMark 开关自动标记
func (c *Coordinator) SetAutoMark(on bool) {
	c.post(func() {
		if c.autoMark == on {
			return
		}
		c.autoMark = on
		c.publish()
	})
}

// Reconnect 手动重新打开当前会话的通道
func (c *Coordinator) Reconnect() {
	c.post(func() {
		s := c.session
		if s == nil || s.Connection == ConnConnected || s.Connection == ConnConnecting {
			return
		}
		c.openChannel()
		c.publish()
	})
}

// NewGame 丢弃当前会话回到菜单
func (c *Coordinator) NewGame() {
	c.post(func() {
		c.channel.Close()
		c.claims.Reset()
		c.session = nil
		// 进行中的建房结果作废
		c.setupGen++
		c.busy = false
		c.publish()
	})
}

func (c *Coordinator) startGame() {
	s := c.session
	if s == nil || s.Phase != PhaseLobby {
		return
	}
	ctx := c.ctx
	roomID := s.RoomID

	go func() {
		err := c.auth.StartGame(ctx, roomID)
		c.post(func() {
			if c.session != s {
				return
			}
			if err != nil {
				logger.LogError("start game %s: %v", roomID, err)
				c.raise(setupMessage(apperrors.Setup(MsgStartFailed, err)))
				c.publish()
				return
			}
			// game_started 广播可能先到，Start 幂等
			if s.Start() {
				c.host.LongPulse()
				c.publish()
			}
		})
	}()
}

func (c *Coordinator) toggleMark(cardID string, row, col int) {
	s := c.session
	if s == nil {
		return
	}
	if cardID == "" {
		cardID = s.CurrentCard
	}
	changed, err := s.Cards.ToggleMark(cardID, row, col)
	if err != nil {
		logger.LogError("toggle mark: %v", err)
		return
	}
	if changed {
		c.host.ShortPulse()
		c.publish()
	}
}

func (c *Coordinator) submitClaim() {
	s := c.session
	if s == nil {
		return
	}
	switch s.Phase {
	case PhaseLobby:
		c.raise(MsgNotStarted)
		c.publish()
		return
	case PhaseFinished:
		logger.LogDebug("claim ignored, game already finished")
		return
	}
	if s.CurrentCard == "" {
		c.raise(MsgNoCard)
		c.publish()
		return
	}

	a, err := c.claims.Begin(claim.Request{RoomID: s.RoomID, PlayerID: s.PlayerID, CardID: s.CurrentCard})
	if err != nil {
		logger.LogDebug("claim not submitted: %v", err)
		return
	}
	c.publish()

	ctx := c.ctx
	go func() {
		v, err := c.claims.Submit(ctx, a)
		c.post(func() {
			if c.session != s {
				return
			}
			outcome := c.claims.Resolve(a, v, err, s.WonByOther())
			logger.LogInfo("claim %d for card %s: %s", a.ID, a.CardID, outcome)
			c.publish()
		})
	}()
}
