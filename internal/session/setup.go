package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/palemoky/bingo-client/internal/apperrors"
	"github.com/palemoky/bingo-client/internal/authority"
	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/protocol"
)

// 面向玩家的提示
const (
	MsgCreateFailed  = "Failed to create room"
	MsgJoinFailed    = "Failed to join room"
	MsgRoomNotFound  = "Room not found"
	MsgStartFailed   = "Failed to start game"
	MsgConnectFailed = "Could not connect to the game server"
	MsgNotStarted    = "The game has not started yet"
	MsgNoCard        = "No card to claim with"
)

// setupKind 建立会话的方式
type setupKind int

const (
	setupCreate setupKind = iota
	setupQuickPlay
	setupJoin
	setupJoinByCode
)

// setupResult 建立会话所需的全部数据，在辅助 goroutine 中收集
type setupResult struct {
	roomID   string
	roomCode string
	isHost   bool
	variant  card.Variant
	cards    []card.Card
	roster   []protocol.PlayerInfo
}

// beginSetup 在循环内启动一次建房/入房，结果回到循环后才安装会话
func (c *Coordinator) beginSetup(kind setupKind, target string) {
	if c.busy {
		logger.LogDebug("setup already running, ignoring request")
		return
	}
	c.busy = true
	c.setupGen++
	gen := c.setupGen
	ctx := c.ctx
	playerID := c.playerID
	c.publish()

	go func() {
		res, err := c.runSetup(ctx, kind, target, playerID)
		c.post(func() { c.finishSetup(gen, kind, res, err) })
	}()
}

// runSetup 依次调用权威服务：创建 → 加入（或 解析房间码 → 加入）
func (c *Coordinator) runSetup(ctx context.Context, kind setupKind, target, playerID string) (*setupResult, error) {
	g := c.opts.Game
	fallback := card.Variant(g.Variant)
	res := &setupResult{variant: fallback}

	switch kind {
	case setupCreate, setupQuickPlay:
		created, err := c.auth.CreateRoom(ctx, authority.CreateRoomRequest{
			Variant:        g.Variant,
			CardsPerPlayer: g.CardsPerPlayer,
			Pattern:        g.Pattern,
			AutoDraw:       g.AutoDraw,
			DrawInterval:   g.DrawInterval,
			PlayerID:       playerID,
		})
		if err != nil {
			return nil, apperrors.Setup(MsgCreateFailed, err)
		}
		res.roomID = created.RoomID
		res.roomCode = created.RoomCode
		res.isHost = true
		if v, ok := card.ParseVariant(created.Variant); ok {
			res.variant = v
		}
		res.roster = []protocol.PlayerInfo{{ID: playerID}}

	case setupJoin:
		res.roomID = target

	case setupJoinByCode:
		room, err := c.auth.ResolveRoom(ctx, target)
		if err != nil {
			var se *authority.StatusError
			if errors.As(err, &se) && se.Status == http.StatusNotFound {
				return nil, apperrors.Setup(MsgRoomNotFound, err)
			}
			return nil, apperrors.Setup(MsgJoinFailed, err)
		}
		res.roomID = room.ID
		if res.roomID == "" {
			// 权威服务没给 ID，只能假定房间码可以直接当 ID 用
			logger.LogInfo("room %s resolved without id, using code as id", target)
			res.roomID = target
		}
		res.roomCode = target
		res.isHost = room.HostID != "" && room.HostID == playerID
		if v, ok := card.ParseVariant(room.Variant); ok {
			res.variant = v
		}
		res.roster = room.Players
	}

	joined, err := c.auth.JoinRoom(ctx, res.roomID, playerID)
	if err != nil {
		return nil, apperrors.Setup(MsgJoinFailed, err)
	}
	if len(joined.Cards) == 0 {
		return nil, apperrors.Setup(MsgJoinFailed, errors.New("no cards issued"))
	}
	res.cards = joined.Cards
	return res, nil
}

// finishSetup 在循环内安装新会话并打开通道
func (c *Coordinator) finishSetup(gen int, kind setupKind, res *setupResult, err error) {
	if gen != c.setupGen {
		logger.LogDebug("discarding stale setup result %d", gen)
		return
	}
	c.busy = false

	if err != nil {
		logger.LogError("setup failed: %v", err)
		c.raise(setupMessage(err))
		c.publish()
		return
	}

	// 新会话整体替换旧会话
	c.channel.Close()
	c.claims.Reset()
	s := NewSession(res.roomID, res.roomCode, c.playerID, res.isHost, res.variant, res.cards)
	for _, p := range res.roster {
		s.AddPlayer(p)
	}
	c.session = s
	logger.LogInfo("session ready: room %s (code %s), %d card(s), host=%v",
		s.RoomID, s.RoomCode, s.Cards.Len(), s.IsHost)

	c.openChannel()

	if kind == setupQuickPlay {
		c.after(c.opts.Game.QuickPlayDelayDuration(), func() {
			if c.session == s && s.Phase == PhaseLobby {
				c.startGame()
			}
		})
	}
	c.publish()
}

// openChannel 在辅助 goroutine 中打开当前会话的实时通道，拨号期间循环照常处理
func (c *Coordinator) openChannel() {
	s := c.session
	s.Connection = ConnConnecting
	c.openGen++
	gen := c.openGen
	ctx := c.ctx
	roomID := s.RoomID

	go func() {
		err := c.channel.Open(ctx, roomID)
		c.post(func() { c.channelOpened(s, gen, err) })
	}()
}

// channelOpened 拨号结果回到循环；会话已替换或又发起了新的拨号时丢弃。
// 失败时会话保留为断线状态，可以手动重连。
func (c *Coordinator) channelOpened(s *Session, gen int, err error) {
	if c.session != s || gen != c.openGen {
		logger.LogDebug("discarding stale channel open for %s", s.RoomID)
		return
	}
	if err != nil {
		logger.LogError("open channel for %s: %v", s.RoomID, err)
		s.Connection = ConnDisconnected
		c.raise(MsgConnectFailed)
	} else {
		s.Connection = ConnConnected
	}
	c.publish()
}

// setupMessage 提示文本，带上权威服务给出的原因
func setupMessage(err error) string {
	msg := MsgJoinFailed
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	var se *authority.StatusError
	if errors.As(err, &se) && se.Detail != "" && se.Detail != msg {
		return fmt.Sprintf("%s: %s", msg, se.Detail)
	}
	return msg
}
