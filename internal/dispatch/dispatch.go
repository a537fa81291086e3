// Package dispatch routes inbound channel messages to the session.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/palemoky/bingo-client/internal/apperrors"
	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/protocol"
	"github.com/palemoky/bingo-client/internal/protocol/codec"
)

// ErrMissingField 消息缺少必填字段
var ErrMissingField = errors.New("missing required field")

// Target 接收分发结果，由会话协调器实现
type Target interface {
	GameStarted(roomID string)
	NumberDrawn(number, sequence int)
	ClaimResult(valid bool, playerID, message string)
	PlayerJoined(player protocol.PlayerInfo)
	Pong()
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(msg *protocol.Message) error

// Dispatcher 按 type 把消息路由到唯一的处理器。
// 不加锁，调用方保证串行调用。
type Dispatcher struct {
	target   Target
	handlers map[protocol.MessageType]handlerFunc
}

// New 创建分发器
func New(target Target) *Dispatcher {
	d := &Dispatcher{target: target}
	d.initHandlers()
	return d
}

// initHandlers 初始化消息处理器映射
func (d *Dispatcher) initHandlers() {
	d.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgGameStarted:  d.handleGameStarted,
		protocol.MsgNumberDrawn:  d.handleNumberDrawn,
		protocol.MsgClaimResult:  d.handleClaimResult,
		protocol.MsgPlayerJoined: d.handlePlayerJoined,
		protocol.MsgPong:         func(*protocol.Message) error { d.target.Pong(); return nil },
	}
}

// Dispatch 解码一条原始消息并同步处理。
// 未知类型返回 nil；无法解码或缺少必填字段返回 protocol 错误，调用方记录后丢弃。
func (d *Dispatcher) Dispatch(raw []byte) error {
	msg, err := codec.Decode(raw)
	if err != nil {
		return apperrors.Protocol("undecodable message", err)
	}
	defer codec.PutMessage(msg)

	handler, ok := d.handlers[msg.Type]
	if !ok {
		logger.LogDebug("ignoring unknown message type %q", msg.Type)
		return nil
	}
	if err := handler(msg); err != nil {
		return apperrors.Protocol(string(msg.Type), err)
	}
	return nil
}

func (d *Dispatcher) handleGameStarted(msg *protocol.Message) error {
	// room_id 可选，解析失败也不影响开始
	var roomID string
	if p, err := codec.ParsePayload[protocol.GameStartedPayload](msg); err == nil {
		roomID = p.RoomID
	}
	d.target.GameStarted(roomID)
	return nil
}

func (d *Dispatcher) handleNumberDrawn(msg *protocol.Message) error {
	p, err := codec.ParsePayload[protocol.NumberDrawnPayload](msg)
	if err != nil {
		return err
	}
	if p.Number == nil {
		return missing("number")
	}
	d.target.NumberDrawn(*p.Number, p.Sequence)
	return nil
}

func (d *Dispatcher) handleClaimResult(msg *protocol.Message) error {
	p, err := codec.ParsePayload[protocol.ClaimResultPayload](msg)
	if err != nil {
		return err
	}
	if p.Valid == nil {
		return missing("valid")
	}
	d.target.ClaimResult(*p.Valid, p.PlayerID, p.Message)
	return nil
}

func (d *Dispatcher) handlePlayerJoined(msg *protocol.Message) error {
	var player protocol.PlayerInfo
	// player 缺失或格式不对都降级为占位玩家
	if p, err := codec.ParsePayload[protocol.PlayerJoinedPayload](msg); err == nil && p.Player != nil {
		player = *p.Player
	}
	d.target.PlayerJoined(player)
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
