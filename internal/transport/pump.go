package transport

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/protocol"
)

// readPump 从服务器读取消息并原样转发，解码交给分发器
func (c *Client) readPump(conn *websocket.Conn, roomID string, gen uint64, done chan struct{}) {
	var readErr error
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] readPump panic recovered: %v", r)
		}
		c.handleReadExit(roomID, gen, done, readErr)
	}()

	conn.SetReadLimit(maxMessageSize)
	c.extendReadDeadline(conn)
	conn.SetPongHandler(func(string) error {
		c.extendReadDeadline(conn)
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			readErr = err
			return
		}
		c.extendReadDeadline(conn)

		select {
		case c.inbound <- Frame{RoomID: roomID, Data: message}:
		case <-done:
			return
		}
	}
}

func (c *Client) extendReadDeadline(conn *websocket.Conn) {
	if c.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
	}
}

// handleReadExit 连接意外断开时通知上层，并按策略尝试重连
func (c *Client) handleReadExit(roomID string, gen uint64, done chan struct{}, err error) {
	if !c.teardown(done) {
		// 主动关闭或已被新连接替换
		return
	}

	if err != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.LogError("channel %s read error: %v", roomID, err)
		c.emit(Event{Kind: EventError, RoomID: roomID, Err: err})
	}
	c.emit(Event{Kind: EventDisconnected, RoomID: roomID, Err: err})

	if !c.opts.Reconnect.Enabled {
		return
	}
	// 在启动协程前登记取消函数，之后的 Close/Open 一定能取消这次重连
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if c.cancelReconnect != nil {
		c.cancelReconnect()
	}
	c.cancelReconnect = cancel
	c.mu.Unlock()

	go c.tryReconnect(ctx, cancel, roomID, gen)
}

// writePump 向服务器写入消息
func (c *Client) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] writePump panic recovered: %v", r)
		}
		_ = conn.Close()
	}()

	for {
		select {
		case message := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.LogError("write failed: %v", err)
				return
			}

		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// heartbeat 定时发送 ping；通道未打开时直接跳过本次，不排队也不重试
func (c *Client) heartbeat(done chan struct{}) {
	ticker := time.NewTicker(c.opts.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.beat()
		case <-done:
			return
		}
	}
}

// beat 发送一次心跳，返回是否已入队
func (c *Client) beat() bool {
	if !c.IsOpen() {
		logger.LogDebug("heartbeat skipped: channel %s", c.State())
		return false
	}
	if err := c.Send(protocol.NewPing()); err != nil {
		logger.LogDebug("heartbeat skipped: %v", err)
		return false
	}
	return true
}
