package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/bingo-client/internal/apperrors"
	"github.com/palemoky/bingo-client/internal/config"
	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/protocol/codec"
)

const (
	// 消息最大大小
	maxMessageSize = 64 * 1024

	inboundBuffer = 256
	eventBuffer   = 16
)

var (
	// ErrSendBufferFull 发送队列已满
	ErrSendBufferFull = errors.New("send buffer full")
	// errSuperseded 拨号期间通道已被 Open/Close 替换
	errSuperseded = errors.New("connection superseded")
)

// State 通道状态
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventKind 生命周期事件类型
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventError
	EventReconnecting
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventError:
		return "error"
	case EventReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Event 生命周期通知
type Event struct {
	Kind        EventKind
	RoomID      string
	Attempt     int
	MaxAttempts int
	Err         error
}

// Frame 一条入站原始消息，附带来源房间
type Frame struct {
	RoomID string
	Data   []byte
}

// ReconnectPolicy 断线重连策略
type ReconnectPolicy struct {
	Enabled         bool
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     int
}

// Options 通道参数
type Options struct {
	HeartbeatInterval time.Duration
	HandshakeTimeout  time.Duration
	WriteWait         time.Duration
	ReadTimeout       time.Duration // 0 表示不设读超时
	SendBuffer        int
	Reconnect         ReconnectPolicy
}

// OptionsFromConfig 从配置构造通道参数
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HeartbeatInterval: cfg.Connection.HeartbeatDuration(),
		HandshakeTimeout:  cfg.Connection.HandshakeDuration(),
		WriteWait:         cfg.Connection.WriteWaitDuration(),
		ReadTimeout:       cfg.Connection.ReadTimeoutDuration(),
		SendBuffer:        cfg.Connection.SendBuffer,
		Reconnect: ReconnectPolicy{
			Enabled:         cfg.Reconnect.Enabled,
			InitialInterval: cfg.Reconnect.InitialIntervalDuration(),
			MaxInterval:     cfg.Reconnect.MaxIntervalDuration(),
			MaxAttempts:     cfg.Reconnect.MaxAttempts,
		},
	}
}

// Endpoint 根据页面 origin 推导通道地址：https → wss，其余 → ws
func Endpoint(origin, roomID string) (string, error) {
	if roomID == "" {
		return "", errors.New("empty room id")
	}
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("origin %q has no host", origin)
	}

	scheme := "ws"
	if strings.EqualFold(u.Scheme, "https") {
		scheme = "wss"
	}
	ws := url.URL{Scheme: scheme, Host: u.Host, Path: "/ws/" + roomID}
	return ws.String(), nil
}

// Client WebSocket 客户端，一个实例服务一个 Session 的实时通道。
// Inbound 和 Events 在整个生命周期内保持不变，重连不会替换它们。
type Client struct {
	origin string
	opts   Options
	dialer *websocket.Dialer

	inbound chan Frame
	events  chan Event

	mu     sync.Mutex
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	state  State
	roomID string
	// gen 每次 Open/Close 递增，旧的拨号和重连据此作废
	gen    uint64

	// 取消正在进行的重连
	cancelReconnect context.CancelFunc
}

// NewClient 创建客户端
func NewClient(origin string, opts Options) *Client {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = 10 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	return &Client{
		origin: origin,
		opts:   opts,
		dialer: &websocket.Dialer{
			HandshakeTimeout: opts.HandshakeTimeout,
			Proxy:            websocket.DefaultDialer.Proxy,
		},
		inbound: make(chan Frame, inboundBuffer),
		events:  make(chan Event, eventBuffer),
	}
}

// Inbound 入站消息流
func (c *Client) Inbound() <-chan Frame {
	return c.inbound
}

// Events 生命周期事件流
func (c *Client) Events() <-chan Event {
	return c.events
}

// Open 打开到 roomID 的通道；已有连接会先被关闭
func (c *Client) Open(ctx context.Context, roomID string) error {
	gen := c.invalidate()

	if err := c.connect(ctx, roomID, gen); err != nil {
		c.mu.Lock()
		if c.gen == gen {
			c.state = StateClosed
		}
		c.mu.Unlock()
		return apperrors.Channel("open "+roomID, err)
	}
	return nil
}

// connect 拨号并启动读写协程。gen 已过期时不安装连接。
func (c *Client) connect(ctx context.Context, roomID string, gen uint64) error {
	endpoint, err := Endpoint(c.origin, roomID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return errSuperseded
	}
	c.state = StateConnecting
	c.roomID = roomID
	c.mu.Unlock()

	conn, resp, err := c.dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return err
	}

	done := make(chan struct{})
	send := make(chan []byte, c.opts.SendBuffer)

	c.mu.Lock()
	if c.gen != gen || ctx.Err() != nil {
		c.mu.Unlock()
		_ = conn.Close()
		logger.LogDebug("discarding superseded connection to %s", endpoint)
		return errSuperseded
	}
	c.conn = conn
	c.send = send
	c.done = done
	c.state = StateOpen
	c.mu.Unlock()

	go c.readPump(conn, roomID, gen, done)
	go c.writePump(conn, send, done)
	if c.opts.HeartbeatInterval > 0 {
		go c.heartbeat(done)
	}

	logger.LogInfo("channel open: %s", endpoint)
	c.emit(Event{Kind: EventConnected, RoomID: roomID})
	return nil
}

// Send 编码并排队一条出站消息
func (c *Client) Send(v any) error {
	data, err := codec.Encode(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateOpen {
		return apperrors.ErrNotConnected
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close 主动关闭通道，不会触发重连或 Disconnected 事件
func (c *Client) Close() {
	c.invalidate()
}

// invalidate 作废进行中的拨号和重连并关闭当前连接，返回新的 gen
func (c *Client) invalidate() uint64 {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	cancel := c.cancelReconnect
	c.cancelReconnect = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.teardownCurrent()
	return gen
}

// State 当前通道状态
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen 通道是否可写
func (c *Client) IsOpen() bool {
	return c.State() == StateOpen
}

func (c *Client) teardownCurrent() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		c.teardown(done)
	}
}

// teardown 关闭 done 对应的连接。只有当 done 仍是当前连接时返回 true，
// 过期连接的读协程据此避免误报断线。
func (c *Client) teardown(done chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != done {
		return false
	}
	// writePump 收到 done 后发送关闭帧并关闭底层连接
	close(done)
	c.conn = nil
	c.send = nil
	c.done = nil
	c.state = StateClosed
	return true
}

func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		logger.LogError("event buffer full, dropping %s event", ev.Kind)
	}
}
