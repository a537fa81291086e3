// Package session owns the active game session. A single loop applies every
// mutation: inbound frames, channel events, player commands and the
// completions of setup and claim requests.
package session

import (
	"context"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/bingo-client/internal/authority"
	"github.com/palemoky/bingo-client/internal/claim"
	"github.com/palemoky/bingo-client/internal/config"
	"github.com/palemoky/bingo-client/internal/dispatch"
	"github.com/palemoky/bingo-client/internal/host"
	"github.com/palemoky/bingo-client/internal/logger"
	"github.com/palemoky/bingo-client/internal/transport"
)

const commandBuffer = 64

// Channel 协调器使用的实时通道
type Channel interface {
	Open(ctx context.Context, roomID string) error
	Close()
	Inbound() <-chan transport.Frame
	Events() <-chan transport.Event
}

// Options 协调器参数
type Options struct {
	Game config.GameConfig
	// PlayerID 宿主没有身份时使用；也为空则生成访客 ID
	PlayerID string
}

// Coordinator 会话协调器
type Coordinator struct {
	auth    authority.Authority
	channel Channel
	host    host.Capabilities
	opts    Options

	claims     *claim.Controller
	dispatcher *dispatch.Dispatcher

	cmds    chan func()
	stopped chan struct{}
	running atomic.Bool

	// 以下字段只在循环内访问
	ctx      context.Context
	playerID string
	session  *Session
	busy     bool
	setupGen int
	openGen  int
	autoMark bool
	alert    string
	alertSeq int

	subsMu sync.Mutex
	subs   []func(Snapshot)
	latest atomic.Pointer[Snapshot]
}

// New 创建协调器；h 为 nil 时使用 no-op 宿主
func New(auth authority.Authority, channel Channel, h host.Capabilities, opts Options) *Coordinator {
	h = host.OrNoop(h)

	playerID := opts.PlayerID
	if id, ok := h.Identity(); ok && id.ID != "" {
		playerID = id.ID
	}
	if playerID == "" {
		playerID = "guest_" + uuid.NewString()[:8]
	}

	c := &Coordinator{
		auth:     auth,
		channel:  channel,
		host:     h,
		opts:     opts,
		cmds:     make(chan func(), commandBuffer),
		stopped:  make(chan struct{}),
		ctx:      context.Background(),
		playerID: playerID,
		autoMark: opts.Game.AutoMark,
	}
	c.claims = claim.NewController(auth, feedback{c})
	c.dispatcher = dispatch.New(target{c})

	snap := c.buildSnapshot()
	c.latest.Store(&snap)
	return c
}

// PlayerID 当前玩家
func (c *Coordinator) PlayerID() string {
	return c.playerID
}

// OnSnapshot 订阅快照。回调在协调器循环上执行，不能阻塞。
func (c *Coordinator) OnSnapshot(fn func(Snapshot)) {
	c.subsMu.Lock()
	c.subs = append(c.subs, fn)
	c.subsMu.Unlock()
}

// Snapshot 最近一次发布的快照，每次调用返回独立副本
func (c *Coordinator) Snapshot() Snapshot {
	return c.latest.Load().Clone()
}

// Run 运行协调器循环，直到 ctx 结束
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return nil
	}
	c.ctx = ctx
	defer close(c.stopped)
	defer c.channel.Close()

	logger.LogInfo("coordinator started for player %s", c.playerID)
	c.publish()

	inbound := c.channel.Inbound()
	events := c.channel.Events()
	for {
		select {
		case <-ctx.Done():
			logger.LogInfo("coordinator stopped: %v", ctx.Err())
			return nil
		case fn := <-c.cmds:
			c.safe(fn)
		case f := <-inbound:
			c.safe(func() { c.handleFrame(f) })
		case ev := <-events:
			c.safe(func() { c.handleEvent(ev) })
		}
	}
}

// post 把 fn 排进循环；循环已退出时丢弃
func (c *Coordinator) post(fn func()) {
	select {
	case c.cmds <- fn:
	case <-c.stopped:
	}
}

func (c *Coordinator) safe(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] coordinator handler panic recovered: %v", r)
		}
	}()
	fn()
}

// after 延迟 d 后把 fn 排进循环
func (c *Coordinator) after(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { c.post(fn) })
}

func (c *Coordinator) buildSnapshot() Snapshot {
	base := Snapshot{
		Busy:         c.busy,
		PlayerID:     c.playerID,
		AutoMark:     c.autoMark,
		ClaimPending: c.claims.InFlight(),
		Alert:        c.alert,
		AlertSeq:     c.alertSeq,
	}
	return c.session.snapshot(base)
}

// publish 生成快照并通知订阅者，每个订阅者拿到自己的副本
func (c *Coordinator) publish() {
	snap := c.buildSnapshot()
	c.latest.Store(&snap)

	c.subsMu.Lock()
	subs := slices.Clone(c.subs)
	c.subsMu.Unlock()
	for _, fn := range subs {
		fn(snap.Clone())
	}
}

// raise 记录并展示一条提示
func (c *Coordinator) raise(message string) {
	c.alert = message
	c.alertSeq++
	c.host.Alert(message)
}

// feedback 把申报反馈转给宿主，提示同时记入快照
type feedback struct {
	c *Coordinator
}

func (f feedback) NotifySuccess()       { f.c.host.NotifySuccess() }
func (f feedback) NotifyError()         { f.c.host.NotifyError() }
func (f feedback) Alert(message string) { f.c.raise(message) }
