package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bingo-client/internal/authority"
	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/config"
	"github.com/palemoky/bingo-client/internal/protocol/codec"
	"github.com/palemoky/bingo-client/internal/testutil"
	"github.com/palemoky/bingo-client/internal/transport"
)

// testCard builds a 5x5 card with values 100+row*10+col, a free centre and
// the given overrides.
func testCard(id string, overrides map[[2]int]int) card.Card {
	grid := make([][]card.Cell, 5)
	for r := range grid {
		grid[r] = make([]card.Cell, 5)
		for c := range grid[r] {
			v := 100 + r*10 + c
			if o, ok := overrides[[2]int{r, c}]; ok {
				v = o
			}
			grid[r][c] = card.Cell{Value: card.Int(v)}
		}
	}
	grid[2][2] = card.Cell{Free: true}
	return card.Card{ID: id, Grid: grid}
}

// blankCard is a 1x3 row: valued, blank, free.
func blankCard(id string) card.Card {
	return card.Card{ID: id, Grid: [][]card.Cell{{{Value: card.Int(5)}, {}, {Free: true}}}}
}

type fakeChannel struct {
	mu      sync.Mutex
	opened  []string
	closed  int
	openErr error

	// openGate 非 nil 时 Open 阻塞到它关闭，模拟慢握手
	openGate chan struct{}

	inbound chan transport.Frame
	events  chan transport.Event
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		inbound: make(chan transport.Frame, 64),
		events:  make(chan transport.Event, 16),
	}
}

func (f *fakeChannel) Open(_ context.Context, roomID string) error {
	if f.openGate != nil {
		<-f.openGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = append(f.opened, roomID)
	return nil
}

func (f *fakeChannel) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeChannel) Inbound() <-chan transport.Frame { return f.inbound }
func (f *fakeChannel) Events() <-chan transport.Event  { return f.events }

func (f *fakeChannel) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

func (f *fakeChannel) push(roomID string, v any) {
	f.inbound <- transport.Frame{RoomID: roomID, Data: mustEncode(v)}
}

func mustEncode(v any) []byte {
	data, err := codec.Encode(v)
	if err != nil {
		panic(err)
	}
	return data
}

type mockAuthority struct {
	mock.Mock
}

var _ authority.Authority = (*mockAuthority)(nil)

func (m *mockAuthority) CreateRoom(ctx context.Context, req authority.CreateRoomRequest) (*authority.CreateRoomResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authority.CreateRoomResponse), args.Error(1)
}

func (m *mockAuthority) JoinRoom(ctx context.Context, roomID, playerID string) (*authority.JoinResponse, error) {
	args := m.Called(ctx, roomID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authority.JoinResponse), args.Error(1)
}

func (m *mockAuthority) StartGame(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *mockAuthority) Claim(ctx context.Context, roomID string, req authority.ClaimRequest) (*authority.ClaimResponse, error) {
	args := m.Called(ctx, roomID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authority.ClaimResponse), args.Error(1)
}

func (m *mockAuthority) ResolveRoom(ctx context.Context, codeOrID string) (*authority.Room, error) {
	args := m.Called(ctx, codeOrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authority.Room), args.Error(1)
}

type harness struct {
	c    *Coordinator
	auth *mockAuthority
	ch   *fakeChannel
	host *testutil.RecordingHost
}

func testGameConfig() config.GameConfig {
	g := config.Default().Game
	g.QuickPlayDelay = 20
	return g
}

// newHarness builds a coordinator for player A without starting its loop.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		auth: &mockAuthority{},
		ch:   newFakeChannel(),
		host: &testutil.RecordingHost{ID: "A", Name: "Alice"},
	}
	h.c = New(h.auth, h.ch, h.host, Options{Game: testGameConfig()})
	return h
}

// call runs fn on the loop and waits for it, so everything queued before it
// has been applied.
func (c *Coordinator) call(fn func()) {
	done := make(chan struct{})
	c.post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-c.stopped:
	}
}

// run starts the loop and stops it when the test ends.
func (h *harness) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// install puts an in-progress session for room-1 in place directly.
func (h *harness) install(cards ...card.Card) *Session {
	s := NewSession("room-1", "ROOM1", h.c.playerID, false, card.Variant75, cards)
	s.Connection = ConnConnected
	h.c.session = s
	h.c.publish()
	return s
}

// frame feeds one message through the same path as the loop does.
func (h *harness) frame(v any) {
	h.c.handleFrame(transport.Frame{RoomID: "room-1", Data: mustEncode(v)})
}

func (h *harness) eventually(t *testing.T, pred func(Snapshot) bool, msg string) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool { return pred(h.c.Snapshot()) }, 3*time.Second, 5*time.Millisecond, msg)
	return h.c.Snapshot()
}

func cell(s Snapshot, row, col int) card.Cell {
	return s.CurrentCard.Grid[row][col]
}
