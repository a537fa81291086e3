package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/protocol"
	"github.com/palemoky/bingo-client/internal/transport"
)

func drawn(n int) map[string]any {
	return map[string]any{"type": "number_drawn", "number": n}
}

func TestDrawScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", map[[2]int]int{{0, 0}: 7, {2, 3}: 41}))
	h.frame(map[string]any{"type": "game_started"})

	for _, n := range []int{7, 23, 7, 41} {
		h.frame(drawn(n))
	}

	snap := h.c.Snapshot()
	assert.Equal(t, []int{7, 23, 41}, snap.CalledNumbers)
	require.NotNil(t, snap.LastNumber)
	assert.Equal(t, 41, *snap.LastNumber)
	assert.True(t, cell(snap, 0, 0).Marked)
	assert.True(t, cell(snap, 2, 3).Marked)
	assert.True(t, cell(snap, 2, 2).Marked, "free cell stays marked")
	assert.Equal(t, 3, snap.CurrentCard.MarkedCount())
	// 7 和 41 各有一次命中
	assert.Equal(t, 2, h.host.Count("short"))
}

func TestDraw_AutoMarkOff(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.autoMark = false
	h.install(testCard("c1", map[[2]int]int{{0, 0}: 7}))

	h.frame(drawn(7))

	snap := h.c.Snapshot()
	assert.Equal(t, []int{7}, snap.CalledNumbers)
	assert.False(t, cell(snap, 0, 0).Marked)
	assert.Zero(t, h.host.Count("short"))
}

func TestDraw_SweepsAllCards(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", map[[2]int]int{{0, 0}: 7}), testCard("c2", map[[2]int]int{{4, 4}: 7}))

	h.frame(drawn(7))

	snap := h.c.Snapshot()
	require.Len(t, snap.Cards, 2)
	assert.True(t, snap.Cards[0].Grid[0][0].Marked)
	assert.True(t, snap.Cards[1].Grid[4][4].Marked)
}

func TestPhaseTransitions_Idempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))

	h.frame(map[string]any{"type": "game_started", "room_id": "room-1"})
	h.frame(map[string]any{"type": "game_started"})
	assert.Equal(t, PhaseInProgress, h.c.Snapshot().Phase)
	assert.Equal(t, 1, h.host.Count("long"))

	win := map[string]any{"type": "claim_result", "valid": true, "player_id": "A"}
	h.frame(win)
	h.frame(win)
	h.frame(map[string]any{"type": "claim_result", "valid": true, "player_id": "B"})
	h.frame(map[string]any{"type": "game_started"})

	snap := h.c.Snapshot()
	assert.Equal(t, PhaseFinished, snap.Phase)
	assert.Equal(t, OutcomeWon, snap.Outcome)
	assert.Equal(t, "A", snap.Winner)
	assert.Equal(t, 2, h.host.Count("long"))
}

func TestGameStarted_OtherRoomIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))
	h.frame(map[string]any{"type": "game_started", "room_id": "room-2"})
	assert.Equal(t, PhaseLobby, h.c.Snapshot().Phase)
}

func TestClaimResult_InvalidBroadcast(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))
	h.frame(map[string]any{"type": "game_started"})
	before := h.host.Calls()

	h.frame(map[string]any{"type": "claim_result", "valid": false, "message": "No winning pattern"})

	snap := h.c.Snapshot()
	assert.Equal(t, PhaseInProgress, snap.Phase)
	assert.Equal(t, []string{"No winning pattern"}, h.host.Alerts())
	assert.Equal(t, append(before, "alert"), h.host.Calls())
	assert.Equal(t, "No winning pattern", snap.Alert)
	assert.Equal(t, 1, snap.AlertSeq)
}

func TestClaimResult_InvalidForOtherPlayerIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))
	h.frame(map[string]any{"type": "claim_result", "valid": false, "player_id": "B", "message": "nope"})
	assert.Empty(t, h.host.Alerts())
}

func TestUnknownAndMalformedMessages(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", map[[2]int]int{{0, 0}: 7}))
	h.frame(drawn(7))
	before := h.c.Snapshot()

	h.frame(map[string]any{"type": "chat", "text": "hello"})
	h.frame(map[string]any{"type": "number_drawn"})
	h.frame(map[string]any{"type": "claim_result", "message": "no verdict"})
	h.c.handleFrame(transport.Frame{RoomID: "room-1", Data: []byte("{not json")})
	h.c.handleFrame(transport.Frame{RoomID: "room-1", Data: nil})

	assert.Equal(t, before, h.c.Snapshot())
}

func TestFrameForStaleRoomDropped(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))
	h.c.handleFrame(transport.Frame{RoomID: "old-room", Data: []byte(`{"type":"number_drawn","number":7}`)})
	assert.Empty(t, h.c.Snapshot().CalledNumbers)

	h.c.session = nil
	assert.NotPanics(t, func() { h.frame(drawn(7)) })
}

func TestPlayerJoined(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))
	h.frame(map[string]any{"type": "player_joined", "player": map[string]any{"id": "p2", "name": "Abebe"}})
	h.frame(map[string]any{"type": "player_joined", "player": map[string]any{"id": "p2", "name": "Abebe"}})
	h.frame(map[string]any{"type": "player_joined"})

	roster := h.c.Snapshot().Roster
	require.Len(t, roster, 2)
	assert.Equal(t, "Abebe", roster[0].DisplayName())
	assert.Equal(t, protocol.UnknownPlayerName, roster[1].DisplayName())
	assert.Equal(t, PhaseLobby, h.c.Snapshot().Phase)
}

func TestToggleMark_CellInvariants(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(blankCard("c1"))

	h.c.toggleMark("", 0, 1) // blank
	h.c.toggleMark("", 0, 2) // free
	h.c.toggleMark("", 0, 9) // out of range
	h.c.toggleMark("missing", 0, 0)
	snap := h.c.Snapshot()
	assert.False(t, cell(snap, 0, 1).Marked)
	assert.True(t, cell(snap, 0, 2).Marked)
	assert.Zero(t, h.host.Count("short"))

	h.c.toggleMark("c1", 0, 0)
	assert.True(t, cell(h.c.Snapshot(), 0, 0).Marked)
	h.c.toggleMark("c1", 0, 0)
	assert.False(t, cell(h.c.Snapshot(), 0, 0).Marked, "manual unmark is allowed")
	assert.Equal(t, 2, h.host.Count("short"))

	// 开出的号码不会标记空格
	h.frame(drawn(5))
	snap = h.c.Snapshot()
	assert.True(t, cell(snap, 0, 0).Marked)
	assert.False(t, cell(snap, 0, 1).Marked)
}

func TestChannelEvents(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", nil))

	h.c.handleEvent(transport.Event{Kind: transport.EventDisconnected, RoomID: "room-1", Err: errors.New("eof")})
	assert.Equal(t, ConnDisconnected, h.c.Snapshot().Connection)

	h.c.handleEvent(transport.Event{Kind: transport.EventReconnecting, RoomID: "room-1", Attempt: 2, MaxAttempts: 5})
	snap := h.c.Snapshot()
	assert.Equal(t, ConnReconnecting, snap.Connection)
	assert.Equal(t, 2, snap.ReconnectAttempt)
	assert.Equal(t, 5, snap.ReconnectMax)

	h.c.handleEvent(transport.Event{Kind: transport.EventConnected, RoomID: "room-1"})
	assert.Equal(t, ConnConnected, h.c.Snapshot().Connection)
	assert.Zero(t, h.c.Snapshot().ReconnectAttempt)

	h.c.handleEvent(transport.Event{Kind: transport.EventError, RoomID: "room-1", Err: errors.New("read")})
	assert.Equal(t, ConnConnected, h.c.Snapshot().Connection, "plain error does not change state")

	h.c.handleEvent(transport.Event{Kind: transport.EventError, RoomID: "room-1", Attempt: 5, Err: errors.New("gave up")})
	assert.Equal(t, ConnDisconnected, h.c.Snapshot().Connection)

	// 旧房间的事件忽略
	h.c.handleEvent(transport.Event{Kind: transport.EventConnected, RoomID: "old"})
	assert.Equal(t, ConnDisconnected, h.c.Snapshot().Connection)
	assert.True(t, h.c.Snapshot().Active, "session survives disconnect")
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.install(testCard("c1", map[[2]int]int{{0, 0}: 7}))
	h.frame(drawn(7))

	snap := h.c.Snapshot()
	snap.CalledNumbers[0] = 99
	*snap.LastNumber = 99
	snap.CurrentCard.Grid[0][0].Marked = false
	snap.Cards[0].Grid[0][1].Marked = true

	again := h.c.Snapshot()
	assert.Equal(t, []int{7}, again.CalledNumbers)
	assert.Equal(t, 7, *again.LastNumber)
	assert.True(t, cell(again, 0, 0).Marked)
	assert.False(t, again.Cards[0].Grid[0][1].Marked)
}

func TestPublish_SubscribersGetOwnCopy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	var first, second []Snapshot
	h.c.OnSnapshot(func(s Snapshot) {
		// 订阅者改动自己拿到的快照
		if len(s.CalledNumbers) > 0 {
			s.CalledNumbers[0] = 42
			s.CurrentCard.Grid[0][0].Marked = false
			s.Cards[0].Grid[0][0].Marked = false
		}
		first = append(first, s)
	})
	h.c.OnSnapshot(func(s Snapshot) { second = append(second, s) })

	h.install(testCard("c1", map[[2]int]int{{0, 0}: 7}))
	h.frame(drawn(7))

	require.NotEmpty(t, second)
	last := second[len(second)-1]
	assert.Equal(t, []int{7}, last.CalledNumbers)
	assert.True(t, cell(last, 0, 0).Marked)
	assert.True(t, last.Cards[0].Grid[0][0].Marked)

	snap := h.c.Snapshot()
	assert.Equal(t, []int{7}, snap.CalledNumbers)
	assert.True(t, cell(snap, 0, 0).Marked)
	assert.Equal(t, 42, first[len(first)-1].CalledNumbers[0])
}

func TestSnapshot_Clone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Snapshot{}, Snapshot{}.Clone())

	c := testCard("c1", nil)
	orig := Snapshot{
		CalledNumbers: []int{1},
		LastNumber:    card.Int(1),
		CurrentCard:   &c,
		Cards:         []card.Card{c},
		Roster:        []protocol.PlayerInfo{{ID: "A"}},
	}
	cp := orig.Clone()
	assert.Equal(t, orig, cp)

	*cp.LastNumber = 2
	*cp.CurrentCard.Grid[0][0].Value = 0
	cp.Cards[0].Grid[0][1].Marked = true
	cp.Roster[0].ID = "B"

	assert.Equal(t, 1, *orig.LastNumber)
	assert.Equal(t, 100, *orig.CurrentCard.Grid[0][0].Value)
	assert.False(t, orig.Cards[0].Grid[0][1].Marked)
	assert.Equal(t, "A", orig.Roster[0].ID)
}

func TestSnapshot_WinnerName(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Winner: "B", Roster: []protocol.PlayerInfo{{ID: "B", Name: "Bekele"}}}
	assert.Equal(t, "Bekele", snap.WinnerName())
	snap.Winner = "C"
	assert.Equal(t, "C", snap.WinnerName())
}

func TestSelectCard_PublishesCurrentCard(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	s := h.install(testCard("c1", nil), testCard("c2", nil))
	require.True(t, s.SelectCard("c2"))
	h.c.publish()
	assert.Equal(t, "c2", h.c.Snapshot().CurrentCard.ID)
	assert.Equal(t, card.Variant75, h.c.Snapshot().CurrentCard.Variant)
}
