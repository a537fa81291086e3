package view

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/host"
	"github.com/palemoky/bingo-client/internal/protocol"
	"github.com/palemoky/bingo-client/internal/session"
	"github.com/palemoky/bingo-client/internal/ui/common"
	"github.com/palemoky/bingo-client/internal/ui/model"
)

type staticController struct {
	snap session.Snapshot
}

func (staticController) CreateRoom()                  {}
func (staticController) QuickPlay()                   {}
func (staticController) JoinByCode(string)            {}
func (staticController) StartGame()                   {}
func (staticController) ToggleMark(string, int, int)  {}
func (staticController) SelectCard(string)            {}
func (staticController) SubmitClaim()                 {}
func (staticController) SetAutoMark(bool)             {}
func (staticController) Reconnect()                   {}
func (staticController) NewGame()                     {}
func (c staticController) Snapshot() session.Snapshot { return c.snap }

func render(t *testing.T, snap session.Snapshot) string {
	t.Helper()
	m := model.NewBingoModel(staticController{}, common.NewStyles(host.SchemeDark))
	m.SetViewRenderer(CreateViewRenderer())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m.Update(model.SnapshotMsg{Snapshot: snap})
	return m.View()
}

func card75() card.Card {
	grid := make([][]card.Cell, 5)
	for r := range grid {
		grid[r] = make([]card.Cell, 5)
		for c := range grid[r] {
			grid[r][c] = card.Cell{Value: card.Int(c*15 + r + 1)}
		}
	}
	grid[2][2] = card.Cell{Free: true, Marked: true}
	grid[0][0].Marked = true
	return card.Card{ID: "c1", Variant: card.Variant75, Grid: grid}
}

func card90() card.Card {
	row := func(vals ...int) []card.Cell {
		cells := make([]card.Cell, 9)
		for i, v := range vals {
			if v > 0 {
				cells[i] = card.Cell{Value: card.Int(v)}
			}
		}
		return cells
	}
	return card.Card{ID: "c90", Variant: card.Variant90, Grid: [][]card.Cell{
		row(1, 0, 22, 0, 45, 0, 61, 0, 88),
		row(0, 12, 0, 34, 0, 55, 0, 77, 89),
		row(5, 0, 27, 0, 48, 0, 66, 79, 0),
	}}
}

func TestMenuView(t *testing.T) {
	t.Parallel()

	out := render(t, session.Snapshot{PlayerID: "guest_1234"})
	assert.Contains(t, out, "BINGO")
	assert.Contains(t, out, "guest_1234")
	for _, item := range model.MenuItems {
		assert.Contains(t, out, item)
	}
	assert.NotContains(t, out, "Setting up room")

	busy := render(t, session.Snapshot{PlayerID: "p1", Busy: true})
	assert.Contains(t, busy, "Setting up room")
}

func TestLobbyView(t *testing.T) {
	t.Parallel()

	snap := session.Snapshot{
		Active:     true,
		PlayerID:   "p1",
		RoomID:     "room-1",
		RoomCode:   "ROOM1",
		IsHost:     true,
		Phase:      session.PhaseLobby,
		Connection: session.ConnConnected,
		Roster: []protocol.PlayerInfo{
			{ID: "p1", Name: "Abebe"},
			{ID: "p2", Name: "Selam"},
		},
	}

	out := render(t, snap)
	assert.Contains(t, out, "Room ROOM1")
	assert.Contains(t, out, "Players (2)")
	assert.Contains(t, out, "Abebe")
	assert.Contains(t, out, "Selam")
	assert.Contains(t, out, common.HostIcon)
	assert.Contains(t, out, "Press S to start")
	assert.Contains(t, out, "Scan or share ROOM1")

	snap.IsHost = false
	guest := render(t, snap)
	assert.Contains(t, guest, "Waiting for the host")
	assert.NotContains(t, guest, common.HostIcon)
}

func TestGameView(t *testing.T) {
	t.Parallel()

	c := card75()
	snap := session.Snapshot{
		Active:           true,
		PlayerID:         "p1",
		RoomCode:         "ROOM1",
		Variant:          card.Variant75,
		Phase:            session.PhaseInProgress,
		CalledNumbers:    []int{1, 42},
		LastNumber:       card.Int(42),
		CurrentCard:      &c,
		Cards:            []card.Card{c, card75()},
		Connection:       session.ConnReconnecting,
		ReconnectAttempt: 1,
		ReconnectMax:     5,
		AutoMark:         true,
		ClaimPending:     true,
	}

	out := render(t, snap)
	assert.Contains(t, out, "N-42")
	assert.Contains(t, out, "Called 2/75")
	assert.Contains(t, out, "Card 1/2")
	assert.Contains(t, out, "Auto-mark on")
	assert.Contains(t, out, "Checking your claim")
	assert.Contains(t, out, "reconnecting 1/5")
	assert.Contains(t, out, "Reconnecting (1/5)")
}

func TestGameView_NoCard(t *testing.T) {
	t.Parallel()

	out := render(t, session.Snapshot{Active: true, Phase: session.PhaseInProgress})
	assert.Contains(t, out, "No card issued")
	assert.Contains(t, out, "Waiting for the first number")
}

func TestRenderCard(t *testing.T) {
	t.Parallel()

	st := common.NewStyles(host.SchemeLight)

	tests := []struct {
		name    string
		card    card.Card
		variant card.Variant
		want    []string
		lines   int
	}{
		{"75 ball has column labels", card75(), card.Variant75, []string{"B", "I", "N", "G", "O", "★", "1", "65"}, 6},
		{"90 ball has no labels", card90(), card.Variant90, []string{"88", "89", "·"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := RenderCard(st, tt.card, tt.variant, 0, 0)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			assert.Len(t, strings.Split(out, "\n"), tt.lines)
		})
	}
}

func TestRenderCalledBoard(t *testing.T) {
	t.Parallel()

	st := common.NewStyles(host.SchemeLight)

	out75 := RenderCalledBoard(st, []int{7, 23}, card.Int(23), card.Variant75)
	assert.Contains(t, out75, "Called 2/75")
	assert.Contains(t, out75, "23")
	// 标题行 + 5 行
	assert.Len(t, strings.Split(out75, "\n"), 6)

	out90 := RenderCalledBoard(st, nil, nil, card.Variant90)
	assert.Contains(t, out90, "Called 0/90")
	assert.Len(t, strings.Split(out90, "\n"), 7)
}

func TestGameOverView(t *testing.T) {
	t.Parallel()

	c := card75()
	base := session.Snapshot{
		Active:        true,
		PlayerID:      "p1",
		Phase:         session.PhaseFinished,
		CalledNumbers: []int{1, 2, 3},
		CurrentCard:   &c,
		Roster:        []protocol.PlayerInfo{{ID: "p1", Name: "Abebe"}, {ID: "p2", Name: "Selam"}},
	}

	won := base
	won.Winner, won.Outcome = "p1", session.OutcomeWon
	assert.Contains(t, render(t, won), "You won")

	lost := base
	lost.Winner, lost.Outcome = "p2", session.OutcomeLost
	out := render(t, lost)
	assert.Contains(t, out, "Selam won this round")
	assert.Contains(t, out, "3 numbers called")
}

func TestCreateViewRenderer_IncludesHelp(t *testing.T) {
	t.Parallel()

	out := render(t, session.Snapshot{})
	assert.Contains(t, out, "enter")
	assert.Contains(t, out, "quit")
}
