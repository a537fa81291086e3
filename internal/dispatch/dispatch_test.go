package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/bingo-client/internal/apperrors"
	"github.com/palemoky/bingo-client/internal/protocol"
)

type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) GameStarted(roomID string)        { m.Called(roomID) }
func (m *mockTarget) NumberDrawn(number, sequence int) { m.Called(number, sequence) }
func (m *mockTarget) ClaimResult(valid bool, playerID, message string) {
	m.Called(valid, playerID, message)
}
func (m *mockTarget) PlayerJoined(player protocol.PlayerInfo) { m.Called(player) }
func (m *mockTarget) Pong()                                   { m.Called() }

func TestDispatch_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect func(m *mockTarget)
	}{
		{
			name:   "game_started",
			raw:    `{"type":"game_started","room_id":"r1"}`,
			expect: func(m *mockTarget) { m.On("GameStarted", "r1").Once() },
		},
		{
			name:   "game_started without room",
			raw:    `{"type":"game_started"}`,
			expect: func(m *mockTarget) { m.On("GameStarted", "").Once() },
		},
		{
			name:   "number_drawn",
			raw:    `{"type":"number_drawn","number":41,"sequence":3}`,
			expect: func(m *mockTarget) { m.On("NumberDrawn", 41, 3).Once() },
		},
		{
			name:   "number_drawn without sequence",
			raw:    `{"type":"number_drawn","number":7}`,
			expect: func(m *mockTarget) { m.On("NumberDrawn", 7, 0).Once() },
		},
		{
			name:   "claim_result invalid",
			raw:    `{"type":"claim_result","valid":false,"message":"No winning pattern"}`,
			expect: func(m *mockTarget) { m.On("ClaimResult", false, "", "No winning pattern").Once() },
		},
		{
			name:   "claim_result valid",
			raw:    `{"type":"claim_result","valid":true,"player_id":"B"}`,
			expect: func(m *mockTarget) { m.On("ClaimResult", true, "B", "").Once() },
		},
		{
			name: "player_joined",
			raw:  `{"type":"player_joined","player":{"id":"p2","name":"Abebe"}}`,
			expect: func(m *mockTarget) {
				m.On("PlayerJoined", protocol.PlayerInfo{ID: "p2", Name: "Abebe"}).Once()
			},
		},
		{
			name:   "player_joined without player",
			raw:    `{"type":"player_joined"}`,
			expect: func(m *mockTarget) { m.On("PlayerJoined", protocol.PlayerInfo{}).Once() },
		},
		{
			name:   "player_joined with malformed player",
			raw:    `{"type":"player_joined","player":"oops"}`,
			expect: func(m *mockTarget) { m.On("PlayerJoined", protocol.PlayerInfo{}).Once() },
		},
		{
			name:   "pong",
			raw:    `{"type":"pong"}`,
			expect: func(m *mockTarget) { m.On("Pong").Once() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target := &mockTarget{}
			tt.expect(target)

			require.NoError(t, New(target).Dispatch([]byte(tt.raw)))
			target.AssertExpectations(t)
		})
	}
}

func TestDispatch_UnknownTypeIsNoop(t *testing.T) {
	t.Parallel()

	target := &mockTarget{}
	d := New(target)

	assert.NoError(t, d.Dispatch([]byte(`{"type":"chat","text":"hi"}`)))
	assert.NotContains(t, d.handlers, protocol.MessageType("chat"))
	target.AssertNotCalled(t, "GameStarted", mock.Anything)
	target.AssertNotCalled(t, "NumberDrawn", mock.Anything, mock.Anything)
	target.AssertNotCalled(t, "ClaimResult", mock.Anything, mock.Anything, mock.Anything)
	target.AssertNotCalled(t, "PlayerJoined", mock.Anything)
}

func TestDispatch_ProtocolErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		missing bool
	}{
		{"not json", `{not json`, false},
		{"empty", ``, false},
		{"no type", `{"number":7}`, false},
		{"number missing", `{"type":"number_drawn"}`, true},
		{"number wrong type", `{"type":"number_drawn","number":"seven"}`, false},
		{"valid missing", `{"type":"claim_result","message":"x"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target := &mockTarget{}

			err := New(target).Dispatch([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindProtocol))
			assert.Equal(t, tt.missing, errors.Is(err, ErrMissingField))
			target.AssertExpectations(t)
		})
	}
}
