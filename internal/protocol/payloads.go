package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求，只有 type 字段
type PingPayload struct {
	Type MessageType `json:"type"`
}

// NewPing 构造心跳消息
func NewPing() PingPayload {
	return PingPayload{Type: MsgPing}
}

// --- 服务端推送 Payloads ---

// GameStartedPayload 游戏开始通知
type GameStartedPayload struct {
	RoomID string `json:"room_id,omitempty"`
}

// NumberDrawnPayload 开号通知，number 必填
type NumberDrawnPayload struct {
	Number   *int `json:"number"`
	Sequence int  `json:"sequence,omitempty"` // 第几个号码，从 1 开始
}

// ClaimResultPayload 申报结果广播，valid 必填
type ClaimResultPayload struct {
	Valid    *bool  `json:"valid"`
	PlayerID string `json:"player_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// PlayerJoinedPayload 玩家加入通知
type PlayerJoinedPayload struct {
	Player *PlayerInfo `json:"player,omitempty"`
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the name to show for the player, never empty.
func (p PlayerInfo) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.ID != "":
		return p.ID
	default:
		return UnknownPlayerName
	}
}

// UnknownPlayerName 缺失玩家名时的占位
const UnknownPlayerName = "Player"
