package protocol

import "encoding/json"

// Message 入站消息：type 判别字段 + 原始 JSON
// 服务端消息是扁平对象（{"type":"number_drawn","number":7}），
// 因此 payload 从整条消息中解析。
type Message struct {
	Type MessageType     `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳 ping
)

// 服务端 → 客户端 消息类型
const (
	MsgGameStarted  MessageType = "game_started"  // 游戏开始
	MsgNumberDrawn  MessageType = "number_drawn"  // 开出号码
	MsgClaimResult  MessageType = "claim_result"  // 申报结果（广播）
	MsgPlayerJoined MessageType = "player_joined" // 玩家加入
	MsgPong         MessageType = "pong"          // 心跳 pong
)
