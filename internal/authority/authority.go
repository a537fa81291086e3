// Package authority is the HTTP client for the room authority.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/protocol"
)

// ErrNoRoomID 创建房间的响应里没有 room_id
var ErrNoRoomID = errors.New("authority returned no room id")

// StatusError 非 2xx 响应
type StatusError struct {
	Op     string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// CreateRoomRequest POST /api/rooms
type CreateRoomRequest struct {
	Variant        string `json:"variant"`
	CardsPerPlayer int    `json:"cards_per_player"`
	Pattern        string `json:"pattern"`
	AutoDraw       bool   `json:"auto_draw"`
	DrawInterval   int    `json:"draw_interval"`
	PlayerID       string `json:"player_id"`
}

// CreateRoomResponse 创建房间结果
type CreateRoomResponse struct {
	RoomID   string `json:"room_id"`
	RoomCode string `json:"room_code"`
	Variant  string `json:"variant,omitempty"`
}

// JoinResponse 加入房间结果
type JoinResponse struct {
	Message string      `json:"message,omitempty"`
	Cards   []card.Card `json:"cards"`
}

// Room GET /api/rooms/{id}
type Room struct {
	ID            string                `json:"id"`
	HostID        string                `json:"host_id,omitempty"`
	Variant       string                `json:"variant,omitempty"`
	State         string                `json:"state,omitempty"`
	CalledNumbers []int                 `json:"called_numbers,omitempty"`
	Players       []protocol.PlayerInfo `json:"players,omitempty"`
}

// ClaimRequest POST /api/rooms/{id}/claim
type ClaimRequest struct {
	PlayerID string `json:"player_id"`
	CardID   string `json:"card_id"`
}

// ClaimResponse 申报的直接响应，仅供参考
type ClaimResponse struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
}

// Authority 会话协调器依赖的权威服务接口
type Authority interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error)
	JoinRoom(ctx context.Context, roomID, playerID string) (*JoinResponse, error)
	StartGame(ctx context.Context, roomID string) error
	Claim(ctx context.Context, roomID string, req ClaimRequest) (*ClaimResponse, error)
	ResolveRoom(ctx context.Context, codeOrID string) (*Room, error)
}

// Client 基于 net/http 的 Authority 实现
type Client struct {
	origin string
	client *http.Client
}

// NewClient 创建客户端；timeout <= 0 表示不设超时
func NewClient(origin string, timeout time.Duration) *Client {
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

var _ Authority = (*Client)(nil)

// CreateRoom 创建房间
func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error) {
	var resp CreateRoomResponse
	if err := c.do(ctx, "create room", http.MethodPost, "/api/rooms", req, &resp); err != nil {
		return nil, err
	}
	if resp.RoomID == "" {
		return nil, ErrNoRoomID
	}
	return &resp, nil
}

// JoinRoom 加入房间并领取卡片
func (c *Client) JoinRoom(ctx context.Context, roomID, playerID string) (*JoinResponse, error) {
	var resp JoinResponse
	body := map[string]string{"player_id": playerID}
	if err := c.do(ctx, "join room", http.MethodPost, roomPath(roomID, "join"), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartGame 开始游戏，只关心状态码
func (c *Client) StartGame(ctx context.Context, roomID string) error {
	return c.do(ctx, "start game", http.MethodPost, roomPath(roomID, "start"), nil, nil)
}

// Claim 提交申报
func (c *Client) Claim(ctx context.Context, roomID string, req ClaimRequest) (*ClaimResponse, error) {
	var resp ClaimResponse
	if err := c.do(ctx, "claim", http.MethodPost, roomPath(roomID, "claim"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResolveRoom 用房间码或 ID 查询房间
func (c *Client) ResolveRoom(ctx context.Context, codeOrID string) (*Room, error) {
	var room Room
	if err := c.do(ctx, "resolve room", http.MethodGet, roomPath(codeOrID, ""), nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func roomPath(roomID, action string) string {
	p := "/api/rooms/" + url.PathEscape(roomID)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.origin+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// readDetail 提取 {"detail": "..."} 错误说明
func readDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}
