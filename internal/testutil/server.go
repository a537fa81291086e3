//go:build !production

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/protocol"
	"github.com/palemoky/bingo-client/internal/protocol/codec"
)

// Request 记录的一次 HTTP 请求
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server 同源的假权威服务：REST 接口 + /ws/{room} 实时通道
type Server struct {
	*httptest.Server

	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    map[*websocket.Conn]string
	requests []Request

	// 行为配置，需在发请求前设置
	RoomID       string
	RoomCode     string
	HostID       string
	Players      []protocol.PlayerInfo
	Cards        []card.Card
	CreateFail   bool
	JoinFail     bool
	StartStatus  int
	ResolveFail  bool
	ClaimDelay   time.Duration
	ClaimFail    bool
	ClaimVerdict func(playerID, cardID string) (bool, string)
	AutoPong     bool

	received  chan []byte
	connected chan string
}

// NewServer 启动假服务
func NewServer() *Server {
	s := &Server{
		conns:       make(map[*websocket.Conn]string),
		RoomID:      "room-1",
		RoomCode:    "ROOM1",
		StartStatus: http.StatusOK,
		AutoPong:    true,
		received:    make(chan []byte, 64),
		connected:   make(chan string, 16),
	}
	s.ClaimVerdict = func(string, string) (bool, string) {
		return false, "No winning pattern"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", s.handleCreate)
	mux.HandleFunc("GET /api/rooms/{id}", s.handleGet)
	mux.HandleFunc("POST /api/rooms/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /api/rooms/{id}/start", s.handleStart)
	mux.HandleFunc("POST /api/rooms/{id}/claim", s.handleClaim)
	mux.HandleFunc("/ws/{id}", s.handleWS)

	s.Server = httptest.NewServer(mux)
	return s
}

// Origin 返回页面 origin（http://127.0.0.1:port）
func (s *Server) Origin() string {
	return s.URL
}

// Requests 返回已记录的 REST 请求
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Received 客户端发来的实时消息
func (s *Server) Received() <-chan []byte {
	return s.received
}

// Connected 每建立一条实时连接推送一次房间 ID
func (s *Server) Connected() <-chan string {
	return s.connected
}

// ConnCount 当前实时连接数
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Broadcast 向所有实时连接推送 v 的 JSON
func (s *Server) Broadcast(v any) {
	data, err := codec.Encode(v)
	if err != nil {
		panic(err)
	}
	s.BroadcastRaw(data)
}

// BroadcastRaw 推送原始字节，可用于构造畸形消息
func (s *Server) BroadcastRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// DropAll 直接断开所有实时连接（不发送关闭帧）
func (s *Server) DropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.NetConn().Close()
		delete(s.conns, conn)
	}
}

func (s *Server) record(r *http.Request) map[string]any {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
	s.mu.Unlock()
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body := s.record(r)
	if s.CreateFail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "db down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":   s.RoomID,
		"room_code": s.RoomCode,
		"variant":   body["variant"],
		"state":     "lobby",
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	id := r.PathValue("id")
	if s.ResolveFail || (id != s.RoomID && id != s.RoomCode) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Room not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      s.RoomID,
		"host_id": s.HostID,
		"state":   "lobby",
		"variant": "75",
		"players": s.Players,
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if s.JoinFail || r.PathValue("id") != s.RoomID {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Room not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Joined room successfully",
		"cards":   s.Cards,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if s.StartStatus != http.StatusOK {
		writeJSON(w, s.StartStatus, map[string]string{"detail": "Game already started"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Game started", "state": "running"})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	body := s.record(r)
	if s.ClaimDelay > 0 {
		time.Sleep(s.ClaimDelay)
	}
	if s.ClaimFail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		return
	}
	playerID, _ := body["player_id"].(string)
	cardID, _ := body["card_id"].(string)
	valid, msg := s.ClaimVerdict(playerID, cardID)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     valid,
		"message":   msg,
		"player_id": playerID,
		"status":    map[bool]string{true: "accepted", false: "rejected"}[valid],
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	room := r.PathValue("id")

	s.mu.Lock()
	s.conns[conn] = room
	s.mu.Unlock()

	select {
	case s.connected <- room:
	default:
	}

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case s.received <- data:
		default:
		}

		msg, err := codec.Decode(data)
		if err != nil {
			continue
		}
		if msg.Type == protocol.MsgPing && s.AutoPong {
			s.mu.Lock()
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pong"}`))
			s.mu.Unlock()
		}
		codec.PutMessage(msg)
	}
}
