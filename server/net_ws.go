package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装，实现 Sender
type ClientConn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	closed    chan struct{}
	closeOnce sync.Once
	dropped   int64
}

func NewClientConn(id string, ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		id:     id,
		ws:     ws,
		send:   make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case <-c.closed:
		return
	default:
	}
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃新消息（防止阻塞房间协程）
		atomic.AddInt64(&c.dropped, 1)
	}
}

// Close 关闭底层连接并通知写协程退出；可重复调用
func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.Close()
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息，逐条交给 session 处理（同一连接内严格有序）
func (c *ClientConn) readPump(s *session) {
	defer c.Close()
	c.ws.SetReadLimit(1 << 16) // 64KB

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugf("conn %s read: %v", c.id, err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			Log.Debugf("conn %s: malformed message: %v", c.id, err)
			continue
		}
		s.handle(env)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// Gateway WebSocket 接入层：每个连接一个读协程、一个写协程、一个心跳协程
type Gateway struct {
	Manager           *RoomManager
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

func NewGateway(m *RoomManager, cfg Config) *Gateway {
	return &Gateway{
		Manager:           m,
		HeartbeatInterval: cfg.HeartbeatInterval,
		HeartbeatTimeout:  cfg.HeartbeatTimeout,
	}
}

// HandleWS WebSocket 接入：房间的创建/加入都通过消息完成
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(uuid.NewString(), ws)
	hb := NewHeartbeat(time.Now())
	sess := &session{conn: client, manager: g.Manager, heartbeat: hb}
	Log.Debugf("conn %s connected from %s", client.id, r.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	monitor := NewPresenceMonitor(hb, g.HeartbeatInterval, g.HeartbeatTimeout,
		func() { client.Enqueue(encodeMessage(MsgPing, nil)) },
		func() {
			Log.Infof("conn %s: %v, last pong %s", client.id, ErrHeartbeatTimeout, hb.Last().Format(time.RFC3339))
			client.Close()
		},
	)

	go client.writePump()
	go func() { _ = monitor.Run(ctx) }()
	go func() {
		// 连接关闭（主动离开、心跳超时、进程退出）后：离开房间并取消心跳任务
		defer cancel()
		defer g.Manager.Leave(client.id)
		client.readPump(sess)
		Log.Debugf("conn %s closed (dropped %d outbound)", client.id, atomic.LoadInt64(&client.dropped))
	}()
}
