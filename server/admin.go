package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// NewRouter 组装所有 HTTP 路由：/ws、管理与监控接口、静态资源
func NewRouter(g *Gateway, staticDir string) http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/ws", g.HandleWS)
	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("ok"))
	})
	router.GET("/metrics", g.handleMetrics)
	router.GET("/admin/rooms", g.handleRooms)
	router.GET("/admin/rooms/:id", g.handleRoom)
	router.GET("/admin/rooms/:id/config", g.handleRoomConfig)
	router.POST("/admin/rooms/:id/config", g.handleRoomConfig)
	// 前后端分离：未匹配的路径映射到静态资源目录
	if staticDir != "" {
		router.NotFound = http.FileServer(http.Dir(staticDir))
	}
	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleMetrics 输出所有房间的运行指标
// GET /metrics
func (g *Gateway) handleMetrics(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	rooms := make(map[string]any)
	for _, s := range g.Manager.Snapshots() {
		rooms[s.ID] = map[string]any{
			"phase":   s.Phase,
			"tick":    s.Tick,
			"metrics": s.Metrics,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room_count": len(rooms),
		"rooms":      rooms,
	})
}

// GET /admin/rooms
func (g *Gateway) handleRooms(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, g.Manager.Snapshots())
}

// GET /admin/rooms/:id
func (g *Gateway) handleRoom(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	room, ok := g.Manager.Room(ps.ByName("id"))
	if !ok {
		http.Error(w, ErrRoomNotFound.Error(), http.StatusNotFound)
		return
	}
	snap, err := room.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type roomConfigBody struct {
	TickIntervalMs *int `json:"tickIntervalMs,omitempty"`
}

// handleRoomConfig 读取或热更新房间的 Tick 周期
// GET  /admin/rooms/:id/config
// POST /admin/rooms/:id/config  {"tickIntervalMs": 80}
func (g *Gateway) handleRoomConfig(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")
	room, ok := g.Manager.Room(roomID)
	if !ok {
		http.Error(w, ErrRoomNotFound.Error(), http.StatusNotFound)
		return
	}

	if r.Method == http.MethodPost {
		var body roomConfigBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TickIntervalMs != nil {
			err := room.SetTickInterval(time.Duration(*body.TickIntervalMs) * time.Millisecond)
			switch {
			case errors.Is(err, ErrInvalidRequest):
				http.Error(w, "tickIntervalMs must be positive", http.StatusBadRequest)
				return
			case err != nil:
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
		}
		Log.Infof("config updated: room=%s tickIntervalMs=%v", roomID, body.TickIntervalMs)
	}

	snap, err := room.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	d, _ := time.ParseDuration(snap.TickInterval)
	ms := int(d / time.Millisecond)
	writeJSON(w, http.StatusOK, roomConfigBody{TickIntervalMs: &ms})
}
