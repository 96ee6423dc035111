// internal/handlers/room_ws.go
package handlers

import (
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Moy64ever2/FakeArtist/internal/middleware"
)

// RoomWSHandler upgrades to WebSocket and streams room snapshots: one
// immediately, then one after every committed mutation. Read-only; commands
// still go through the HTTP endpoints. Clients polling GET /api/game/{id}
// keep working, this is just cheaper.
func (gs *GameServer) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	room, ok := gs.Rooms.GetRoom(roomID)
	if !ok {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		gs.Logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")
	middleware.LogWebSocketConnect(gs.Logger, r.RemoteAddr, r.URL.Path)

	ch := room.Watch()
	defer room.Unwatch(ch)

	ctx := r.Context()
	if err := wsjson.Write(ctx, c, room.Snapshot()); err != nil {
		middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
		return
	}

	// The ticker doubles as a liveness probe for rooms torn down without a
	// final watcher notification (host disconnect sweep).
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "client gone")
			middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, nil)
			return
		case <-ticker.C:
			if _, alive := gs.Rooms.GetRoom(roomID); !alive {
				c.Close(websocket.StatusNormalClosure, "room closed")
				middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, nil)
				return
			}
			if err := c.Ping(ctx); err != nil {
				middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}
		case <-ch:
			if _, alive := gs.Rooms.GetRoom(roomID); !alive {
				c.Close(websocket.StatusNormalClosure, "room closed")
				middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, nil)
				return
			}
			if err := wsjson.Write(ctx, c, room.Snapshot()); err != nil {
				middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}
		}
	}
}
