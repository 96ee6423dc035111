// internal/handlers/api_server.go
package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Moy64ever2/FakeArtist/internal/game"
)

// GameServer bundles the room registry and presence tracker behind the HTTP
// command handlers.
type GameServer struct {
	Rooms    *game.RoomStore
	Presence *game.PresenceTracker
	Logger   *logrus.Logger
}

// NewGameServer builds a server around an existing registry and tracker.
func NewGameServer(rooms *game.RoomStore, presence *game.PresenceTracker, logger *logrus.Logger) *GameServer {
	return &GameServer{Rooms: rooms, Presence: presence, Logger: logger}
}

// Endpoints advertised by the health check, matching the registered routes.
var endpointList = []string{
	"GET /api/health",
	"POST /api/game/create",
	"POST /api/game/{roomId}/join",
	"GET /api/game/{roomId}",
	"GET /api/game/{roomId}/ws",
	"POST /api/game/{roomId}/heartbeat",
	"POST /api/game/{roomId}/leave",
	"POST /api/game/{roomId}/start",
	"POST /api/game/{roomId}/update-settings",
	"POST /api/game/{roomId}/draw",
	"POST /api/game/{roomId}/next-turn",
	"POST /api/game/{roomId}/vote",
	"POST /api/game/{roomId}/guess-word",
	"POST /api/game/{roomId}/reset",
	"POST /api/game/{roomId}/kick-player",
}

// HealthHandler reports liveness plus a room count and the route list.
func (gs *GameServer) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"rooms":     gs.Rooms.Count(),
		"port":      os.Getenv("PORT"),
		"endpoints": endpointList,
	})
}

// CORSMiddleware sets permissive cross-origin headers and short-circuits
// preflight requests. Origin policy proper is not this service's concern.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (gs *GameServer) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch game.KindOf(err) {
	case game.KindNotFound:
		status = http.StatusNotFound
	case game.KindForbidden:
		status = http.StatusForbidden
	case game.KindInvalidState:
		status = http.StatusBadRequest
	case game.KindInternal:
		gs.Logger.WithError(err).Error("internal error handling command")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
