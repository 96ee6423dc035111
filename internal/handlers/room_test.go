package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Moy64ever2/FakeArtist/internal/game"
)

func newTestServer(t *testing.T) (*GameServer, *http.ServeMux) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	rooms := game.NewRoomStore()
	presence := game.NewPresenceTracker(rooms, logger, time.Second, 90*time.Second)
	gs := NewGameServer(rooms, presence, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", gs.HealthHandler)
	mux.HandleFunc("POST /api/game/create", gs.CreateRoomHandler)
	mux.HandleFunc("GET /api/game/{roomId}", gs.GetRoomHandler)
	mux.HandleFunc("POST /api/game/{roomId}/join", gs.JoinRoomHandler)
	mux.HandleFunc("POST /api/game/{roomId}/heartbeat", gs.HeartbeatHandler)
	mux.HandleFunc("POST /api/game/{roomId}/leave", gs.LeaveRoomHandler)
	mux.HandleFunc("POST /api/game/{roomId}/start", gs.StartGameHandler)
	mux.HandleFunc("POST /api/game/{roomId}/update-settings", gs.UpdateSettingsHandler)
	mux.HandleFunc("POST /api/game/{roomId}/draw", gs.DrawHandler)
	mux.HandleFunc("POST /api/game/{roomId}/next-turn", gs.NextTurnHandler)
	mux.HandleFunc("POST /api/game/{roomId}/vote", gs.VoteHandler)
	mux.HandleFunc("POST /api/game/{roomId}/guess-word", gs.GuessWordHandler)
	mux.HandleFunc("POST /api/game/{roomId}/reset", gs.ResetGameHandler)
	mux.HandleFunc("POST /api/game/{roomId}/kick-player", gs.KickPlayerHandler)
	return gs, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeRoom(t *testing.T, rec *httptest.ResponseRecorder) *game.Room {
	t.Helper()
	var room game.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))
	return &room
}

// createRoom creates a room with the given host and returns its snapshot.
func createRoom(t *testing.T, mux *http.ServeMux, hostID string) *game.Room {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/api/game/create", map[string]interface{}{
		"hostId":     hostID,
		"playerName": "Host",
		"category":   "animals",
		"avatar":     "avatar-host",
		"color":      "#c00000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeRoom(t, rec)
}

func joinRoom(t *testing.T, mux *http.ServeMux, roomID, playerID string, n int) *game.Room {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+roomID+"/join", map[string]interface{}{
		"playerId":   playerID,
		"playerName": fmt.Sprintf("Player %d", n),
		"avatar":     fmt.Sprintf("avatar-%d", n),
		"color":      fmt.Sprintf("#c%05d", n),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeRoom(t, rec)
}

func TestHealthHandler(t *testing.T) {
	_, mux := newTestServer(t)
	createRoom(t, mux, "host-1")

	rec := doJSON(t, mux, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["rooms"])
	assert.NotEmpty(t, body["endpoints"])
}

func TestCreateJoinStartFlow(t *testing.T) {
	gs, mux := newTestServer(t)

	room := createRoom(t, mux, "host-1")
	assert.Len(t, room.ID, 6)
	assert.Equal(t, "host-1", room.HostID)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.NotEmpty(t, room.Word)

	joinRoom(t, mux, room.ID, "p1", 1)
	snap := joinRoom(t, mux, room.ID, "p2", 2)
	assert.Len(t, snap.Players, 3)

	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/start", map[string]string{"playerId": "p1"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "only the host starts")

	rec = doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/start", map[string]string{"playerId": "host-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	started := decodeRoom(t, rec)
	assert.Equal(t, game.PhaseDrawing, started.GamePhase)

	assert.Equal(t, 3, gs.Presence.TrackedCount())
}

func TestCreateRoomGeneratesHostID(t *testing.T) {
	_, mux := newTestServer(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/game/create", map[string]interface{}{
		"playerName": "Anon",
		"category":   "food",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	room := decodeRoom(t, rec)
	assert.NotEmpty(t, room.HostID)
	require.Len(t, room.Players, 1)
	assert.Equal(t, room.HostID, room.Players[0].ID)
}

func TestCreateRoomUnknownCategory(t *testing.T) {
	_, mux := newTestServer(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/game/create", map[string]interface{}{
		"playerName": "Host",
		"category":   "paintings",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoomNotFound(t *testing.T) {
	_, mux := newTestServer(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/game/NOPE42/join", map[string]string{"playerName": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/game/NOPE42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidBody(t *testing.T) {
	_, mux := newTestServer(t)
	room := createRoom(t, mux, "host-1")

	req := httptest.NewRequest(http.MethodPost, "/api/game/"+room.ID+"/vote", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeartbeat(t *testing.T) {
	gs, mux := newTestServer(t)
	room := createRoom(t, mux, "host-1")
	joinRoom(t, mux, room.ID, "p1", 1)
	require.Equal(t, 2, gs.Presence.TrackedCount())

	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/heartbeat", map[string]string{"playerId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["success"])

	rec = doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/heartbeat", map[string]string{"playerId": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaveAsHostClosesRoom(t *testing.T) {
	gs, mux := newTestServer(t)
	room := createRoom(t, mux, "host-1")
	joinRoom(t, mux, room.ID, "p1", 1)

	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/leave", map[string]string{"playerId": "host-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["roomClosed"])

	rec = doJSON(t, mux, http.MethodGet, "/api/game/"+room.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, gs.Presence.TrackedCount())
}

func TestLeaveAsPlayer(t *testing.T) {
	gs, mux := newTestServer(t)
	room := createRoom(t, mux, "host-1")
	joinRoom(t, mux, room.ID, "p1", 1)

	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/leave", map[string]string{"playerId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeRoom(t, rec)
	assert.Len(t, snap.Players, 1)
	assert.Equal(t, 1, gs.Presence.TrackedCount())
}

func TestKickPlayer(t *testing.T) {
	gs, mux := newTestServer(t)
	room := createRoom(t, mux, "host-1")
	joinRoom(t, mux, room.ID, "p1", 1)

	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/kick-player", map[string]string{
		"hostId":         "p1",
		"playerIdToKick": "host-1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/kick-player", map[string]string{
		"hostId":         "host-1",
		"playerIdToKick": "p1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeRoom(t, rec)
	assert.Len(t, snap.Players, 1)
	assert.Equal(t, 1, gs.Presence.TrackedCount())
}

func TestUpdateSettingsHandler(t *testing.T) {
	_, mux := newTestServer(t)
	room := createRoom(t, mux, "host-1")

	rec := doJSON(t, mux, http.MethodPost, "/api/game/"+room.ID+"/update-settings", map[string]interface{}{
		"playerId":   "host-1",
		"category":   "movies",
		"totalGames": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeRoom(t, rec)
	assert.Equal(t, "movies", snap.Category)
	assert.Equal(t, 5, snap.TotalGames)
	assert.Equal(t, 2, snap.TurnsPerPlayer, "omitted fields stay put")
}

func TestCORSMiddleware(t *testing.T) {
	_, mux := newTestServer(t)
	handler := CORSMiddleware(mux)

	req := httptest.NewRequest(http.MethodOptions, "/api/game/create", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
