// internal/handlers/room.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Moy64ever2/FakeArtist/internal/cache"
	"github.com/Moy64ever2/FakeArtist/internal/game"
	"github.com/Moy64ever2/FakeArtist/internal/models"
)

// room resolves the path's room id, writing NotFound itself on a miss.
func (gs *GameServer) room(w http.ResponseWriter, r *http.Request) (*game.Room, bool) {
	roomID := r.PathValue("roomId")
	room, ok := gs.Rooms.GetRoom(roomID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
		return nil, false
	}
	return room, true
}

// CreateRoomHandler builds a new room with its host player and starts
// tracking the host's presence. A missing host id is generated server-side.
func (gs *GameServer) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HostID         string `json:"hostId"`
		PlayerName     string `json:"playerName"`
		Category       string `json:"category"`
		TurnsPerPlayer int    `json:"turnsPerPlayer"`
		TotalGames     int    `json:"totalGames"`
		Avatar         string `json:"avatar"`
		Color          string `json:"color"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.HostID == "" {
		req.HostID = uuid.NewString()
	}
	if req.Avatar == "" {
		req.Avatar = "😀"
	}
	if req.Color == "" {
		req.Color = "#FF6B6B"
	}

	room, err := gs.Rooms.CreateRoom(req.HostID, req.Category, req.TurnsPerPlayer, req.TotalGames)
	if err != nil {
		gs.writeError(w, err)
		return
	}

	room.Mu.Lock()
	room.OnGameEnd = func(rec models.GameRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cache.PublishGameRecord(ctx, rec); err != nil {
			gs.Logger.WithError(err).Warn("failed to publish game record")
		}
	}
	room.Mu.Unlock()

	snap, err := room.AddPlayer(req.HostID, req.PlayerName, req.Avatar, req.Color)
	if err != nil {
		gs.Rooms.DeleteRoom(room.ID)
		gs.writeError(w, err)
		return
	}
	gs.Presence.Track(req.HostID, room.ID, true)

	gs.Logger.WithFields(logrus.Fields{
		"room":     room.ID,
		"host":     req.HostID,
		"category": req.Category,
	}).Info("room created")
	writeJSON(w, http.StatusOK, snap)
}

// JoinRoomHandler adds a player to a room, or refreshes a rejoining player's
// profile, and starts presence tracking for them.
func (gs *GameServer) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID   string `json:"playerId"`
		PlayerName string `json:"playerName"`
		Avatar     string `json:"avatar"`
		Color      string `json:"color"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PlayerID == "" {
		req.PlayerID = uuid.NewString()
	}
	if req.Avatar == "" {
		req.Avatar = "😀"
	}
	if req.Color == "" {
		req.Color = "#FF6B6B"
	}

	snap, err := room.AddPlayer(req.PlayerID, req.PlayerName, req.Avatar, req.Color)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	gs.Presence.Track(req.PlayerID, room.ID, req.PlayerID == snap.HostID)

	gs.Logger.WithFields(logrus.Fields{
		"room":   room.ID,
		"player": req.PlayerID,
	}).Info("player joined")
	writeJSON(w, http.StatusOK, snap)
}

// GetRoomHandler returns a read-only snapshot.
func (gs *GameServer) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, room.Snapshot())
}

// HeartbeatHandler refreshes a player's presence record. Acknowledgement
// only; no room snapshot.
func (gs *GameServer) HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap := room.Snapshot()
	var isHost bool
	found := false
	for _, p := range snap.Players {
		if p.ID == req.PlayerID {
			isHost = p.IsHost
			found = true
			break
		}
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Player not found"})
		return
	}

	gs.Presence.Track(req.PlayerID, room.ID, isHost)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LeaveRoomHandler removes the caller from the room. A leaving host closes
// the room and every presence record in it.
func (gs *GameServer) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, closed, err := room.Leave(req.PlayerID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	if closed {
		gs.Rooms.DeleteRoom(room.ID)
		gs.Presence.ForgetRoom(room.ID)
		gs.Logger.WithField("room", room.ID).Info("room closed by host leave")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"roomClosed": true,
			"message":    "Room closed by host",
		})
		return
	}
	gs.Presence.Forget(req.PlayerID)
	writeJSON(w, http.StatusOK, snap)
}

// StartGameHandler transitions lobby -> drawing.
func (gs *GameServer) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.Start(req.PlayerID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	gs.Logger.WithFields(logrus.Fields{
		"room":    room.ID,
		"players": len(snap.Players),
	}).Info("game started")
	writeJSON(w, http.StatusOK, snap)
}

// UpdateSettingsHandler mutates category/turnsPerPlayer/totalGames before a
// series has advanced.
func (gs *GameServer) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID       string  `json:"playerId"`
		Category       *string `json:"category"`
		TurnsPerPlayer *int    `json:"turnsPerPlayer"`
		TotalGames     *int    `json:"totalGames"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.UpdateSettings(req.PlayerID, req.Category, req.TurnsPerPlayer, req.TotalGames)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DrawHandler appends stroke points for the current-turn player.
func (gs *GameServer) DrawHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string         `json:"playerId"`
		Points   []models.Point `json:"points"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.AppendStrokes(req.PlayerID, req.Points)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// NextTurnHandler advances the rotation, possibly into the voting phase.
func (gs *GameServer) NextTurnHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.AdvanceTurn(req.PlayerID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// VoteHandler records a vote, possibly finishing the game.
func (gs *GameServer) VoteHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
		VoteFor  string `json:"voteFor"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.CastVote(req.PlayerID, req.VoteFor)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GuessWordHandler records a fake artist's guess, possibly finishing the
// game.
func (gs *GameServer) GuessWordHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
		Guess    string `json:"guess"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.GuessWord(req.PlayerID, req.Guess)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ResetGameHandler returns the room to the lobby for the next game of the
// series.
func (gs *GameServer) ResetGameHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.Reset(req.PlayerID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	gs.Logger.WithFields(logrus.Fields{
		"room": room.ID,
		"game": snap.CurrentGame,
	}).Info("game reset")
	writeJSON(w, http.StatusOK, snap)
}

// KickPlayerHandler removes a non-host player and drops their presence
// record.
func (gs *GameServer) KickPlayerHandler(w http.ResponseWriter, r *http.Request) {
	room, ok := gs.room(w, r)
	if !ok {
		return
	}
	var req struct {
		HostID         string `json:"hostId"`
		PlayerIDToKick string `json:"playerIdToKick"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := room.Kick(req.HostID, req.PlayerIDToKick)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	gs.Presence.Forget(req.PlayerIDToKick)
	gs.Logger.WithFields(logrus.Fields{
		"room":   room.ID,
		"kicked": req.PlayerIDToKick,
	}).Info("player kicked")
	writeJSON(w, http.StatusOK, snap)
}
