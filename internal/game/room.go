package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Moy64ever2/FakeArtist/internal/models"
)

// Phase is the room's position in the per-game cycle.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseDrawing Phase = "drawing"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
)

const (
	// DefaultMaxPlayers caps the player sequence of a room.
	DefaultMaxPlayers = 12
	// DefaultTurnTimeLimit is the advisory per-turn limit in seconds. The
	// core only records turn start times; an external poller enforces it
	// by calling AdvanceTurn.
	DefaultTurnTimeLimit = 15
	// MinPlayersToStart is the smallest group a game can start with.
	MinPlayersToStart = 3
)

// OnGameEndFunc receives the record of a completed game, e.g. to push it to
// the history queue.
type OnGameEndFunc func(models.GameRecord)

// Room holds the entire state for one game session in memory.
//
// Every mutation, whether issued by a request handler or by the presence
// sweep, must hold Mu. Methods without the Unsafe suffix acquire it; Unsafe
// helpers assume the caller already holds it. All commands validate their
// preconditions before touching state and return a deep snapshot on success.
type Room struct {
	ID                   string              `json:"id"`
	HostID               string              `json:"hostId"`
	Players              []*models.Player    `json:"players"`
	Category             string              `json:"category"`
	Word                 string              `json:"word"`
	CurrentTurn          int                 `json:"currentTurn"`
	GamePhase            Phase               `json:"gamePhase"`
	DrawingData          []models.Point      `json:"drawingData"`
	MaxPlayers           int                 `json:"maxPlayers"`
	TurnTimeLimit        int                 `json:"turnTimeLimit"`
	CurrentTurnStartTime int64               `json:"currentTurnStartTime"`
	Votes                map[string]string   `json:"votes"`
	TurnsPerPlayer       int                 `json:"turnsPerPlayer"`
	CompletedTurns       int                 `json:"completedTurns"`
	TotalGames           int                 `json:"totalGames"`
	CurrentGame          int                 `json:"currentGame"`
	GameHistory          []models.GameRecord `json:"gameHistory"`
	SeriesScores         map[string]int      `json:"seriesScores"`
	UsedWords            []string            `json:"usedWords"`

	Mu sync.Mutex `json:"-"`

	// OnGameEnd, when set, is invoked (on its own goroutine) with the record
	// of each game that reaches the results phase.
	OnGameEnd OnGameEndFunc `json:"-"`

	rng      *rand.Rand
	now      func() time.Time
	watchers map[chan struct{}]struct{}
}

func newRoom(id, hostID, category string, turnsPerPlayer, totalGames int, rng *rand.Rand) *Room {
	word := RandomWord(rng, category)
	return &Room{
		ID:             id,
		HostID:         hostID,
		Players:        []*models.Player{},
		Category:       category,
		Word:           word,
		GamePhase:      PhaseLobby,
		DrawingData:    []models.Point{},
		MaxPlayers:     DefaultMaxPlayers,
		TurnTimeLimit:  DefaultTurnTimeLimit,
		Votes:          map[string]string{},
		TurnsPerPlayer: turnsPerPlayer,
		TotalGames:     totalGames,
		CurrentGame:    1,
		GameHistory:    []models.GameRecord{},
		SeriesScores:   map[string]int{},
		UsedWords:      []string{word},
		rng:            rng,
		now:            time.Now,
		watchers:       make(map[chan struct{}]struct{}),
	}
}

// playerUnsafe looks up a player by id. Returns nil, -1 if absent.
func (r *Room) playerUnsafe(id string) (*models.Player, int) {
	for i, p := range r.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// AddPlayer joins a player to the room, or updates their profile when the
// same id rejoins. Name, avatar and color must be unique among the other
// players; a rejoin keeps the player's role and cumulative score.
func (r *Room) AddPlayer(id, name, avatar, color string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	for _, p := range r.Players {
		if p.ID == id {
			continue
		}
		switch {
		case p.Name == name:
			return nil, errInvalidState("name %q already taken", name)
		case p.Avatar == avatar:
			return nil, errInvalidState("avatar %q already taken", avatar)
		case p.Color == color:
			return nil, errInvalidState("color %q already taken", color)
		}
	}

	if existing, _ := r.playerUnsafe(id); existing != nil {
		existing.Name = name
		existing.Avatar = avatar
		existing.Color = color
		existing.IsDisconnected = false
		r.notifyWatchersUnsafe()
		return r.snapshotUnsafe(), nil
	}

	if len(r.Players) >= r.MaxPlayers {
		return nil, errInvalidState("room %s is full", r.ID)
	}

	r.Players = append(r.Players, &models.Player{
		ID:     id,
		Name:   name,
		Avatar: avatar,
		Color:  color,
		IsHost: id == r.HostID,
	})
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// Start begins a game: host-only, lobby phase, at least three players.
// Fake artists are drawn uniformly via a random permutation: two of them
// with ten or more players, one otherwise.
func (r *Room) Start(playerID string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	player, _ := r.playerUnsafe(playerID)
	if player == nil {
		return nil, errNotFound("player %s not in room %s", playerID, r.ID)
	}
	if !player.IsHost {
		return nil, errForbidden("only the host can start the game")
	}
	if r.GamePhase != PhaseLobby {
		return nil, errInvalidState("game already in progress")
	}
	if len(r.Players) < MinPlayersToStart {
		return nil, errInvalidState("need at least %d players", MinPlayersToStart)
	}

	numFakeArtists := 1
	if len(r.Players) >= 10 {
		numFakeArtists = 2
	}
	for _, p := range r.Players {
		p.IsFakeArtist = false
	}
	for _, i := range r.rng.Perm(len(r.Players))[:numFakeArtists] {
		r.Players[i].IsFakeArtist = true
	}

	r.GamePhase = PhaseDrawing
	r.CurrentTurn = 0
	r.CurrentTurnStartTime = r.now().UnixMilli()
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// UpdateSettings mutates category, turnsPerPlayer and totalGames. Host-only,
// and locked once a series has advanced past its first game. A category
// change draws a fresh secret word.
func (r *Room) UpdateSettings(playerID string, category *string, turnsPerPlayer, totalGames *int) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	player, _ := r.playerUnsafe(playerID)
	if player == nil {
		return nil, errNotFound("player %s not in room %s", playerID, r.ID)
	}
	if !player.IsHost {
		return nil, errForbidden("only the host can update settings")
	}
	if r.CurrentGame > 1 {
		return nil, errInvalidState("cannot change settings during an active series")
	}
	if category != nil && !ValidCategory(*category) {
		return nil, errInvalidState("unknown category %q", *category)
	}

	if category != nil {
		r.Category = *category
		r.Word = RandomWord(r.rng, *category)
		r.UsedWords = []string{r.Word}
	}
	if turnsPerPlayer != nil {
		r.TurnsPerPlayer = *turnsPerPlayer
	}
	if totalGames != nil {
		r.TotalGames = *totalGames
	}
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// AppendStrokes appends stroke points to the shared drawing. Only the
// current-turn player may draw, and only during the drawing phase.
func (r *Room) AppendStrokes(playerID string, points []models.Point) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.GamePhase != PhaseDrawing {
		return nil, errInvalidState("not in drawing phase")
	}
	if len(r.Players) == 0 || r.Players[r.CurrentTurn].ID != playerID {
		return nil, errForbidden("not your turn")
	}

	r.DrawingData = append(r.DrawingData, points...)
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// AdvanceTurn moves to the next player in rotation. Callable by the
// current-turn player or the host; once every player has drawn
// turnsPerPlayer times the room moves to voting.
func (r *Room) AdvanceTurn(playerID string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.GamePhase != PhaseDrawing {
		return nil, errInvalidState("not in drawing phase")
	}
	player, _ := r.playerUnsafe(playerID)
	if player == nil {
		return nil, errNotFound("player %s not in room %s", playerID, r.ID)
	}
	if r.Players[r.CurrentTurn].ID != playerID && !player.IsHost {
		return nil, errForbidden("only the current player or the host can advance the turn")
	}

	r.CompletedTurns++
	r.CurrentTurn = (r.CurrentTurn + 1) % len(r.Players)
	r.CurrentTurnStartTime = r.now().UnixMilli()

	if r.CompletedTurns >= len(r.Players)*r.TurnsPerPlayer {
		r.GamePhase = PhaseVoting
	}
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// CastVote records (or overwrites) the voter's target during the voting
// phase. Completing the vote/guess requirements finishes the game.
func (r *Room) CastVote(voterID, targetID string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.GamePhase != PhaseVoting {
		return nil, errInvalidState("not in voting phase")
	}
	voter, _ := r.playerUnsafe(voterID)
	if voter == nil {
		return nil, errNotFound("player %s not in room %s", voterID, r.ID)
	}
	if target, _ := r.playerUnsafe(targetID); target == nil {
		return nil, errNotFound("vote target %s not in room %s", targetID, r.ID)
	}

	r.Votes[voterID] = targetID
	voter.HasVoted = true

	r.maybeFinishVotingUnsafe()
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// GuessWord records a fake artist's word guess and its matcher result during
// the voting phase, then re-checks vote completion.
func (r *Room) GuessWord(playerID, guess string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.GamePhase != PhaseVoting {
		return nil, errInvalidState("not in voting phase")
	}
	player, _ := r.playerUnsafe(playerID)
	if player == nil {
		return nil, errNotFound("player %s not in room %s", playerID, r.ID)
	}
	if !player.IsFakeArtist {
		return nil, errForbidden("only a fake artist can guess the word")
	}

	result := CheckGuess(guess, r.Word)
	player.HasGuessed = true
	player.WordGuess = guess
	player.GuessResult = &result

	r.maybeFinishVotingUnsafe()
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// Reset returns the room to the lobby for the next game of the series (or a
// fresh series once it is complete). Host-only.
func (r *Room) Reset(playerID string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	player, _ := r.playerUnsafe(playerID)
	if player == nil {
		return nil, errNotFound("player %s not in room %s", playerID, r.ID)
	}
	if !player.IsHost {
		return nil, errForbidden("only the host can reset the game")
	}

	r.resetForNextGameUnsafe()
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// Kick removes a non-host player. Host-only. Votes from or for the kicked
// player are discarded, the turn pointer is clamped, and in the voting phase
// the completion check re-runs against the smaller group.
func (r *Room) Kick(hostID, targetID string) (*Room, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	host, _ := r.playerUnsafe(hostID)
	if host == nil {
		return nil, errNotFound("player %s not in room %s", hostID, r.ID)
	}
	if !host.IsHost {
		return nil, errForbidden("only the host can kick players")
	}
	target, _ := r.playerUnsafe(targetID)
	if target == nil {
		return nil, errNotFound("player %s not in room %s", targetID, r.ID)
	}
	if target.IsHost {
		return nil, errInvalidState("cannot kick the host")
	}

	r.removePlayerUnsafe(targetID)
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), nil
}

// Leave removes the calling player. A leaving host closes the whole room:
// the second return value reports that, and the caller is expected to drop
// the room from the registry.
func (r *Room) Leave(playerID string) (*Room, bool, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	player, _ := r.playerUnsafe(playerID)
	if player == nil {
		return nil, false, errNotFound("player %s not in room %s", playerID, r.ID)
	}
	if player.IsHost {
		return nil, true, nil
	}

	r.removePlayerUnsafe(playerID)
	r.notifyWatchersUnsafe()
	return r.snapshotUnsafe(), false, nil
}

// RemoveDisconnected drops a timed-out non-host player, with the same vote
// and turn cleanup as a kick.
func (r *Room) RemoveDisconnected(playerID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if p, _ := r.playerUnsafe(playerID); p != nil {
		r.removePlayerUnsafe(playerID)
		r.notifyWatchersUnsafe()
	}
}

// removePlayerUnsafe removes a player and repairs dependent state: their cast
// vote, votes targeting them (those voters may vote again), the current-turn
// index, and vote completion when the room is mid-vote.
func (r *Room) removePlayerUnsafe(playerID string) {
	_, idx := r.playerUnsafe(playerID)
	if idx < 0 {
		return
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	delete(r.Votes, playerID)
	for voterID, targetID := range r.Votes {
		if targetID == playerID {
			delete(r.Votes, voterID)
			if voter, _ := r.playerUnsafe(voterID); voter != nil {
				voter.HasVoted = false
			}
		}
	}

	if r.GamePhase == PhaseDrawing && len(r.Players) > 0 {
		switch {
		case idx < r.CurrentTurn:
			r.CurrentTurn--
		case idx == r.CurrentTurn:
			r.CurrentTurn %= len(r.Players)
			r.CurrentTurnStartTime = r.now().UnixMilli()
		}
	}

	if r.GamePhase == PhaseVoting {
		r.maybeFinishVotingUnsafe()
	}
}

// maybeFinishVotingUnsafe transitions to results once every remaining
// regular player has voted and every fake artist has guessed (vacuously true
// with no fake artists left). The phase guard means scoring runs exactly
// once per game.
func (r *Room) maybeFinishVotingUnsafe() {
	if r.GamePhase != PhaseVoting {
		return
	}

	regulars := 0
	allFakesGuessed := true
	for _, p := range r.Players {
		if p.IsFakeArtist {
			if !p.HasGuessed {
				allFakesGuessed = false
			}
		} else {
			regulars++
		}
	}

	regularVoters := 0
	for voterID := range r.Votes {
		if p, _ := r.playerUnsafe(voterID); p != nil && !p.IsFakeArtist {
			regularVoters++
		}
	}

	if regularVoters != regulars || !allFakesGuessed {
		return
	}

	outcome := ScoreGame(r.Players, r.Votes)
	fakeArtistIDs := []string{}
	for _, p := range r.Players {
		p.Score += outcome.Awards[p.ID]
		r.SeriesScores[p.ID] += outcome.Awards[p.ID]
		if p.IsFakeArtist {
			fakeArtistIDs = append(fakeArtistIDs, p.ID)
		}
	}

	record := models.GameRecord{
		ID:             uuid.New(),
		RoomID:         r.ID,
		Game:           r.CurrentGame,
		Word:           r.Word,
		FakeArtistIDs:  fakeArtistIDs,
		FakeArtistsWon: outcome.FakeArtistsWon,
		Awards:         outcome.Awards,
		EndedAt:        r.now(),
	}
	r.GameHistory = append(r.GameHistory, record)
	r.GamePhase = PhaseResults

	if cb := r.OnGameEnd; cb != nil {
		go cb(record)
	}
}

// Watch registers a notification channel that receives a signal after every
// committed mutation. The channel never blocks a command; a slow consumer
// coalesces signals.
func (r *Room) Watch() chan struct{} {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	ch := make(chan struct{}, 1)
	r.watchers[ch] = struct{}{}
	return ch
}

// Unwatch removes a channel registered with Watch.
func (r *Room) Unwatch(ch chan struct{}) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	delete(r.watchers, ch)
}

func (r *Room) notifyWatchersUnsafe() {
	for ch := range r.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a deep copy of the room safe to serialize outside the
// lock.
func (r *Room) Snapshot() *Room {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.snapshotUnsafe()
}

func (r *Room) snapshotUnsafe() *Room {
	cp := &Room{
		ID:                   r.ID,
		HostID:               r.HostID,
		Category:             r.Category,
		Word:                 r.Word,
		CurrentTurn:          r.CurrentTurn,
		GamePhase:            r.GamePhase,
		MaxPlayers:           r.MaxPlayers,
		TurnTimeLimit:        r.TurnTimeLimit,
		CurrentTurnStartTime: r.CurrentTurnStartTime,
		TurnsPerPlayer:       r.TurnsPerPlayer,
		CompletedTurns:       r.CompletedTurns,
		TotalGames:           r.TotalGames,
		CurrentGame:          r.CurrentGame,
	}
	cp.Players = make([]*models.Player, len(r.Players))
	for i, p := range r.Players {
		cp.Players[i] = p.Clone()
	}
	cp.DrawingData = append([]models.Point{}, r.DrawingData...)
	cp.UsedWords = append([]string{}, r.UsedWords...)
	cp.GameHistory = append([]models.GameRecord{}, r.GameHistory...)
	cp.Votes = make(map[string]string, len(r.Votes))
	for k, v := range r.Votes {
		cp.Votes[k] = v
	}
	cp.SeriesScores = make(map[string]int, len(r.SeriesScores))
	for k, v := range r.SeriesScores {
		cp.SeriesScores[k] = v
	}
	return cp
}
