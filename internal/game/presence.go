package game

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultSweepInterval is how often tracked players are examined.
	DefaultSweepInterval = 30 * time.Second
	// DefaultDisconnectTimeout marks a player disconnected after roughly
	// nine missed heartbeats at the client's 10s cadence.
	DefaultDisconnectTimeout = 90 * time.Second
)

type presenceRecord struct {
	roomID   string
	lastSeen time.Time
	isHost   bool
}

// PresenceTracker maps player ids to last-seen timestamps and evicts players
// (and, for lost hosts, whole rooms) once they time out. It holds only
// identifiers plus a room back-reference; player state lives in the room and
// is reached through the registry under the room's own lock.
type PresenceTracker struct {
	mu      sync.Mutex
	records map[string]presenceRecord

	store    *RoomStore
	logger   *logrus.Logger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// NewPresenceTracker wires a tracker to the registry it sweeps against.
func NewPresenceTracker(store *RoomStore, logger *logrus.Logger, interval, timeout time.Duration) *PresenceTracker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if timeout <= 0 {
		timeout = DefaultDisconnectTimeout
	}
	return &PresenceTracker{
		records:  make(map[string]presenceRecord),
		store:    store,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Track records (or refreshes) a player's presence.
func (t *PresenceTracker) Track(playerID, roomID string, isHost bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[playerID] = presenceRecord{roomID: roomID, lastSeen: t.now(), isHost: isHost}
}

// Forget drops a single player's record, e.g. after leave or kick.
func (t *PresenceTracker) Forget(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, playerID)
}

// ForgetRoom drops every record referencing the given room.
func (t *PresenceTracker) ForgetRoom(roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, rec := range t.records {
		if rec.roomID == roomID {
			delete(t.records, id)
		}
	}
}

// TrackedCount returns the number of tracked players.
func (t *PresenceTracker) TrackedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Run sweeps on a fixed interval until the context is cancelled.
func (t *PresenceTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep(t.now())
		}
	}
}

// Sweep evicts every player whose last heartbeat is older than the timeout.
// A timed-out host tears the room down when it is still in the lobby or has
// two or fewer players; otherwise the host is only flagged disconnected and
// the room stays alive. Timed-out regular players are removed from their
// room with full vote and turn cleanup.
//
// The presence lock is released before any room lock is taken.
func (t *PresenceTracker) Sweep(now time.Time) {
	type expired struct {
		playerID string
		rec      presenceRecord
	}

	t.mu.Lock()
	var gone []expired
	for id, rec := range t.records {
		if now.Sub(rec.lastSeen) > t.timeout {
			gone = append(gone, expired{playerID: id, rec: rec})
		}
	}
	t.mu.Unlock()

	for _, e := range gone {
		room, ok := t.store.GetRoom(e.rec.roomID)
		if !ok {
			t.Forget(e.playerID)
			continue
		}

		if e.rec.isHost {
			if room.hostTimedOut(e.playerID) {
				t.store.DeleteRoom(e.rec.roomID)
				t.ForgetRoom(e.rec.roomID)
				t.logger.WithFields(logrus.Fields{
					"room":   e.rec.roomID,
					"player": e.playerID,
				}).Info("room closed after host disconnect")
				continue
			}
			t.logger.WithFields(logrus.Fields{
				"room":   e.rec.roomID,
				"player": e.playerID,
			}).Info("host disconnected, room kept alive")
		} else {
			room.RemoveDisconnected(e.playerID)
			t.logger.WithFields(logrus.Fields{
				"room":   e.rec.roomID,
				"player": e.playerID,
			}).Info("player removed after disconnect timeout")
		}
		t.Forget(e.playerID)
	}
}

// hostTimedOut applies the host-disconnect policy under the room lock and
// reports whether the room should be torn down. There is no host promotion:
// a room that survives keeps its flagged host indefinitely.
func (r *Room) hostTimedOut(playerID string) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.GamePhase == PhaseLobby || len(r.Players) <= 2 {
		return true
	}
	if p, _ := r.playerUnsafe(playerID); p != nil {
		p.IsDisconnected = true
		r.notifyWatchersUnsafe()
	}
	return false
}
