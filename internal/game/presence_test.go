package game

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newPresenceFixture(t *testing.T, numPlayers int) (*RoomStore, *PresenceTracker, *Room) {
	t.Helper()
	store := newTestStore(21)
	tracker := NewPresenceTracker(store, quietLogger(), time.Second, 90*time.Second)
	room, err := store.CreateRoom("p0", "animals", 2, 3)
	require.NoError(t, err)
	for i := 0; i < numPlayers; i++ {
		id := fmt.Sprintf("p%d", i)
		_, err := room.AddPlayer(id, fmt.Sprintf("Player %d", i), fmt.Sprintf("avatar-%d", i), fmt.Sprintf("#c%05d", i))
		require.NoError(t, err)
	}
	return store, tracker, room
}

func TestSweepRemovesTimedOutPlayer(t *testing.T) {
	store, tracker, room := newPresenceFixture(t, 4)
	base := time.Now()
	tracker.now = func() time.Time { return base }

	for _, p := range room.Players {
		tracker.Track(p.ID, room.ID, p.IsHost)
	}
	require.Equal(t, 4, tracker.TrackedCount())

	// Refresh everyone but p2, then sweep past the timeout.
	tracker.now = func() time.Time { return base.Add(60 * time.Second) }
	for _, id := range []string{"p0", "p1", "p3"} {
		tracker.Track(id, room.ID, id == "p0")
	}
	tracker.Sweep(base.Add(95 * time.Second))

	assert.Equal(t, 3, tracker.TrackedCount())
	assert.Len(t, room.Snapshot().Players, 3)
	_, err := room.CastVote("p2", "p1")
	assert.Equal(t, KindInvalidState, KindOf(err), "still in lobby")
	p, _ := room.playerUnsafe("p2")
	assert.Nil(t, p)
	assert.Equal(t, 1, store.Count(), "room survives a regular player timeout")
}

func TestSweepHeartbeatKeepsPlayerAlive(t *testing.T) {
	_, tracker, room := newPresenceFixture(t, 3)
	base := time.Now()
	tracker.now = func() time.Time { return base }
	tracker.Track("p1", room.ID, false)

	// Heartbeat arrives just before the deadline.
	tracker.now = func() time.Time { return base.Add(85 * time.Second) }
	tracker.Track("p1", room.ID, false)

	tracker.Sweep(base.Add(95 * time.Second))
	assert.Equal(t, 1, tracker.TrackedCount())
	assert.Len(t, room.Snapshot().Players, 3)
}

func TestSweepHostTimeoutInLobbyClosesRoom(t *testing.T) {
	store, tracker, room := newPresenceFixture(t, 4)
	base := time.Now()
	tracker.now = func() time.Time { return base }
	for _, p := range room.Players {
		tracker.Track(p.ID, room.ID, p.IsHost)
	}

	tracker.Sweep(base.Add(95 * time.Second))

	assert.Equal(t, 0, store.Count(), "lobby room closes with its host")
	assert.Equal(t, 0, tracker.TrackedCount(), "every record for the room is dropped")
}

func TestSweepHostTimeoutMidGameFlagsHost(t *testing.T) {
	store, tracker, room := newPresenceFixture(t, 5)
	_, err := room.Start("p0")
	require.NoError(t, err)

	base := time.Now()
	tracker.now = func() time.Time { return base }
	tracker.Track("p0", room.ID, true)

	tracker.Sweep(base.Add(95 * time.Second))

	assert.Equal(t, 1, store.Count(), "an active game outlives its host")
	snap := room.Snapshot()
	require.Len(t, snap.Players, 5)
	assert.True(t, snap.Players[0].IsDisconnected)
	assert.Equal(t, 0, tracker.TrackedCount())
}

func TestSweepHostTimeoutTinyGameClosesRoom(t *testing.T) {
	store, tracker, room := newPresenceFixture(t, 3)
	_, err := room.Start("p0")
	require.NoError(t, err)
	// Drop to two players; a host loss now tears the room down even mid-game.
	_, err = room.Kick("p0", "p2")
	require.NoError(t, err)

	base := time.Now()
	tracker.now = func() time.Time { return base }
	tracker.Track("p0", room.ID, true)

	tracker.Sweep(base.Add(95 * time.Second))
	assert.Equal(t, 0, store.Count())
}

func TestSweepForgetsRecordsForDeletedRooms(t *testing.T) {
	store, tracker, room := newPresenceFixture(t, 3)
	base := time.Now()
	tracker.now = func() time.Time { return base }
	tracker.Track("p1", room.ID, false)
	store.DeleteRoom(room.ID)

	tracker.Sweep(base.Add(95 * time.Second))
	assert.Equal(t, 0, tracker.TrackedCount())
}

func TestForgetRoomDropsAllRecords(t *testing.T) {
	_, tracker, room := newPresenceFixture(t, 3)
	for _, p := range room.Players {
		tracker.Track(p.ID, room.ID, p.IsHost)
	}
	tracker.Track("elsewhere", "OTHER1", false)

	tracker.ForgetRoom(room.ID)
	assert.Equal(t, 1, tracker.TrackedCount())
}
