package game

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomCodeFormat(t *testing.T) {
	store := NewRoomStore()
	codeRe := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		room, err := store.CreateRoom("host", "animals", 2, 3)
		require.NoError(t, err)
		assert.Regexp(t, codeRe, room.ID)
		assert.False(t, seen[room.ID], "codes are unique")
		seen[room.ID] = true
	}
	assert.Equal(t, 100, store.Count())
}

func TestCreateRoomValidation(t *testing.T) {
	store := NewRoomStore()

	_, err := store.CreateRoom("host", "paintings", 2, 3)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	room, err := store.CreateRoom("host", "movies", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, room.TurnsPerPlayer, "invalid turns fall back to the default")
	assert.Equal(t, 3, room.TotalGames, "invalid games fall back to the default")
	assert.Equal(t, "movies", room.Category)
	assert.Contains(t, categories["movies"], room.Word)
	assert.Equal(t, 1, room.CurrentGame)
	assert.Equal(t, PhaseLobby, room.GamePhase)
	assert.Equal(t, []string{room.Word}, room.UsedWords)
}

func TestGetAndDeleteRoom(t *testing.T) {
	store := NewRoomStore()
	room, err := store.CreateRoom("host", "objects", 2, 3)
	require.NoError(t, err)

	got, ok := store.GetRoom(room.ID)
	require.True(t, ok)
	assert.Same(t, room, got)

	_, ok = store.GetRoom("NOPE42")
	assert.False(t, ok)

	store.DeleteRoom(room.ID)
	_, ok = store.GetRoom(room.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Count())
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewRoomStore()
	var wg sync.WaitGroup
	ids := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, err := store.CreateRoom("host", "countries", 2, 3)
			if assert.NoError(t, err) {
				ids <- room.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		_, ok := store.GetRoom(id)
		assert.True(t, ok)
	}
	assert.Equal(t, 50, store.Count())
}
