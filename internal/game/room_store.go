package game

import (
	"math/rand"
	"sync"
	"time"
)

const roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomIDLength = 6

// RoomStore owns every active room, keyed by its short code. All map access
// is serialized on the store mutex; mutations inside a room are serialized
// on the room's own mutex.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand

	// NewRand produces the per-room random source used for role and word
	// selection. Tests swap it for a seeded source to pin outcomes.
	NewRand func() *rand.Rand
}

// NewRoomStore returns an empty in-memory room registry.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// CreateRoom builds a room with a fresh unique code and stores it. The code
// space is large enough that collisions are near-impossible, but they are
// checked anyway since the registry lock makes it free.
func (s *RoomStore) CreateRoom(hostID, category string, turnsPerPlayer, totalGames int) (*Room, error) {
	if !ValidCategory(category) {
		return nil, errInvalidState("unknown category %q", category)
	}
	if turnsPerPlayer < 1 {
		turnsPerPlayer = 2
	}
	if totalGames < 1 {
		totalGames = 3
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newRoomIDUnsafe()
	room := newRoom(id, hostID, category, turnsPerPlayer, totalGames, s.NewRand())
	s.rooms[id] = room
	return room, nil
}

// GetRoom retrieves a room by code.
func (s *RoomStore) GetRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// DeleteRoom removes a room from the registry.
func (s *RoomStore) DeleteRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// Count returns the number of active rooms.
func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *RoomStore) newRoomIDUnsafe() string {
	for {
		buf := make([]byte, roomIDLength)
		for i := range buf {
			buf[i] = roomIDAlphabet[s.rng.Intn(len(roomIDAlphabet))]
		}
		id := string(buf)
		if _, taken := s.rooms[id]; !taken {
			return id
		}
	}
}
