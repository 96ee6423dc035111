package models

import (
	"time"

	"github.com/google/uuid"
)

// GameRecord summarizes one completed game within a series. Records are kept
// on the room for the duration of the series and may additionally be pushed
// to an external history queue.
type GameRecord struct {
	ID             uuid.UUID      `json:"id"`
	RoomID         string         `json:"roomId"`
	Game           int            `json:"game"`
	Word           string         `json:"word"`
	FakeArtistIDs  []string       `json:"fakeArtistIds"`
	FakeArtistsWon bool           `json:"fakeArtistsWon"`
	Awards         map[string]int `json:"awards"`
	EndedAt        time.Time      `json:"endedAt"`
}
