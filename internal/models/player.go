package models

// Player is a participant in a room. The ID is an opaque identifier supplied
// by the client (or generated server-side when omitted) and stays stable
// across rejoin.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`

	IsHost         bool `json:"isHost"`
	IsFakeArtist   bool `json:"isFakeArtist"`
	IsDisconnected bool `json:"isDisconnected,omitempty"`

	HasVoted    bool         `json:"hasVoted"`
	HasGuessed  bool         `json:"hasGuessed"`
	WordGuess   string       `json:"wordGuess,omitempty"`
	GuessResult *GuessResult `json:"guessResult,omitempty"`

	// Score accumulates across games within a series and resets only when a
	// new series begins.
	Score int `json:"score"`
}

// GuessResult is the outcome of matching a fake artist's word guess against
// the secret word.
type GuessResult struct {
	IsCorrect  bool    `json:"isCorrect"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	cp := *p
	if p.GuessResult != nil {
		gr := *p.GuessResult
		cp.GuessResult = &gr
	}
	return &cp
}
