package game

import "github.com/Moy64ever2/FakeArtist/internal/models"

// resetForNextGameUnsafe returns the room to the lobby and advances the
// series. Per-game transient state (votes, strokes, turn counters, roles,
// guesses) is cleared unconditionally. When the series is complete, or the
// room plays single games, a fresh series begins: game counter back to one,
// history and cumulative scores wiped. Mid-series, the game counter advances
// and scores carry over.
//
// Either way a new secret word is drawn from the current category, skipping
// already used words while the pool offers an alternative.
func (r *Room) resetForNextGameUnsafe() {
	r.GamePhase = PhaseLobby
	r.CurrentTurn = 0
	r.CompletedTurns = 0
	r.DrawingData = []models.Point{}
	r.Votes = map[string]string{}
	r.CurrentTurnStartTime = 0

	seriesComplete := r.CurrentGame >= r.TotalGames

	for _, p := range r.Players {
		p.IsFakeArtist = false
		p.HasVoted = false
		p.HasGuessed = false
		p.WordGuess = ""
		p.GuessResult = nil
	}

	if seriesComplete || r.TotalGames == 1 {
		r.CurrentGame = 1
		r.GameHistory = r.GameHistory[:0]
		r.SeriesScores = map[string]int{}
		r.UsedWords = r.UsedWords[:0]
		for _, p := range r.Players {
			p.Score = 0
		}
	} else {
		r.CurrentGame++
	}

	r.Word = randomWordAvoiding(r.rng, r.Category, r.UsedWords)
	r.UsedWords = append(r.UsedWords, r.Word)
}
