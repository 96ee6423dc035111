package game

import "github.com/Moy64ever2/FakeArtist/internal/models"

// Outcome is the result of scoring a finished game. Awards hold the points
// gained this game per player id; they are added on top of cumulative scores
// by the caller.
type Outcome struct {
	Awards            map[string]int
	FakeArtistsWon    bool
	FakeArtistsCaught bool
	AnyFakeGuessed    bool
}

// ScoreGame computes post-vote point awards. Pure function of the player list
// and the voterId -> targetId map; it never mutates its inputs.
//
// Fake artists are caught only when at least one of them is among the players
// with the maximum vote count (plurality, ties count as caught). They win the
// game by guessing the word or by staying uncaught. Regular players score for
// voting for any fake artist, scaled by how many of them got it right, with a
// +1 bonus when the fake artists lost outright.
func ScoreGame(players []*models.Player, votes map[string]string) Outcome {
	fakeIDs := make(map[string]bool)
	regularCount := 0
	anyFakeGuessed := false
	for _, p := range players {
		if p.IsFakeArtist {
			fakeIDs[p.ID] = true
			if p.GuessResult != nil && p.GuessResult.IsCorrect {
				anyFakeGuessed = true
			}
		} else {
			regularCount++
		}
	}

	// Plurality tally over every cast vote.
	voteCounts := make(map[string]int)
	maxVotes := 0
	for _, target := range votes {
		voteCounts[target]++
		if voteCounts[target] > maxVotes {
			maxVotes = voteCounts[target]
		}
	}
	caught := false
	for target, n := range voteCounts {
		if n == maxVotes && fakeIDs[target] {
			caught = true
			break
		}
	}

	fakeArtistsWon := anyFakeGuessed || !caught

	// k = regular players whose vote landed on any fake artist.
	correctVoters := 0
	for _, p := range players {
		if !p.IsFakeArtist && fakeIDs[votes[p.ID]] {
			correctVoters++
		}
	}

	awards := make(map[string]int, len(players))
	for _, p := range players {
		award := 0
		if p.IsFakeArtist {
			if fakeArtistsWon {
				award = 3
			}
		} else if fakeIDs[votes[p.ID]] {
			switch {
			case correctVoters == 1:
				award = 5
			case correctVoters == 2:
				award = 3
			case correctVoters <= (regularCount+1)/2:
				award = 2
			default:
				award = 1
			}
			if !fakeArtistsWon {
				award++
			}
		}
		awards[p.ID] = award
	}

	return Outcome{
		Awards:            awards,
		FakeArtistsWon:    fakeArtistsWon,
		FakeArtistsCaught: caught,
		AnyFakeGuessed:    anyFakeGuessed,
	}
}
