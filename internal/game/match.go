package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Moy64ever2/FakeArtist/internal/models"
)

// normalizeGuess lowercases, trims and strips combining marks so that
// accented submissions still match plain-ASCII words.
func normalizeGuess(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CheckGuess scores a fake artist's free-text guess against the secret word.
// Exact match wins outright; containment in either direction counts as a
// partial match. Intentionally permissive, no edit distance.
func CheckGuess(guess, word string) models.GuessResult {
	g := normalizeGuess(guess)
	w := normalizeGuess(word)

	if g == w {
		return models.GuessResult{IsCorrect: true, Confidence: 1.0, Reason: "Exact match"}
	}
	if g != "" && w != "" && (strings.Contains(g, w) || strings.Contains(w, g)) {
		return models.GuessResult{IsCorrect: true, Confidence: 0.8, Reason: "Partial match"}
	}
	return models.GuessResult{IsCorrect: false, Confidence: 0.0, Reason: "No match"}
}
