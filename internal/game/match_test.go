package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckGuess(t *testing.T) {
	tests := []struct {
		name       string
		guess      string
		word       string
		correct    bool
		confidence float64
	}{
		{"exact ignoring case", "cat", "Cat", true, 1.0},
		{"exact with whitespace", "  Pizza ", "Pizza", true, 1.0},
		{"guess contains word", "big cat", "cat", true, 0.8},
		{"word contains guess", "nemo", "Finding Nemo", true, 0.8},
		{"no match", "dog", "cat", false, 0.0},
		{"accented guess", "Napoléon", "Napoleon", true, 1.0},
		{"empty guess", "", "cat", false, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := CheckGuess(tc.guess, tc.word)
			assert.Equal(t, tc.correct, res.IsCorrect)
			assert.InDelta(t, tc.confidence, res.Confidence, 0.001)
		})
	}
}

func TestCheckGuessReasons(t *testing.T) {
	assert.Equal(t, "Exact match", CheckGuess("cat", "Cat").Reason)
	assert.Equal(t, "Partial match", CheckGuess("big cat", "cat").Reason)
	assert.Equal(t, "No match", CheckGuess("dog", "cat").Reason)
}
