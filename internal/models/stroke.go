package models

// Point is a single stroke point submitted by the current-turn player.
// Type distinguishes stroke starts/continuations on the client canvas.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Type string  `json:"type,omitempty"`
}
