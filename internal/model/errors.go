package model

import "errors"

// Common errors used across the application
var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid board configuration")

	// Grid errors
	ErrOutOfBounds     = errors.New("position is outside the grid")
	ErrDuplicateHazard = errors.New("hazard placed twice on the same cell")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
)
