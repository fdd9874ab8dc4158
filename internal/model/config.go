package model

import "fmt"

// Board defaults match the classic 16x16 layout
const (
	DefaultRows      = 16
	DefaultCols      = 16
	DefaultHazards   = 40
	DefaultTimeLimit = 999

	// MaxDimension bounds rows and cols so a request cannot allocate an unbounded grid
	MaxDimension = 256
)

// Config holds the parameters of one game
type Config struct {
	Rows      int
	Cols      int
	Hazards   int
	TimeLimit int // Ticks allowed before the game is lost
}

// DefaultConfig returns the default board configuration
func DefaultConfig() Config {
	return Config{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		Hazards:   DefaultHazards,
		TimeLimit: DefaultTimeLimit,
	}
}

// Cells returns the number of cells on the board
func (c Config) Cells() int {
	return c.Rows * c.Cols
}

// SafeCells returns the number of cells that must be revealed to win
func (c Config) SafeCells() int {
	return c.Cells() - c.Hazards
}

// Validate checks the configuration before any generation work
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0 || c.Cols <= 0:
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidConfiguration, c.Rows, c.Cols)
	case c.Rows > MaxDimension || c.Cols > MaxDimension:
		return fmt.Errorf("%w: dimensions must not exceed %d, got %dx%d", ErrInvalidConfiguration, MaxDimension, c.Rows, c.Cols)
	case c.Hazards < 0:
		return fmt.Errorf("%w: hazard count must not be negative, got %d", ErrInvalidConfiguration, c.Hazards)
	case c.Hazards >= c.Cells():
		return fmt.Errorf("%w: hazard count %d must be less than cell count %d", ErrInvalidConfiguration, c.Hazards, c.Cells())
	case c.TimeLimit <= 0:
		return fmt.Errorf("%w: time limit must be positive, got %d", ErrInvalidConfiguration, c.TimeLimit)
	}
	return nil
}
