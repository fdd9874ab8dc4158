package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoGame is returned when a command needs a game id and none is known
var ErrNoGame = errors.New("no game selected: pass a game id, --game, or run 'game new'")

// Config holds CLI configuration
type Config struct {
	ServerURL string
	GameID    string
	GameFile  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("MINEGRID_SERVER", "http://localhost:8080"),
		GameID:    os.Getenv("MINEGRID_GAME"),
		GameFile:  getEnvOrDefault("MINEGRID_GAME_FILE", defaultGameFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadGame loads the current game id from file if not already set
func (c *Config) LoadGame() error {
	if c.GameID != "" {
		return nil
	}

	data, err := os.ReadFile(c.GameFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No game file is fine
		}
		return err
	}

	c.GameID = strings.TrimSpace(string(data))
	return nil
}

// SaveGame records id as the current game
func (c *Config) SaveGame(id string) error {
	c.GameID = id

	dir := filepath.Dir(c.GameFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.GameFile, []byte(id), 0600)
}

// ClearGame forgets id if it is the current game
func (c *Config) ClearGame(id string) error {
	if c.GameID != id {
		return nil
	}
	c.GameID = ""

	if err := os.Remove(c.GameFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ResolveGame picks the game id from an optional positional argument,
// falling back to the current game
func (c *Config) ResolveGame(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.GameID == "" {
		return "", ErrNoGame
	}
	return c.GameID, nil
}

func defaultGameFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minegrid/game"
	}
	return filepath.Join(home, ".minegrid", "game")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
