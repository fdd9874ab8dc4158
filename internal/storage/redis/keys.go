package redis

import (
	"fmt"

	"github.com/mcoot/minegrid/internal/model"
)

// Key prefix for all session data
const keyPrefix = "minegrid"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gameKeyPattern matches every game key for SCAN
func gameKeyPattern() string {
	return fmt.Sprintf("%s:game:*", keyPrefix)
}

// gameIDFromKey strips the prefix from a game key
func gameIDFromKey(key string) model.GameID {
	return model.GameID(key[len(keyPrefix)+len(":game:"):])
}
