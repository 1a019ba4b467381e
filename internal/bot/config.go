package bot

import (
	"os"
	"strconv"

	"github.com/example/lingobot/internal/review"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Maximum number of due exercises pulled into one practice session
	DueLimit int
}

// DefaultConfig returns the default bot configuration, with overrides taken
// from the environment.
func DefaultConfig() *BotConfig {
	config := &BotConfig{
		DueLimit: review.DefaultDueLimit,
	}

	if raw := os.Getenv("SESSION_BATCH_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			config.DueLimit = n
		}
	}

	return config
}
