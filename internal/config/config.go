package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultPath is where the Nakama module looks for its game configuration.
const DefaultPath = "data/game_config.json"

// GameConfig holds the tunables of the game and of the chat dispatcher.
// JSON values are read first; MENTEUR_* environment variables override them.
type GameConfig struct {
	CommandPrefix string `json:"command_prefix" env:"MENTEUR_COMMAND_PREFIX"`
	Locale        string `json:"locale"         env:"MENTEUR_LOCALE"`
	MinPlayers    int    `json:"min_players"    env:"MENTEUR_MIN_PLAYERS"`
	MaxPlayers    int    `json:"max_players"    env:"MENTEUR_MAX_PLAYERS"`
	// QueueSize bounds the number of commands waiting for one table.
	QueueSize int `json:"queue_size" env:"MENTEUR_QUEUE_SIZE"`

	// ContentKey is the field of a chat message's JSON content holding the text.
	ContentKey      string `json:"content_key"      env:"MENTEUR_CONTENT_KEY"`
	BotUsername     string `json:"bot_username"     env:"MENTEUR_BOT_USERNAME"`
	PersistMessages bool   `json:"persist_messages" env:"MENTEUR_PERSIST_MESSAGES"`

	// Bridge tokens let an external chat gateway call the command RPC on behalf of a player.
	BridgeIssuer          string `json:"bridge_issuer"            env:"MENTEUR_BRIDGE_ISSUER"`
	BridgeSecret          string `json:"bridge_secret"            env:"MENTEUR_BRIDGE_SECRET"`
	BridgeTokenTTLSeconds int    `json:"bridge_token_ttl_seconds" env:"MENTEUR_BRIDGE_TOKEN_TTL_SECONDS"`
}

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		CommandPrefix:         "!",
		Locale:                "fr",
		MinPlayers:            2,
		MaxPlayers:            8,
		QueueSize:             32,
		ContentKey:            "message",
		BotUsername:           "menteur",
		BridgeIssuer:          "menteur",
		BridgeTokenTTLSeconds: 3600,
	}
}

// Load reads the JSON file at path on top of Default, then applies overrides
// from environ. A missing file is not an error. A nil environ means the
// process environment.
func Load(path string, environ map[string]string) (*GameConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read game config: %w", err)
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
			}
		}
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the player bounds and the command prefix.
func (c *GameConfig) Validate() error {
	if strings.TrimSpace(c.CommandPrefix) == "" {
		return errors.New("command_prefix must not be empty")
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("min_players must be at least 2, got %d", c.MinPlayers)
	}
	if c.MaxPlayers > 52 {
		return fmt.Errorf("max_players must be at most 52, got %d", c.MaxPlayers)
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("min_players (%d) exceeds max_players (%d)", c.MinPlayers, c.MaxPlayers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	return nil
}

// BridgeTokenTTL returns the lifetime of issued bridge tokens.
func (c *GameConfig) BridgeTokenTTL() time.Duration {
	if c.BridgeTokenTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.BridgeTokenTTLSeconds) * time.Second
}
