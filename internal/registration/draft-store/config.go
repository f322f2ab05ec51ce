// internal/registration/draft-store/config.go
package draftstore

import (
	"time"

	"member-registration/internal/common/config"
)

// DefaultKey is the record name the draft has always been stored under.
const DefaultKey = "formData"

type Config struct {
	Key string
	TTL time.Duration
}

func LoadConfig(cfg config.DraftConfig) *Config {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &Config{
		Key: key,
		TTL: config.GetDuration(cfg.TTL),
	}
}

// SessionKey scopes the base key to one wizard session.
func SessionKey(base, sessionID string) string {
	if sessionID == "" {
		return base
	}
	return base + ":" + sessionID
}
