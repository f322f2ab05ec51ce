// internal/registration/wizard-controller/config.go
package wizardcontroller

import (
	"time"

	"member-registration/internal/common/config"
	draftstore "member-registration/internal/registration/draft-store"
)

type Config struct {
	// SubmitTimeout bounds one gateway call on top of the caller's context.
	SubmitTimeout time.Duration
	// DraftKey is the base record name; sessions append ":<id>".
	DraftKey string
	// IdleTimeout evicts sessions from memory after this long without a
	// Create or Get. Zero keeps them until Forget.
	IdleTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	key := cfg.Draft.Key
	if key == "" {
		key = draftstore.DefaultKey
	}
	return &Config{
		SubmitTimeout: config.GetDuration(cfg.Gateway.Timeout),
		DraftKey:      key,
		IdleTimeout:   config.GetDuration(cfg.Draft.SessionIdleTimeout),
	}
}
