// internal/registration/submit-proxy/config.go
package submitproxy

import (
	"strings"
	"time"

	"member-registration/internal/common/config"
)

const (
	Route = "/api/submit-form"

	// DefaultMaxBodyBytes leaves room for a member photo and several child
	// photos, each base64-encoded.
	DefaultMaxBodyBytes int64 = 32 << 20
)

type Config struct {
	MembersURL   string
	Timeout      time.Duration
	MaxBodyBytes int64
}

func LoadConfig(cfg config.BackendConfig) *Config {
	return &Config{
		MembersURL:   strings.TrimRight(cfg.URL, "/") + "/members",
		Timeout:      config.GetDuration(cfg.Timeout),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}
