// internal/registration/submission-gateway/config.go
package submissiongateway

import (
	"time"

	"member-registration/internal/common/config"
)

type Config struct {
	Mode      string
	Endpoint  string
	Timeout   time.Duration
	ProcessID string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Mode:      cfg.Gateway.Mode,
		Endpoint:  cfg.Gateway.Endpoint,
		Timeout:   config.GetDuration(cfg.Gateway.Timeout),
		ProcessID: cfg.Camunda.ProcessID,
	}
}
