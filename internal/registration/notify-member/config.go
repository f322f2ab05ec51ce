// internal/registration/notify-member/config.go
package notifymember

import "member-registration/internal/common/config"

type Config struct {
	Enabled     bool
	SenderID    string
	CountryCode string
	Locale      string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Enabled:     cfg.Notifications.SMS.Enabled,
		SenderID:    cfg.Notifications.SMS.SenderID,
		CountryCode: cfg.Notifications.SMS.CountryCode,
		Locale:      cfg.Locale.Default,
	}
}
