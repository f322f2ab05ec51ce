// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Draft         DraftConfig        `mapstructure:"draft"`
	Backend       BackendConfig      `mapstructure:"backend"`
	Gateway       GatewayConfig      `mapstructure:"gateway"`
	Camunda       CamundaConfig      `mapstructure:"camunda"`
	Images        ImageConfig        `mapstructure:"images"`
	Locale        LocaleConfig       `mapstructure:"locale"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	Mode            string `mapstructure:"mode"`             // gin mode: debug, release, test
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Registration Configuration ---

// Draft storage backends.
const (
	DraftBackendMemory   = "memory"
	DraftBackendRedis    = "redis"
	DraftBackendPostgres = "postgres"
)

// DraftConfig selects where in-progress registrations are persisted.
type DraftConfig struct {
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`
	TTL     int    `mapstructure:"ttl"` // milliseconds, redis only
	// SessionIdleTimeout evicts in-memory wizard sessions untouched for this
	// long, in milliseconds. Their drafts stay persisted.
	SessionIdleTimeout int `mapstructure:"session_idle_timeout"`
}

// BackendConfig describes the member backend the submission proxy forwards to.
type BackendConfig struct {
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds

	// OAuth2 client credentials replace APIKey when ClientID is set.
	// TokenURL may be left empty when KeycloakURL and Realm are given.
	OAuth struct {
		TokenURL     string   `mapstructure:"token_url"`
		KeycloakURL  string   `mapstructure:"keycloak_url"`
		Realm        string   `mapstructure:"realm"`
		ClientID     string   `mapstructure:"client_id"`
		ClientSecret string   `mapstructure:"client_secret"`
		Scopes       []string `mapstructure:"scopes"`
	} `mapstructure:"oauth"`
}

// Gateway modes.
const (
	GatewayModeHTTP    = "http"
	GatewayModeCamunda = "camunda"
)

// GatewayConfig controls how the wizard hands off the final payload.
type GatewayConfig struct {
	Mode     string `mapstructure:"mode"`
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	ProcessID      string `mapstructure:"process_id"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ImageConfig bounds uploaded photos.
type ImageConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
	MaxWidth int   `mapstructure:"max_width"`
}

type LocaleConfig struct {
	Default   string   `mapstructure:"default"`
	Supported []string `mapstructure:"supported"`
}

// NotificationConfig holds settings for the confirmation SMS.
type NotificationConfig struct {
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		SenderID string `mapstructure:"sender_id"`

		// CountryCode is prefixed to local numbers such as 0911223344.
		CountryCode string `mapstructure:"country_code"`
	} `mapstructure:"sms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
