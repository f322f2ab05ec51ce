// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // environment overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values from the environment names the deployment
// has always used (BACKEND_API_URL, API_KEY, ...).
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Backend.URL, "BACKEND_API_URL")
	setIfEmpty(&cfg.Backend.APIKey, "API_KEY")
	setIfEmpty(&cfg.Backend.OAuth.ClientID, "BACKEND_CLIENT_ID")
	setIfEmpty(&cfg.Backend.OAuth.ClientSecret, "BACKEND_CLIENT_SECRET")
	setIfEmpty(&cfg.Backend.OAuth.TokenURL, "BACKEND_TOKEN_URL")

	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")

	setIfEmpty(&cfg.Camunda.BrokerAddress, "ZEEBE_ADDRESS")
}

func setIfEmpty(target *string, envKey string) {
	if *target != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*target = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "member-registration"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5000
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Draft.Backend == "" {
		cfg.Draft.Backend = DraftBackendMemory
	}
	if cfg.Draft.Key == "" {
		cfg.Draft.Key = "formData"
	}
	if cfg.Draft.TTL == 0 {
		cfg.Draft.TTL = int((7 * 24 * time.Hour).Milliseconds())
	}
	if cfg.Draft.SessionIdleTimeout == 0 {
		cfg.Draft.SessionIdleTimeout = int((30 * time.Minute).Milliseconds())
	}

	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30000
	}

	if cfg.Gateway.Mode == "" {
		cfg.Gateway.Mode = GatewayModeHTTP
	}
	if cfg.Gateway.Endpoint == "" {
		cfg.Gateway.Endpoint = fmt.Sprintf("http://127.0.0.1:%d/api/submit-form", cfg.Server.Port)
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = 30000
	}

	if cfg.Camunda.ProcessID == "" {
		cfg.Camunda.ProcessID = "member-registration"
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Images.MaxBytes == 0 {
		cfg.Images.MaxBytes = 3 * 1024 * 1024
	}
	if cfg.Images.MaxWidth == 0 {
		cfg.Images.MaxWidth = 500
	}

	if cfg.Locale.Default == "" {
		cfg.Locale.Default = "en"
	}
	if len(cfg.Locale.Supported) == 0 {
		cfg.Locale.Supported = []string{"en", "am"}
	}

	if cfg.Notifications.SMS.CountryCode == "" {
		cfg.Notifications.SMS.CountryCode = "251"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Backend.URL == "" {
		return fmt.Errorf("backend.url (BACKEND_API_URL) is required")
	}
	if cfg.Backend.APIKey == "" && cfg.Backend.OAuth.ClientID == "" {
		return fmt.Errorf("backend.api_key (API_KEY) or backend.oauth.client_id is required")
	}
	if cfg.Backend.OAuth.ClientID != "" && cfg.Backend.OAuth.TokenURL == "" &&
		(cfg.Backend.OAuth.KeycloakURL == "" || cfg.Backend.OAuth.Realm == "") {
		return fmt.Errorf("backend.oauth.token_url (or keycloak_url and realm) is required with client credentials")
	}

	switch cfg.Draft.Backend {
	case DraftBackendMemory:
	case DraftBackendRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis draft backend")
		}
	case DraftBackendPostgres:
		if cfg.Database.Postgres.Host == "" || cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.host and database are required for the postgres draft backend")
		}
	default:
		return fmt.Errorf("draft.backend %q is not supported", cfg.Draft.Backend)
	}

	switch cfg.Gateway.Mode {
	case GatewayModeHTTP:
	case GatewayModeCamunda:
		if cfg.Camunda.BrokerAddress == "" {
			return fmt.Errorf("camunda.broker_address is required for the camunda gateway")
		}
	default:
		return fmt.Errorf("gateway.mode %q is not supported", cfg.Gateway.Mode)
	}

	if cfg.Notifications.SMS.Enabled && cfg.Notifications.SMS.Region == "" {
		return fmt.Errorf("notifications.sms.region is required when sms is enabled")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
