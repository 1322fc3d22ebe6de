package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the sinawise server.
type Config struct {
	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string `yaml:"listen_addr"`
	// DatabasePath is the path to the bbolt database file.
	DatabasePath string `yaml:"database_path"`
	// LogLevel is the minimum logging level (debug/info/warn/error/fatal).
	LogLevel string `yaml:"log_level"`
	// Emergency configures alert notification dispatch.
	Emergency EmergencyConfig `yaml:"emergency"`
	// Auth configures the admin login and token verification.
	Auth AuthConfig `yaml:"auth"`
	// IoT configures air-quality ingestion.
	IoT IoTConfig `yaml:"iot"`
}

// EmergencyConfig controls how emergency alerts are pushed to clients.
type EmergencyConfig struct {
	// Topic is the broadcast topic all mobile clients subscribe to.
	Topic string `yaml:"topic"`
	// NotifyOnClear enables a normal-priority push when an emergency is cleared.
	// Clears are silent by default to avoid notification fatigue.
	NotifyOnClear bool `yaml:"notify_on_clear"`
	// TTLSeconds is how long an undelivered push stays queued.
	TTLSeconds int `yaml:"ttl_seconds"`
	// AndroidChannelID is the notification channel used for high-urgency alerts.
	AndroidChannelID string `yaml:"android_channel_id"`
	// AndroidSound is the device-side sound hint for high-urgency alerts.
	AndroidSound string `yaml:"android_sound"`
	// SendTimeout bounds a single delivery attempt at the transport boundary.
	SendTimeout time.Duration `yaml:"send_timeout"`
	// CredentialsFile is the path to the Firebase service account JSON.
	CredentialsFile string `yaml:"credentials_file"`
	// CredentialsJSON is the inline service account JSON. It is only ever
	// supplied through the environment and is not persisted to YAML.
	CredentialsJSON string `yaml:"-"`
}

// AuthConfig holds admin credentials and token settings.
type AuthConfig struct {
	// AdminUsername is the only account allowed to call admin endpoints.
	AdminUsername string `yaml:"admin_username"`
	// AdminPassword verifies admin logins. A bcrypt hash (prefix "$2") is
	// compared as a hash, anything else in constant time as plaintext.
	AdminPassword string `yaml:"admin_password"`
	// JWTSecret signs admin session tokens.
	JWTSecret string `yaml:"jwt_secret"`
	// TokenTTL is the admin session token lifetime.
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// IoTConfig holds air-quality ingestion settings.
type IoTConfig struct {
	// APIKey guards the ingestion endpoint. Empty disables the check.
	APIKey string `yaml:"api_key"`
	// PM25GreenMax is the upper bound (inclusive) of the green band, ug/m3.
	PM25GreenMax float64 `yaml:"pm25_green_max"`
	// PM25YellowMax is the upper bound (inclusive) of the yellow band, ug/m3.
	PM25YellowMax float64 `yaml:"pm25_yellow_max"`
}

const (
	// DefaultConfigFilename is the default filename for server settings.
	DefaultConfigFilename = "sinawise-settings.yaml"

	// DefaultListenAddress is the default HTTP bind address.
	DefaultListenAddress = ":8000"

	// DefaultDatabaseFilename is the default filename for the bbolt database.
	DefaultDatabaseFilename = "sinawise.db"

	// DefaultTopic is the broadcast topic for emergency pushes.
	DefaultTopic = "emergency_alerts"

	// DefaultTTLSeconds is the default queue lifetime for undelivered pushes.
	DefaultTTLSeconds = 3600

	// DefaultAndroidChannelID is the default notification channel identifier.
	DefaultAndroidChannelID = "sinawise_alerts"

	// DefaultAndroidSound is the default notification sound hint.
	DefaultAndroidSound = "default"

	// DefaultSendTimeout bounds a single push delivery attempt.
	DefaultSendTimeout = 10 * time.Second

	// DefaultTokenTTL is the default admin session token lifetime.
	DefaultTokenTTL = 12 * time.Hour

	// DefaultPM25GreenMax is the default green band bound, ug/m3.
	DefaultPM25GreenMax = 15

	// DefaultPM25YellowMax is the default yellow band bound, ug/m3.
	DefaultPM25YellowMax = 35

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errJWTSecretRequired is returned when admin endpoints cannot be secured.
	errJWTSecretRequired = errors.New("jwt secret must be provided")
	// errAdminCredentialsRequired is returned when the admin account is not configured.
	errAdminCredentialsRequired = errors.New("admin username and password must be provided")
)

// Default returns a configuration with every field set to its default value.
func Default() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		DatabasePath:  DefaultDatabaseFilename,
		Emergency: EmergencyConfig{
			Topic:            DefaultTopic,
			TTLSeconds:       DefaultTTLSeconds,
			AndroidChannelID: DefaultAndroidChannelID,
			AndroidSound:     DefaultAndroidSound,
			SendTimeout:      DefaultSendTimeout,
		},
		Auth: AuthConfig{
			TokenTTL: DefaultTokenTTL,
		},
		IoT: IoTConfig{
			PM25GreenMax:  DefaultPM25GreenMax,
			PM25YellowMax: DefaultPM25YellowMax,
		},
	}
}

// Load reads configuration from the provided path, layers environment overrides
// on top and validates essential fields. A missing settings file is not an
// error: deployments that configure everything through the environment run
// without one.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only deployment.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for optional fields that were left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabaseFilename
	}

	if cfg.Emergency.Topic == "" {
		cfg.Emergency.Topic = DefaultTopic
	}

	if cfg.Emergency.TTLSeconds <= 0 {
		cfg.Emergency.TTLSeconds = DefaultTTLSeconds
	}

	if cfg.Emergency.SendTimeout <= 0 {
		cfg.Emergency.SendTimeout = DefaultSendTimeout
	}

	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}

	if cfg.IoT.PM25GreenMax <= 0 {
		cfg.IoT.PM25GreenMax = DefaultPM25GreenMax
	}

	if cfg.IoT.PM25YellowMax <= cfg.IoT.PM25GreenMax {
		cfg.IoT.PM25YellowMax = DefaultPM25YellowMax
	}

	if cfg.Auth.JWTSecret == "" {
		return errJWTSecretRequired
	}

	if cfg.Auth.AdminUsername == "" || cfg.Auth.AdminPassword == "" {
		return errAdminCredentialsRequired
	}

	return nil
}

// applyEnv overrides configuration fields from the process environment.
// Missing push credentials are allowed: dispatch degrades, endpoints keep working.
func applyEnv(cfg *Config) {
	setString(&cfg.ListenAddress, "LISTEN_ADDRESS")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Emergency.Topic, "FCM_TOPIC")
	setBool(&cfg.Emergency.NotifyOnClear, "NOTIFY_ON_CLEAR")
	setInt(&cfg.Emergency.TTLSeconds, "FCM_TTL_SECONDS")
	setString(&cfg.Emergency.AndroidChannelID, "FCM_ANDROID_CHANNEL_ID")
	setString(&cfg.Emergency.AndroidSound, "FCM_ANDROID_SOUND")
	setString(&cfg.Emergency.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.Emergency.CredentialsJSON, "FIREBASE_SERVICE_ACCOUNT_JSON")

	setString(&cfg.Auth.AdminUsername, "ADMIN_USERNAME")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")

	setString(&cfg.IoT.APIKey, "IOT_API_KEY")
	setFloat(&cfg.IoT.PM25GreenMax, "IOT_PM25_GREEN_MAX")
	setFloat(&cfg.IoT.PM25YellowMax, "IOT_PM25_YELLOW_MAX")
}

// setString overwrites dst when the environment variable is set and non-empty.
func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// setBool overwrites dst when the environment variable parses as a boolean.
func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

// setInt overwrites dst when the environment variable parses as an integer.
func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

// setFloat overwrites dst when the environment variable parses as a float.
func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}
