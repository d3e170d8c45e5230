package config

import "time"

const (
	// LoginTimeout bounds the credential exchange and self-service registration.
	LoginTimeout = 10 * time.Second

	// SessionTTL is how long a stored session stays valid, regardless of the
	// server-side token lifetime.
	SessionTTL = 24 * time.Hour
)

// Config holds runtime settings for the userdesk terminal client.
type Config struct {
	// ServerURL is the base URL of the user-management API.
	ServerURL string
	// RequestTimeout bounds list, create, update and delete calls.
	RequestTimeout time.Duration
	// StatePath is the SQLite file holding the session. Empty means the
	// per-user default location.
	StatePath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8081"
	c.RequestTimeout = 30 * time.Second
	c.StatePath = ""
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
