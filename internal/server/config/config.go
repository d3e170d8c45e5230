// Package config handles configuration for the reference server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the userdesk reference server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Empty means
//     a random key per process, so tokens do not survive a restart.
//   - AccessTokenValidityDuration: access token lifetime.
//   - AdminUsername / AdminPassword / AdminEmail: the account seeded at
//     startup so the directory is never empty.
//   - LogLevel: one of debug, info, warn, error.
type Config struct {
	EndpointAddr                string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	AdminUsername               string
	AdminPassword               string
	AdminEmail                  string
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: The admin password is insecure and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8081"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.AdminUsername = "admin"
	c.AdminPassword = "adminpass"
	c.AdminEmail = "admin@example.com"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
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
