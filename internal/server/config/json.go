package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
	"github.com/dmitrijs2005/userdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations
// accept "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	AdminUsername               string         `json:"admin_username"`
	AdminPassword               string         `json:"admin_password"`
	AdminEmail                  string         `json:"admin_email"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson overlays config with the file named by -c or -config. Keys
// absent from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.AdminUsername != "" {
		config.AdminUsername = c.AdminUsername
	}
	if c.AdminPassword != "" {
		config.AdminPassword = c.AdminPassword
	}
	if c.AdminEmail != "" {
		config.AdminEmail = c.AdminEmail
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	return nil
}
