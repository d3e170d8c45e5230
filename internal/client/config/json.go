package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
	"github.com/dmitrijs2005/userdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys keep the
// values already in Config.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StatePath      string         `json:"state_path"`
	LogLevel       string         `json:"log_level"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StatePath != "" {
		cfg.StatePath = jc.StatePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
