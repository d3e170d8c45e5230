// Package config loads runtime configuration for the userdesk client.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   base URL of the user-management API
//	-t int      request timeout for directory calls (seconds)
//	-s string   path of the local session database
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they may be "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8081",
//	  "request_timeout": "30s",
//	  "state_path": "/home/me/.config/userdesk/session.db",
//	  "log_level": "info"
//	}
//
// LoginTimeout and SessionTTL are part of the API contract and are not
// configurable.
package config
