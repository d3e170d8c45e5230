package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
)

// parseFlags overlays cfg with the flags it owns; other arguments are left
// for other loaders.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-l"})

	fs := flag.NewFlagSet("userdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the user-management API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if !isSet(fs, "t") {
		return nil
	}
	if *requestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", *requestTimeout)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}

// isSet reports whether name was passed explicitly.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
