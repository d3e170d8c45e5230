package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8081")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   seeded admin username
//	-p string   seeded admin password
//	-e string   seeded admin email
//	-l string   log level
//
// Duration flags are accepted as integers in minutes and only override the
// current value when passed explicitly.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-u", "-p", "-e", "-l"})

	fs := flag.NewFlagSet("userdesk-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "admin username")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "admin password")
	fs.StringVar(&config.AdminEmail, "e", config.AdminEmail, "admin email")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if !isSet(fs, "t") {
		return nil
	}
	if *accessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive, got %d", *accessTokenValidityDuration)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
