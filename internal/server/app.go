// Package server wires and runs the userdesk reference server: an in-memory
// user directory behind the REST API the client talks to.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/dmitrijs2005/userdesk/internal/server/config"
	"github.com/dmitrijs2005/userdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/userdesk/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
}

func NewApp(c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(context.Background(), "no secret key configured, using a random one")
	}

	us := users.NewService(users.NewInMemoryRepository(), c)

	return &App{config: c, logger: logger, userService: us}, nil
}

// seedAdmin makes sure the configured admin account exists so a fresh
// server can be logged into.
func (app *App) seedAdmin(ctx context.Context) error {
	created, err := app.userService.EnsureUser(ctx, users.NewUser{
		Username: app.config.AdminUsername,
		Email:    app.config.AdminEmail,
		Password: app.config.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		app.logger.Info(ctx, "admin account created", "username", app.config.AdminUsername)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the API until SIGINT, SIGTERM or SIGQUIT, or until ctx is
// cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.seedAdmin(ctx); err != nil {
		return err
	}

	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	return nil
}
