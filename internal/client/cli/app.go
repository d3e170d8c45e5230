package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/client/form"
	"github.com/dmitrijs2005/userdesk/internal/client/imagex"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/filex"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

type authService interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg models.Registration) error
	Profile(ctx context.Context) (*models.UserRecord, error)
}

type directoryService interface {
	form.Directory
	Delete(ctx context.Context, username string) error
}

type gate interface {
	Allow(ctx context.Context) bool
	Enter(ctx context.Context) (context.Context, bool)
}

type sessionStore interface {
	Current(ctx context.Context) models.Session
	Purge(ctx context.Context) (int64, error)
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	auth      authService
	directory directoryService
	gate      gate
	sessions  sessionStore
	images    form.ImageIngestor
	closer    io.Closer
	reader    *bufio.Reader
	out       io.Writer
	route     Route
}

// NewApp opens the state database and wires the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	path := c.StatePath
	if path == "" {
		p, err := filex.DefaultStatePath("userdesk", "session.db")
		if err != nil {
			return nil, err
		}
		path = p
	} else if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("init state database: %w", err)
	}

	store := session.NewStore(db, config.SessionTTL, logger)
	api := client.NewHTTPClient(c.ServerURL, logger)
	auth := services.NewAuthService(api, store, logger)

	return &App{
		config:    c,
		logger:    logger,
		auth:      auth,
		directory: services.NewDirectoryService(api, auth, c.RequestTimeout, logger),
		gate:      services.NewGate(store),
		sessions:  store,
		images:    imagex.NewIngestor(),
		closer:    db,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run purges stale session rows, opens the home route and serves the REPL
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if a.closer != nil {
			_ = a.closer.Close()
		}
	}()

	if _, err := a.sessions.Purge(ctx); err != nil {
		a.logger.Warn(ctx, "purging expired session failed", "error", err)
	}

	a.println("Welcome to userdesk (type 'help' for commands)")
	_ = a.navigate(ctx, RouteHome)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) loggedIn(ctx context.Context) bool {
	return a.gate.Allow(ctx)
}

// status renders the prompt prefix, e.g. "alice /".
func (a *App) status() string {
	s := string(a.route)
	if sess := a.sessions.Current(context.Background()); sess.Present {
		s = sess.Username + " " + s
	}
	return s
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
