package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/messagely/internal/client/client"
	"github.com/dmitrijs2005/messagely/internal/client/config"
	"github.com/dmitrijs2005/messagely/internal/client/repositories/session"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	api      *client.APIClient
	repos    *client.Repositories
	userName string
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, c.CachePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	a := &App{
		config: c,
		api:    client.NewAPIClient(c.ServerURL, c.Timeout),
		repos:  repos,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	if err := a.restoreSession(ctx); err != nil {
		_ = repos.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) restoreSession(ctx context.Context) error {
	s, err := a.repos.Session.Load(ctx)
	if err != nil {
		return err
	}
	if s != nil {
		a.userName = s.Username
		a.api.SetToken(s.Token)
	}
	return nil
}

func (a *App) saveSession(ctx context.Context, username string) error {
	a.userName = username
	return a.repos.Session.Save(ctx, session.Session{
		Username:  username,
		Token:     a.api.Token(),
		CreatedAt: time.Now(),
	})
}

// dropSession forgets the login locally. The cached inbox stays so a later
// login of the same user can still read it offline.
func (a *App) dropSession(ctx context.Context) error {
	a.userName = ""
	a.api.SetToken("")
	return a.repos.Session.Clear(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// checkOnline pings the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// apiError turns an expired or revoked session into a logout.
func (a *App) apiError(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		_ = a.dropSession(ctx)
		return fmt.Errorf("session expired, please login again: %w", err)
	}
	return err
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to Messagely CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
