package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/client/api"
	"github.com/dmitrijs2005/salarygate/internal/client/config"
	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Accounts is the server surface the console drives. *api.Client
// implements it.
type Accounts interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, username, password string) (string, error)
	Logout()
	Session() *api.Session
	ChangePassword(ctx context.Context, current, next string) (string, error)
	GetUser(ctx context.Context, username string) (*rpc.User, error)
	ListUsers(ctx context.Context) ([]rpc.User, error)
	CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (string, error)
	ResetPassword(ctx context.Context, username, password string) (string, error)
	UpdateUser(ctx context.Context, username string, email, role *string) (string, error)
	DeleteUser(ctx context.Context, username string) (string, error)
	MigrateLegacy(ctx context.Context) (string, error)
	ListAudit(ctx context.Context, username string, limit int) ([]rpc.AuditEvent, error)
	Close() error
}

type App struct {
	config   *config.Config
	accounts Accounts
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stderr, "warn").With("component", "console")

	return newApp(c, client, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, accounts Accounts, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		accounts: accounts,
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run logs in, starts the connectivity watcher and blocks in the REPL until
// the operator exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.accounts.Close(); err != nil {
			a.logger.Warn(ctx, "closing connection", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the salarygate admin console (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	_ = a.Login(ctx, nil)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.accounts.Session() != nil
}

func (a *App) isAdmin() bool {
	s := a.accounts.Session()
	return s != nil && s.Role == "admin"
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.accounts.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
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

func (a *App) getStatus() string {
	s := ""
	if session := a.accounts.Session(); session != nil {
		s = session.Username + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
