// Package server wires the credential store, the account service, the
// audit trail and the prediction model to the gRPC and HTTP transports and
// runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/server/audit"
	"github.com/dmitrijs2005/salarygate/internal/server/auth"
	"github.com/dmitrijs2005/salarygate/internal/server/config"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/policy"
	"github.com/dmitrijs2005/salarygate/internal/server/predict"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
	"github.com/dmitrijs2005/salarygate/internal/server/web"

	gs "github.com/dmitrijs2005/salarygate/internal/server/grpc"
)

const (
	auditDriverNone = "none"
	auditRetention  = 90 * 24 * time.Hour
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	accounts  *services.AccountService
	predictor *predict.Predictor
	issuer    *auth.Issuer
	auditDB   *sql.DB
	events    audit.Repository
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	recorder := audit.Recorder(audit.NopRecorder{})
	if c.AuditDriver != "" && c.AuditDriver != auditDriverNone {
		db, repo, err := audit.Open(ctx, c.AuditDriver, c.AuditDSN)
		if err != nil {
			return nil, fmt.Errorf("audit init error: %w", err)
		}
		app.auditDB, app.events, recorder = db, repo, repo

		if n, err := repo.Purge(ctx, time.Now().Add(-auditRetention)); err != nil {
			logger.Warn(ctx, "audit purge failed", "error", err)
		} else if n > 0 {
			logger.Info(ctx, "audit events purged", "count", n)
		}
	}

	store := credentials.NewFileStore(c.UsersFile,
		credentials.WithBootstrap(credentials.Bootstrap{
			Username: credentials.DefaultBootstrap().Username,
			Password: c.AdminPassword,
			Email:    c.AdminEmail,
		}),
		credentials.WithLogger(logger))

	accounts, err := services.NewAccountService(ctx, store,
		services.WithLockout(policy.Lockout{MaxAttempts: c.MaxLoginAttempts, Duration: c.LockoutDuration}),
		services.WithLogger(logger),
		services.WithAudit(recorder))
	if err != nil {
		app.closeAudit(ctx)
		return nil, fmt.Errorf("credential store init error: %w", err)
	}
	app.accounts = accounts

	app.predictor = predict.NewPredictor(nil, logger)
	model, err := predict.LoadModel(ctx, c.ModelSource, predict.S3Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		// the auth gate is useful without a model; predictions answer 503
		logger.Warn(ctx, "prediction model not loaded", "source", c.ModelSource, "error", err)
	} else {
		app.predictor = predict.NewPredictor(model, logger)
	}

	app.issuer = auth.NewIssuer([]byte(c.SecretKey), c.SessionValidityDuration)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.issuer, app.events)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewServer(app.config.EndpointAddrHTTP, app.logger, app.accounts, app.predictor, app.issuer)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) closeAudit(ctx context.Context) {
	if app.auditDB == nil {
		return
	}
	if err := app.auditDB.Close(); err != nil {
		app.logger.Error(ctx, "closing audit db", "error", err)
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a transport fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.closeAudit(ctx)
	app.logger.Info(ctx, "App stopped")
}
