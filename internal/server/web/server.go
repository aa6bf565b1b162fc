// Package web serves the browser-facing JSON API: session login, signup,
// profile self-service, the admin dashboard operations and predictions.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/server/auth"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/policy"
	"github.com/dmitrijs2005/salarygate/internal/server/predict"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

// Accounts is the part of services.AccountService the web API uses.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) services.Result
	CreateAccount(ctx context.Context, username, password, email string, role credentials.Role) services.Result
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) services.Result
	ResetPassword(ctx context.Context, username, newPassword string) services.Result
	UpdateUserInfo(ctx context.Context, username string, email *string, role *credentials.Role) services.Result
	DeleteUser(ctx context.Context, username string) services.Result
	GetUserInfo(username string) *services.UserInfo
	ListUsers() []services.UserInfo
	Lockout() policy.Lockout
}

// Predictor is the prediction surface.
type Predictor interface {
	Estimate(ctx context.Context, in predict.Input) (predict.Breakdown, error)
	Options() predict.Options
	Ready() bool
}

type Server struct {
	address   string
	router    *gin.Engine
	accounts  Accounts
	predictor Predictor
	issuer    *auth.Issuer
	logger    logging.Logger
	// secureCookie marks the session cookie Secure; off for plain-HTTP dev.
	secureCookie bool
}

type Option func(*Server)

// WithSecureCookie sets the Secure attribute on the session cookie.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secureCookie = secure }
}

func NewServer(address string, l logging.Logger, accounts Accounts, predictor Predictor, issuer *auth.Issuer, opts ...Option) *Server {
	s := &Server{
		address:   address,
		router:    gin.New(),
		accounts:  accounts,
		predictor: predictor,
		issuer:    issuer,
		logger:    l.With("module", "web_server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(gin.Recovery(), s.requestLogger(), cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/auth/login", s.login)
		v1.POST("/auth/logout", s.logout)
		v1.POST("/auth/signup", s.signup)
		v1.POST("/password/validate", s.validatePassword)
		v1.GET("/help", s.help)

		protected := v1.Group("/")
		protected.Use(s.RequireAuth())
		{
			protected.GET("/me", s.me)
			protected.PUT("/me/email", s.updateEmail)
			protected.POST("/me/password", s.changePassword)

			protected.GET("/predict/options", s.predictOptions)
			protected.POST("/predict", s.predict)

			admin := protected.Group("/admin")
			admin.Use(s.RequireRole(credentials.RoleAdmin))
			{
				admin.GET("/users", s.listUsers)
				admin.POST("/users", s.createUser)
				admin.GET("/users/:username", s.getUser)
				admin.POST("/users/:username/reset", s.resetPassword)
				admin.PUT("/users/:username/role", s.updateRole)
				admin.DELETE("/users/:username", s.deleteUser)
			}
		}
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      "salarygate",
		"model_loaded": s.predictor.Ready(),
	})
}
