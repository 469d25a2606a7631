// Package httpapi exposes the account service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dmitrijs2005/profilely/internal/logging"
	"github.com/dmitrijs2005/profilely/internal/server/models"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/services"
)

// Accounts is the part of services.AccountService the handlers use.
type Accounts interface {
	Register(ctx context.Context, in models.AccountInput) error
	VerifyAccount(ctx context.Context, identity, integrity string) error
	Login(ctx context.Context, email, password string) (*services.Token, error)
	ResolveBearer(ctx context.Context, token string) (*models.Account, error)
	GetCurrentUser(ctx context.Context, email string) (models.AccountView, error)
	ListUsers(ctx context.Context, excludeID int64, requesterIsSuper bool) ([]models.AccountView, error)
	GetUser(ctx context.Context, id int64, requesterIsSuper bool) (models.AccountView, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyAndResetPassword(ctx context.Context, identity, integrity, newPassword string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) error
	DeleteAccount(ctx context.Context, targetID int64, requesterHasPermission bool) error
}

var _ Accounts = (*services.AccountService)(nil)

type Options struct {
	Address         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog *logrus.Logger
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	accounts        Accounts
	pages           *notify.Renderer
	logger          logging.Logger
	handler         http.Handler
}

func NewServer(opts Options, accounts Accounts, pages *notify.Renderer, l logging.Logger) *Server {
	s := &Server{
		address:         opts.Address,
		shutdownTimeout: opts.ShutdownTimeout,
		accounts:        accounts,
		pages:           pages,
		logger:          l.With("module", "http_server"),
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}
	s.handler = s.routes(opts)
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
