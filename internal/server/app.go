// Package server wires the configured components together and runs the
// HTTP API until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/profilely/internal/cryptox"
	"github.com/dmitrijs2005/profilely/internal/dbx"
	"github.com/dmitrijs2005/profilely/internal/logging"
	"github.com/dmitrijs2005/profilely/internal/server/auth"
	"github.com/dmitrijs2005/profilely/internal/server/config"
	"github.com/dmitrijs2005/profilely/internal/server/httpapi"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profilely/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	dispatcher *notify.Dispatcher
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := newLogger(os.Stdout, c)

	db, err := dbx.OpenPostgres(ctx, c.DatabaseDSN, nil)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app, err := newApp(c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	hasher, err := cryptox.New(c.PasswordHasher, c.BcryptCost)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokens([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	renderer, err := notify.NewRenderer(nil)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(renderer, newSender(c.Mail, logger), logger, c.NotifyWorkers, c.NotifyQueueSize)

	accounts := services.NewAccountService(db, rm, hasher, tokens, dispatcher, c.PublicBaseURL, logger)

	httpServer := httpapi.NewServer(httpapi.Options{
		Address:         c.EndpointAddrHTTP,
		AllowedOrigins:  c.CORSAllowedOrigins,
		ShutdownTimeout: c.ShutdownTimeout,
		AccessLog:       logging.NewLogrus(os.Stdout, c.LogFormat, c.LogLevel),
	}, accounts, renderer, logger)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		dispatcher: dispatcher,
		httpServer: httpServer,
	}, nil
}

// newLogger builds the application logger from the configured backend.
func newLogger(w io.Writer, c *config.Config) logging.Logger {
	return logging.New(w, c.LogBackend, c.LogFormat, c.LogLevel)
}

// newSender picks SMTP delivery or, when mail is disabled, the log.
func newSender(m config.MailConfig, logger logging.Logger) notify.Sender {
	if !m.Enabled {
		return notify.NewLogSender(logger)
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		From:     m.From,
		FromName: m.FromName,
		StartTLS: m.StartTLS,
		SSL:      m.SSL,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or the HTTP server fails, then drains
// pending notifications and closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.dispatcher.Start(context.WithoutCancel(ctx))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.shutdown(context.WithoutCancel(ctx))
}

func (app *App) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, app.config.ShutdownTimeout)
	defer cancel()

	if err := app.dispatcher.Close(ctx); err != nil {
		app.logger.Warn(ctx, "notifications left undelivered", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
