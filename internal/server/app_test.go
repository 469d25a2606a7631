package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/profilely/internal/logging"
	"github.com/dmitrijs2005/profilely/internal/server/config"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/repositories/repomanager"
)

func TestNewSender(t *testing.T) {
	m := config.MailConfig{Host: "smtp.example", Port: 25}

	_, ok := newSender(m, logging.NewNop()).(*notify.LogSender)
	assert.True(t, ok, "disabled mail goes to the log")

	m.Enabled = true
	_, ok = newSender(m, logging.NewNop()).(*notify.SMTPSender)
	assert.True(t, ok)
}

func TestNewLogger_FollowsConfiguredBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, ok := newLogger(&bytes.Buffer{}, cfg).(*logging.SlogLogger)
	assert.True(t, ok, "slog by default")

	var buf bytes.Buffer
	cfg.LogBackend = logging.BackendLogrus
	cfg.LogFormat = "json"
	l := newLogger(&buf, cfg)
	_, ok = l.(*logging.LogrusLogger)
	require.True(t, ok)
	l.Info(context.Background(), "started")
	assert.Contains(t, buf.String(), `"msg":"started"`)
}

func TestNewApp_WiresComponents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PasswordHasher = config.HasherBcrypt

	app, err := newApp(cfg, logging.NewNop(), db, repomanager.NewPostgresRepositoryManager())
	require.NoError(t, err)
	assert.NotNil(t, app.httpServer)
	assert.NotNil(t, app.dispatcher)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_RejectsBadSettings(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PasswordHasher = "md5"

	_, err = newApp(cfg, logging.NewNop(), db, repomanager.NewPostgresRepositoryManager())
	assert.Error(t, err)

	cfg.LoadDefaults()
	cfg.SigningAlgorithm = "RS256"
	_, err = newApp(cfg, logging.NewNop(), db, repomanager.NewPostgresRepositoryManager())
	assert.Error(t, err)
}
