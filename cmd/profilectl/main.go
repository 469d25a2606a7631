// Command profilectl runs maintenance tasks against the profilely database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/profilely/internal/admin"
	"github.com/dmitrijs2005/profilely/internal/cryptox"
	"github.com/dmitrijs2005/profilely/internal/dbx"
	"github.com/dmitrijs2005/profilely/internal/logging"
	"github.com/dmitrijs2005/profilely/internal/server/auth"
	"github.com/dmitrijs2005/profilely/internal/server/config"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profilely/internal/server/services"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, admin.Usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	if err := run(context.Background(), command, args); err != nil {
		if errors.Is(err, admin.ErrUsage) {
			os.Exit(2)
		}
		log.Fatalf("%s: %v", command, err)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogBackend, cfg.LogFormat, cfg.LogLevel)

	db, err := dbx.OpenPostgres(ctx, cfg.DatabaseDSN, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	hasher, err := cryptox.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokens([]byte(cfg.SecretKey), cfg.SigningAlgorithm, cfg.AccessTokenValidityDuration)
	if err != nil {
		return err
	}

	// superusers are created verified, so nothing is ever mailed from here
	notifier := notify.NewDispatcher(nil, notify.NewLogSender(logger), logger, 1, 1)
	defer notifier.Close(ctx)

	rm := repomanager.NewPostgresRepositoryManager()
	accounts := services.NewAccountService(db, rm, hasher, tokens, notifier, cfg.PublicBaseURL, logger)

	return admin.NewApp(db, rm, accounts, os.Stdin, os.Stdout).Run(ctx, command, args)
}
