// Package admin implements the profilectl maintenance commands: schema
// migrations and superuser bootstrap.
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/profilely/internal/flagx"
	"github.com/dmitrijs2005/profilely/internal/server/models"
)

// Usage is printed for unknown commands.
const Usage = `usage: profilectl <command> [flags]

commands:
  migrate [up|down]     apply or roll back one schema migration
  createsuperuser       create a verified superuser
      -email, -first-name, -last-name   skip the matching prompt
`

var ErrUsage = errors.New("invalid usage")

var errPasswordMismatch = errors.New("passwords do not match")

type Migrator interface {
	RunMigrations(context.Context, *sql.DB) error
	RollbackMigration(context.Context, *sql.DB) error
}

type SuperuserCreator interface {
	CreateSuperuser(ctx context.Context, in models.AccountInput) (*models.Account, error)
}

type App struct {
	db         *sql.DB
	migrator   Migrator
	superusers SuperuserCreator
	in         *bufio.Reader
	out        io.Writer
}

func NewApp(db *sql.DB, m Migrator, su SuperuserCreator, in io.Reader, out io.Writer) *App {
	return &App{db: db, migrator: m, superusers: su, in: bufio.NewReader(in), out: out}
}

// Run executes one command. args are the arguments after the command name.
func (a *App) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "migrate":
		return a.migrate(ctx, args)
	case "createsuperuser":
		return a.createSuperuser(ctx, args)
	default:
		fmt.Fprint(a.out, Usage)
		return ErrUsage
	}
}

func (a *App) migrate(ctx context.Context, args []string) error {
	direction := "up"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		direction = args[0]
	}

	switch direction {
	case "up":
		if err := a.migrator.RunMigrations(ctx, a.db); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "migrations applied")
	case "down":
		if err := a.migrator.RollbackMigration(ctx, a.db); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "last migration rolled back")
	default:
		fmt.Fprint(a.out, Usage)
		return ErrUsage
	}
	return nil
}

func (a *App) createSuperuser(ctx context.Context, args []string) error {
	var in models.AccountInput

	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.FirstName, "first-name", "", "first name")
	fs.StringVar(&in.LastName, "last-name", "", "last name")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-first-name", "-last-name"})); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Email", &in.Email},
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
	}
	for _, p := range prompts {
		if *p.dst != "" {
			continue
		}
		v, err := GetSimpleText(a.in, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	pw, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}
	again, err := GetPassword("Password (again)", a.out)
	if err != nil {
		return err
	}
	if pw != again {
		return errPasswordMismatch
	}
	in.Password = pw

	acc, err := a.superusers.CreateSuperuser(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "superuser %s created (id=%d)\n", acc.Email, acc.ID)
	return nil
}
