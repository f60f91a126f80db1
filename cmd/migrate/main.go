package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	appmigrations "github.com/wolfman30/jaideeclear-quotes/migrations"
)

const usage = `usage: migrate [--database-url URL] [up | down [N] | force VERSION | version]

Applies the embedded quote_requests schema. DATABASE_URL is used when
--database-url is not given.
`

// command is a parsed migrate invocation.
type command struct {
	databaseURL string
	action      string
	arg         int
}

func main() {
	cmd, err := parseArgs(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cmd, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseArgs(args []string, getenv func(string) string, stderr io.Writer) (command, error) {
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() { fmt.Fprint(stderr, usage) }

	var cmd command
	flagSet.StringVar(&cmd.databaseURL, "database-url", "", "Postgres connection URL")
	if err := flagSet.Parse(args); err != nil {
		return command{}, err
	}

	if cmd.databaseURL == "" {
		cmd.databaseURL = strings.TrimSpace(getenv("DATABASE_URL"))
	}
	if cmd.databaseURL == "" {
		return command{}, errors.New("migrate: DATABASE_URL is required")
	}

	rest := flagSet.Args()
	cmd.action = "up"
	if len(rest) > 0 {
		cmd.action = rest[0]
	}

	switch cmd.action {
	case "up", "version":
		if len(rest) > 1 {
			return command{}, fmt.Errorf("migrate: %s takes no arguments", cmd.action)
		}
	case "down":
		cmd.arg = 1
		if len(rest) > 1 {
			n, err := strconv.Atoi(rest[1])
			if err != nil || n < 1 {
				return command{}, fmt.Errorf("migrate: invalid step count %q", rest[1])
			}
			cmd.arg = n
		}
	case "force":
		if len(rest) != 2 {
			return command{}, errors.New("migrate: force requires a version")
		}
		version, err := strconv.Atoi(rest[1])
		if err != nil {
			return command{}, fmt.Errorf("migrate: invalid version: %w", err)
		}
		cmd.arg = version
	default:
		return command{}, fmt.Errorf("migrate: unknown command %q", cmd.action)
	}
	return cmd, nil
}

func run(cmd command, stdout io.Writer) error {
	db, err := sql.Open("postgres", cmd.databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("db driver: %w", err)
	}

	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		return fmt.Errorf("source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch cmd.action {
	case "force":
		if err := m.Force(cmd.arg); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		fmt.Fprintf(stdout, "forced version to %d\n", cmd.arg)
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(stdout, "no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Fprintf(stdout, "version %d (dirty=%t)\n", version, dirty)
		return nil
	case "down":
		if err := m.Steps(-cmd.arg); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate down: %w", err)
		}
	default:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
	}

	fmt.Fprintln(stdout, "migrations complete")
	return nil
}
