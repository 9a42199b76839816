// Command migrate applies and authors the SQL migrations under migrations/.
//
//	migrate [-path dir] [-log-level info] <command> [args]
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/foodorder/backend/internal/infrastructure/config"
	"github.com/foodorder/backend/internal/infrastructure/logger"
	"github.com/foodorder/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

type command struct {
	usage   string
	summary string
	// offline commands only touch the migrations directory
	offline bool
	run     func(env *commandEnv, args []string) error
}

type commandEnv struct {
	log      *zap.Logger
	dir      string
	migrator *migration.Migrator
}

var commands = map[string]command{
	"up": {usage: "up", summary: "Apply all pending migrations", run: func(env *commandEnv, _ []string) error {
		return env.migrator.Up()
	}},
	"down": {usage: "down", summary: "Roll back every migration", run: func(env *commandEnv, _ []string) error {
		return env.migrator.Down()
	}},
	"step": {usage: "step <n>", summary: "Apply n migrations, or roll back when n is negative", run: func(env *commandEnv, args []string) error {
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return env.migrator.Steps(n)
	}},
	"goto": {usage: "goto <version>", summary: "Migrate up or down to version", run: func(env *commandEnv, args []string) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative: %w", errUsage)
		}
		return env.migrator.GoTo(uint(v))
	}},
	"version": {usage: "version", summary: "Show the applied version", run: func(env *commandEnv, _ []string) error {
		v, dirty, err := env.migrator.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			env.log.Info("No migrations applied")
			return nil
		}
		env.log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"force": {usage: "force <version>", summary: "Record version as applied without running it", run: func(env *commandEnv, args []string) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		env.log.Warn("Forcing migration version", zap.Int("version", v))
		return env.migrator.Force(v)
	}},
	"create": {usage: "create <name> [description]", summary: "Write the next numbered up/down pair", offline: true, run: func(env *commandEnv, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("migration name required: %w", errUsage)
		}
		mf, err := migration.CreateMigration(env.dir, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		env.log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath))
		return nil
	}},
	"list": {usage: "list", summary: "List migration files", offline: true, run: func(env *commandEnv, _ []string) error {
		names, err := migration.ListMigrations(env.dir)
		if err != nil {
			return err
		}
		env.log.Info("Migrations", zap.Int("count", len(names)))
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return nil
	}},
}

func main() {
	dir := flag.String("path", "", "Migrations directory (default: ./migrations, then next to the binary)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(log, cmd, args[0], resolveDir(*dir), args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\nusage: migrate %s\n", err, cmd.usage)
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(log *zap.Logger, cmd command, name, dir string, args []string) error {
	log.Info("Running migration command", zap.String("command", name), zap.String("path", dir))
	env := &commandEnv{log: log, dir: dir}
	if cmd.offline {
		return cmd.run(env, args)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, driver, err := openDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, driver, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()
	env.migrator = m
	return cmd.run(env, args)
}

// resolveDir prefers an explicit path, then ./migrations, then the
// repository layout next to a built binary in bin/<name>.
func resolveDir(dir string) string {
	if dir == "" {
		dir = "migrations"
		if _, err := os.Stat(dir); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "migrations")
				if _, err := os.Stat(candidate); err == nil {
					dir = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required: %w", what, errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, args[0], errUsage)
	}
	return n, nil
}

func openDatabase(cfg *config.DatabaseConfig) (*sql.DB, string, error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sql.Open("sqlite3", cfg.Path)
		return db, migration.DriverSQLite, err
	}
	db, err := sql.Open("postgres", cfg.DSN())
	return db, migration.DriverPostgres, err
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Food ordering database migrations\n\nUsage:\n  migrate [flags] <command> [args]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-30s %s\n", commands[name].usage, commands[name].summary)
	}
	b.WriteString("\nFlags:\n")
	fmt.Fprint(os.Stderr, b.String())
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, "\nThe database comes from FOOD_DATABASE_* variables or a .env file.\n")
}
