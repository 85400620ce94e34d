// Command ledgerctl runs ledger maintenance tasks outside the HTTP server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

var sqliteDSN = flag.String("sqlite", "", "Use a SQLite database at this DSN and an embedded Redis instead of the configured servers.")

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "")
	commander.Register(&verifyCmd{}, "")
	commander.Register(&importCmd{}, "")
	commander.Register(&forecastCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
