// Command photoprune deletes photos older than a given age, removing both
// the stored file and the record.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/photo-host/internal/app"
	"github.com/msomdec/photo-host/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("photoprune", flag.ContinueOnError)
	olderThan := fs.Duration("older-than", 30*24*time.Hour, "delete photos uploaded longer ago than this")
	envFile := fs.String("env", "", "optional env file to read settings from")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		return 1
	}
	defer a.Close()

	n, err := a.Photos.Prune(ctx, *olderThan)
	if err != nil {
		slog.Error("prune failed", "error", err, "deleted", n)
		return 1
	}
	fmt.Fprintf(stdout, "deleted %d photo(s) older than %s\n", n, *olderThan)
	return 0
}
