package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"unseen/internal/client/authclient"
	"unseen/internal/client/cli"
	clientconfig "unseen/internal/client/config"
	"unseen/internal/client/credential"
	"unseen/internal/client/session"
	platformhttp "unseen/internal/platform/http"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			var authErr *authclient.Error
			if !errors.As(err, &authErr) {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := clientconfig.Load()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := credential.NewFileStore(cfg.CredentialsDir, credential.WithPassphrase(cfg.KeyringPassphrase))
	if err != nil {
		return err
	}
	client := authclient.New(cfg.APIURL, authclient.WithHTTPClient(platformhttp.NewHTTPClient(cfg.HTTPTimeout)))

	ctrl, err := session.Open(ctx, store, client, session.WithLogger(logger))
	if err != nil {
		return err
	}
	return cli.NewApp(ctrl, os.Stdin, os.Stdout).Run(ctx, os.Args[1:])
}
