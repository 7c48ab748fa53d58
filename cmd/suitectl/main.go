// Command suitectl is a terminal client of the MarketAI Suite backend.
// It keeps the login session in memory, a JSON file or PostgreSQL and
// exposes the authenticated API call used by the browser pages.
//
// Usage:
//
//	suitectl [-b base-url] [-f session.json | -d dsn] [-l level] command [args]
//
// Commands: register, login, logout, whoami, call, token and check.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/patric-chuzhbe/suiteclient/internal/app"
	"github.com/patric-chuzhbe/suiteclient/internal/config"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	theApp, err := app.New(app.WithConfigOptions(config.WithArgs(args)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	defer func() {
		if err := theApp.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close error:", err)
		}
	}()

	err = theApp.Run(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, app.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	return exitError
}
