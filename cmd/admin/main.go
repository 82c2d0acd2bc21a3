// Command admin is the operator console of the eco-delivery shop: dashboard figures,
// order search and the driver roster.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ecoRouteClient/internal/app"
	"ecoRouteClient/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		return 2
	}
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Close(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	c := newConsole(rt, os.Stdout)
	if err := c.dispatch(ctx, os.Args[1], os.Args[2:]); err != nil {
		rt.Logger.Debug("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintln(os.Stderr, describe(err))
		return 1
	}
	return 0
}
