// cmd/careerlens/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerlens/internal/app"
	"careerlens/internal/common/config"
	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
)

func main() {
	profile := flag.String("profile", "default", "session profile, when sessions are kept in Redis")
	configPath := flag.String("config", "", "config file (default: configs/config.yaml)")
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	if flag.NArg() == 0 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, app.Options{Profile: *profile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	c := &cli{app: a, out: os.Stdout, in: os.Stdin}
	code := 0
	if err := c.run(ctx, flag.Args()); err != nil {
		report(os.Stderr, err)
		code = 1
	}

	// Let background writes finish even after an interrupt.
	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		log.Warn("shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	os.Exit(code)
}

func report(w io.Writer, err error) {
	switch {
	case errors.Is(err, errors.ErrCodeNotAuthenticated):
		fmt.Fprintln(w, "not signed in; run `careerlens login` first")
	case errors.IsRetryable(err):
		fmt.Fprintf(w, "error: %v\nthis looks temporary; try again shortly\n", err)
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}
