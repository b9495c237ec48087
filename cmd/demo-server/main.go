// demo-server serves the in-memory demo backend over HTTP so the console's
// live client can be pointed at something local:
//
//	demo-server --addr :9090
//	invitedesk --host http://localhost:9090/
//
// DID documents are served under /directory; set INVITEDESK_DIRECTORY_URL to
// http://localhost:9090/directory to resolve handles against it.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"invitedesk/internal/demo"
	"invitedesk/internal/demo/handler"
	"invitedesk/internal/platform/config"
	"invitedesk/internal/platform/logger"
	"invitedesk/internal/platform/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.DemoServerFromEnv()
	if err != nil {
		return err
	}

	var logOTPCodes bool
	flagSet := pflag.NewFlagSet("demo-server", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flagSet.DurationVar(&cfg.Latency, "latency", cfg.Latency, "delay added to every API response")
	flagSet.BoolVar(&cfg.EnrollOTP, "require-otp", cfg.EnrollOTP, "make admins enrol in two-factor authentication on login")
	flagSet.BoolVar(&logOTPCodes, "log-otp-codes", true, "log the current OTP code whenever a login needs one")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log := logger.NewWithLevel(os.Stdout, cfg.LogLevel)
	log.Info("initializing demo server",
		"addr", cfg.Addr,
		"latency", cfg.Latency.String(),
		"require_otp", cfg.EnrollOTP,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWith(reg)

	backend, err := demo.New(demo.Config{
		SigningKey:    cfg.SigningKey,
		SessionTTL:    cfg.TokenTTL,
		ChallengeTTL:  cfg.ChallengeTTL,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		RequireOTP:    cfg.EnrollOTP,
		Logger:        log,
		Metrics:       m,
	})
	if err != nil {
		return fmt.Errorf("start demo backend: %w", err)
	}

	router := handler.NewRouter(handler.New(backend, log, logOTPCodes), handler.RouterOptions{
		Logger:   log,
		Latency:  m,
		Gatherer: reg,
		Delay:    cfg.Latency,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
