package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-listing-creator/internal/api/middleware"
	"github.com/donaldgifford/ebay-listing-creator/internal/callback"
	"github.com/donaldgifford/ebay-listing-creator/internal/config"
	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
	"github.com/donaldgifford/ebay-listing-creator/pkg/logger"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and OAuth callback listener",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := session.Open(ctx, cfg.Session.StoreConfig())
	cancel()
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("closing session store", "error", err)
		}
	}()
	log.Info("session store ready", "backend", store.Name())

	rl := ebay.NewRateLimiter(
		cfg.Ebay.RateLimit.PerSecond,
		cfg.Ebay.RateLimit.Burst,
		cfg.Ebay.RateLimit.DailyLimit,
	)

	writer, err := newCopywriter(&cfg.LLM, log)
	if err != nil {
		return err
	}
	log.Info("copywriter ready", "backend", writer.Backend())

	ctrl, err := newController(cfg, store, rl, writer, log)
	if err != nil {
		return err
	}

	janitor, err := listing.NewJanitor(ctrl.Sessions(), cfg.Session.JanitorInterval, log)
	if err != nil {
		return fmt.Errorf("creating session janitor: %w", err)
	}
	janitor.Start()

	e := newAPIServer(ctrl, rl, log)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	cb := callback.New(ctrl,
		callback.WithUIURL(cfg.Callback.UIURL),
		callback.WithLogger(log),
		callback.WithMiddleware(middleware.Recovery(log), middleware.RequestLog(log)),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	err = runListeners(quit, log,
		listener{name: "server", addr: cfg.Server.Addr(), start: e.Start, shutdown: e.Shutdown},
		listener{name: "callback listener", addr: cfg.Callback.Addr(), start: cb.Start, shutdown: cb.Shutdown},
	)
	<-janitor.Stop().Done()
	if err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

// listener is one network server run by serve.
type listener struct {
	name     string
	addr     string
	start    func(addr string) error
	shutdown func(context.Context) error
}

// runListeners starts every listener and blocks until quit fires or one of
// them fails. All listeners are then shut down in reverse order. A failed
// listener's error is returned so the process exits non-zero.
func runListeners(quit <-chan os.Signal, log *slog.Logger, ls ...listener) error {
	errCh := make(chan error, len(ls))
	for _, l := range ls {
		log.Info("starting "+l.name, "addr", l.addr)
		go func() {
			if err := l.start(l.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s on %s: %w", l.name, l.addr, err)
			}
		}()
	}

	var runErr error
	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	case runErr = <-errCh:
		log.Error("listener failed, shutting down", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(ls) - 1; i >= 0; i-- {
		if err := ls[i].shutdown(ctx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("shutting down %s: %w", ls[i].name, err))
		}
	}
	return runErr
}
