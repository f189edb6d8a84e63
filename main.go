package main

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

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"nostr-search/internal/config"
	"nostr-search/internal/paging"
	"nostr-search/internal/relay"
	"nostr-search/internal/search"
)

const shutdownTimeout = 10 * time.Second

var globalFlags = []cli.Flag{
	&cli.IntFlag{
		Name:    "port",
		Usage:   "HTTP listen port",
		Value:   8080,
		EnvVars: []string{"PORT"},
	},
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		Value:   "info",
		EnvVars: []string{"LOG_LEVEL"},
	},
	&cli.StringFlag{
		Name:    "relays-config",
		Usage:   "JSON file with directory, follow, backup and search relay sets",
		Value:   config.DefaultRelaysPath,
		EnvVars: []string{"RELAYS_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "redis-url",
		Usage:   "Redis URL for the shared directory store (memory when empty)",
		EnvVars: []string{"REDIS_URL"},
	},
	&cli.DurationFlag{
		Name:    "query-timeout",
		Usage:   "upper bound for one relay fan-out",
		Value:   relay.DefaultTimeout,
		EnvVars: []string{"QUERY_TIMEOUT"},
	},
	&cli.IntFlag{
		Name:    "chunk-size",
		Usage:   "maximum authors or ids per relay query",
		Value:   search.DefaultChunkSize,
		EnvVars: []string{"CHUNK_SIZE"},
	},
	&cli.IntFlag{
		Name:    "page-step",
		Usage:   "results revealed per page",
		Value:   paging.DefaultStep,
		EnvVars: []string{"PAGE_STEP"},
	},
}

func main() {
	app := &cli.App{
		Name:  "nostr-search",
		Usage: "search notes across Nostr relays by identity, follows or reactions",
		Flags: globalFlags,
		Commands: []*cli.Command{
			serveCommand,
			searchCommand,
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads flags (and their environment variables) into a validated Config
func loadConfig(c *cli.Context, logger *slog.Logger) (*config.Config, error) {
	cfg := &config.Config{
		Port:         c.Int("port"),
		LogLevel:     c.String("log-level"),
		RelaysPath:   c.String("relays-config"),
		RedisURL:     c.String("redis-url"),
		QueryTimeout: c.Duration("query-timeout"),
		ChunkSize:    c.Int("chunk-size"),
		PageStep:     c.Int("page-step"),
	}
	cfg.Relays = config.LoadRelays(cfg.RelaysPath, logger)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "run the search web UI and JSON API",
	Action: func(c *cli.Context) error {
		logger := newLogger(os.Stdout, c.String("log-level"))
		cfg, err := loadConfig(c, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a := newApp(ctx, cfg, logger)
		defer a.Close()

		srv := newServer(a)
		httpServer := &http.Server{
			Addr:              cfg.Address(),
			Handler:           srv.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			srv.sessions.run(gctx, time.Minute)
			return nil
		})
		g.Go(func() error {
			logger.Info("starting HTTP server", "address", cfg.Address(), "store", a.storeBackend)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}
