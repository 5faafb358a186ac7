// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jerdnaandrej777/mapab-app/internal/completion"
	"github.com/jerdnaandrej777/mapab-app/internal/gateway"
	"github.com/jerdnaandrej777/mapab-app/internal/hotels"
	"github.com/jerdnaandrej777/mapab-app/internal/quota"
	"github.com/jerdnaandrej777/mapab-app/internal/secrets"
	"github.com/jerdnaandrej777/mapab-app/internal/store"
	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway HTTP server",
	Long: `Serve starts the gateway: AI endpoints under /api/ai governed by
per-client quotas, trip and favorites storage under /api/v1, and /api/health.

Quota counters live in Redis when --redis-url (or the redis-url secret) is
set; without it, or while Redis is unreachable, counting continues on a
per-process fallback.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("redis-url", "", "Redis URL for shared quota counters")
	serveCmd.Flags().Int("limit", 100, "requests allowed per client per window")
	serveCmd.Flags().Int("suggestions-limit", 60, "stricter limit for the suggestions endpoint")
	serveCmd.Flags().Int("hotels-limit", 300, "looser limit for hotel search")
	serveCmd.Flags().Duration("window", 24*time.Hour, "quota window length")
	serveCmd.Flags().String("model", "gpt-4o-mini", "completion model identifier")
	serveCmd.Flags().Float64("upstream-rps", 0, "pace outbound completion calls (0 disables)")
	serveCmd.Flags().String("db", "data/mapab.db", "SQLite database path (empty disables trip storage)")

	for _, key := range []string{"addr", "redis-url", "limit", "suggestions-limit", "hotels-limit", "window", "model", "upstream-rps", "db"} {
		viper.BindPFlag("serve."+key, serveCmd.Flags().Lookup(key))
	}

	rootCmd.AddCommand(serveCmd)
}

// serveConfig assembles the effective config from flags, environment, config
// file, and the secrets directory, in that order of precedence.
func serveConfig() types.Config {
	cfg := types.Config{
		Server: types.ServerConfig{
			Addr:         viper.GetString("serve.addr"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Quota: types.QuotaConfig{
			RedisURL:         viper.GetString("serve.redis-url"),
			Limit:            viper.GetInt("serve.limit"),
			SuggestionsLimit: viper.GetInt("serve.suggestions-limit"),
			HotelsLimit:      viper.GetInt("serve.hotels-limit"),
			Window:           viper.GetDuration("serve.window"),
		},
		AI: types.AIConfig{
			Model:       viper.GetString("serve.model"),
			APIKey:      viper.GetString("openai-api-key"),
			UpstreamRPS: viper.GetFloat64("serve.upstream-rps"),
		},
		Hotels: types.HotelsConfig{
			APIKey:             viper.GetString("google-places-api-key"),
			BookingAffiliateID: viper.GetString("booking-affiliate-id"),
		},
		Storage: types.StorageConfig{
			Path: viper.GetString("serve.db"),
		},
	}
	secrets.Overlay(&cfg, loadedSecrets)
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	gateway.Version = version
	cfg := serveConfig()

	if cfg.AI.APIKey == "" {
		return fmt.Errorf("no completion API key: set MAPAB_OPENAI_API_KEY or .secrets/%s", secrets.KeyOpenAIAPIKey)
	}

	var shared quota.CounterStore
	if cfg.Quota.RedisURL != "" {
		rs, err := quota.NewRedisStoreURL(cfg.Quota.RedisURL)
		if err != nil {
			return fmt.Errorf("configuring redis counter store: %w", err)
		}
		defer rs.Close()
		if err := rs.Ping(cmd.Context()); err != nil {
			logger.Warn("redis unreachable at startup, counting locally until it recovers", "error", err)
		}
		shared = rs
	} else {
		logger.Info("no redis configured, quota counters are per-process")
	}
	governor := quota.NewGovernor(shared, logger)

	var st *store.Store
	if cfg.Storage.Path != "" {
		var err error
		st, err = store.Open(cfg.Storage)
		if err != nil {
			return fmt.Errorf("opening trip storage: %w", err)
		}
		defer st.Close()
	}

	var hotelClient *hotels.Client
	if cfg.Hotels.APIKey != "" {
		hotelClient = hotels.NewClient(cfg.Hotels)
	} else {
		logger.Info("no places api key configured, hotel search disabled")
	}

	srv := gateway.NewServer(cfg, governor, completion.NewOpenAIClient(cfg.AI), hotelClient, st, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", cfg.Server.Addr, "model", cfg.AI.Model)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
