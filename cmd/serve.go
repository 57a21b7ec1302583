package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundihub/fundihub/internal/ai/gemini"
	"github.com/fundihub/fundihub/internal/cache"
	"github.com/fundihub/fundihub/internal/logger"
	"github.com/fundihub/fundihub/internal/server"
	"github.com/fundihub/fundihub/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fundihub AI HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "address the HTTP API listens on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Database == nil || config.Database.DSN == "" {
		zlog.Fatal("database.dsn is required to serve the API")
	}

	zlog.Info("starting fundihub", zap.String("version", version))

	st, err := store.Open(config.Database.DSN)
	if err != nil {
		zlog.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	if err := store.Migrate(ctx, st.DB()); err != nil {
		zlog.Fatal("running migrations", zap.Error(err))
	}

	analysisCache := openCache(ctx, config.Redis, zlog)
	defer analysisCache.Close()

	generator, err := newGenerator(ctx, config.AI, zlog)
	if err != nil {
		zlog.Fatal("building the gemini generator", zap.Error(err))
	}

	handler := &server.Handler{
		Store:    st,
		Cache:    analysisCache,
		Analyzer: gemini.NewAnalyzer(generator, zlog, maxLogLength(config.AI)),
		Leads:    gemini.NewRecommender(generator, zlog, maxLogLength(config.AI)),
		Logger:   zlog,
	}
	if config.Server != nil {
		handler.OpenJobsLimit = config.Server.OpenJobsLimit
	}

	listen := viper.GetString("server.listen")
	srv := server.New(handler, listen)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	zlog.Info("serving the fundihub API", zap.String("listen", listen))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("shutting down", zap.String("reason", "signal received"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("graceful shutdown failed", zap.Error(err))
		}
	}
}

// openCache connects the optional Redis result cache. Serving continues
// without one: a nil cache always misses.
func openCache(ctx context.Context, cfg *RedisConfig, zlog *zap.Logger) *cache.Cache {
	if cfg == nil || cfg.URL == "" {
		zlog.Info("analysis cache disabled", zap.String("reason", "redis.url is not configured"))
		return nil
	}

	c, err := cache.New(cfg.URL, time.Duration(cfg.TTLMinutes)*time.Minute)
	if err != nil {
		zlog.Warn("analysis cache disabled", zap.Error(err))
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		zlog.Warn("analysis cache disabled", zap.Error(err))
		c.Close()
		return nil
	}

	return c
}
