package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"signparty-service/internal/app"
	"signparty-service/internal/catalog"
	"signparty-service/internal/config"
	"signparty-service/internal/infra/assets"
	"signparty-service/internal/infra/file"
	"signparty-service/internal/infra/memory"
	pgloader "signparty-service/internal/infra/postgres"
	redisinfra "signparty-service/internal/infra/redis"
	transport "signparty-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the party game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	if cfg.Assets.VideoDir != "" {
		resolver := assets.NewResolver(cfg.Assets.VideoDir, cfg.Assets.CacheDir, log)
		if err := resolver.Initialize(); err != nil {
			log.WithError(err).Warn("video cache unavailable, serving without local clips")
		}
	}

	catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if pool != nil && redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, pgloader.NewCatalogLoader(pool), catalogTTL)
	} else if pool != nil {
		catalogs = memory.NewCatalogRepository(pgloader.NewCatalogLoader(pool), catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(memory.NewStaticCatalogLoader(catalog.Builtin()), catalogTTL)
	}

	var progressStore app.ProgressStore
	if redisClient != nil {
		user := cfg.Progress.User
		if user == "" {
			user = "default"
		}
		progressStore = redisinfra.NewProgressStore(redisClient, user)
	} else {
		path := cfg.Progress.Path
		if path == "" {
			path = "data/progress.json"
		}
		progressStore = file.NewProgressStore(path)
	}
	progress := app.NewProgressService(ctx, progressStore, log)

	advanceDelay := config.Duration(cfg.Game.AdvanceDelay, 2500*time.Millisecond)
	service := app.NewGameService(memory.NewSessionStore(), catalogs, progress, advanceDelay, log)
	wsHandler := transport.NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting signparty service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
