package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ringstats-backend/config"
	"ringstats-backend/controllers"
	"ringstats-backend/database"
	"ringstats-backend/favorites"
	"ringstats-backend/logger"
	"ringstats-backend/mail"
	"ringstats-backend/middleware"
	"ringstats-backend/models"
	"ringstats-backend/news"
	"ringstats-backend/routes"
	"ringstats-backend/users"
	"ringstats-backend/wrestlers"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	var wrestlerRepo wrestlers.Repository
	switch cfg.Datastore {
	case "file":
		repo, err := wrestlers.OpenFileRepository(cfg.WrestlersFile)
		if err != nil {
			logger.Log.Fatalf("Failed to load wrestlers file: %v", err)
		}
		wrestlerRepo = repo
		logger.Log.WithField("file", cfg.WrestlersFile).Info("Serving wrestlers from file")
	default:
		db, err = database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			logger.Log.Fatalf("Failed to migrate database: %v", err)
		}
		wrestlerRepo = wrestlers.NewPostgresRepository(db)
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EditorEmail)
	}

	var userRepo users.Repository = users.NewMemoryRepository()
	if db != nil {
		userRepo = users.NewPostgresRepository(db)
	}

	registry, closeFavorites, err := favoritesRegistry(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to open favorites storage: %v", err)
	}
	defer closeFavorites()

	app := fiber.New(fiber.Config{
		AppName:      "RingStats API",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	api := app.Group("/api")

	routes.WrestlerRoutes(api,
		controllers.NewWrestlerController(wrestlerRepo),
		controllers.NewStatsController(wrestlerRepo, cfg.StatsCacheTTL),
		controllers.NewHealthController(cfg.Environment),
	)
	routes.AuthRoutes(api, controllers.NewAuthController(userRepo, mailer, controllers.AuthConfig{
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
		Production:  cfg.IsProduction(),
	}), requireAuth)
	routes.FavoritesRoutes(api, controllers.NewFavoritesController(registry, wrestlerRepo), requireAuth)

	if db != nil {
		newsRepo := news.NewPostgresRepository(db, news.Scorer(cfg.Credibility))
		seedSources(ctx, newsRepo, cfg.SourcesFile)

		fetcher := news.NewFetcher(news.FetcherOptions{
			Timeout:       20 * time.Second,
			HostInterval:  time.Second,
			RespectRobots: true,
		})
		ingester := news.NewIngester(newsRepo, fetcher, news.NewThumbnailFinder(fetcher, 2048))

		routes.NewsRoutes(api, controllers.NewNewsController(newsRepo), controllers.NewTipsController(userRepo, mailer), requireAuth)
		routes.AdminRoutes(api, controllers.NewAdminController(newsRepo, ingester), requireAuth)

		go news.StartPolling(ctx, ingester, cfg.IngestInterval)
	} else {
		logger.Log.Warn("News routes disabled: they need the postgres datastore")
	}

	app.Use(middleware.NotFound)

	go func() {
		<-ctx.Done()
		logger.Log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.Log.WithField("port", cfg.Port).WithField("environment", cfg.Environment).Info("Server running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatalf("Server stopped: %v", err)
	}
}

// favoritesRegistry picks favorites storage: Redis, then SQLite, then memory.
func favoritesRegistry(cfg *config.Config) (*favorites.Registry, func(), error) {
	switch {
	case cfg.RedisURL != "":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		logger.Log.Info("Favorites stored in redis")
		return favorites.NewRegistry(func(key string) favorites.Persistence {
			return favorites.RedisPersistence{Client: client, Key: key}
		}), func() { client.Close() }, nil
	case cfg.FavoritesDB != "":
		sqlite, err := favorites.OpenSQLite(cfg.FavoritesDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Log.WithField("path", cfg.FavoritesDB).Info("Favorites stored in sqlite")
		return favorites.NewRegistry(func(key string) favorites.Persistence {
			return sqlite.Port(key)
		}), func() { sqlite.Close() }, nil
	default:
		logger.Log.Warn("Favorites kept in memory; set REDIS_URL or FAVORITES_DB to persist them")
		return favorites.NewRegistry(func(string) favorites.Persistence {
			return &favorites.MemoryPersistence{}
		}), func() {}, nil
	}
}

func seedSources(ctx context.Context, store news.SourceStore, path string) {
	seeds, err := config.LoadSources(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Log.WithField("path", path).Warn("No sources file, skipping seed")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read sources file")
		return
	}
	sources := make([]models.Source, len(seeds))
	for i, s := range seeds {
		sources[i] = models.Source{Name: s.Name, RSSURL: s.RSSURL, BaseURL: s.BaseURL, SourceScore: s.SourceScore}
	}
	added, err := store.SeedSources(ctx, sources)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to seed sources")
		return
	}
	logger.Log.WithField("added", added).Info("Seeded news sources")
}
