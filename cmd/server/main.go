package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movie-companion-service/internal/chatbot"
	"movie-companion-service/internal/config"
	"movie-companion-service/internal/database"
	"movie-companion-service/internal/handler"
	"movie-companion-service/internal/middleware"
	"movie-companion-service/internal/omdb"
	"movie-companion-service/internal/service"
	"movie-companion-service/internal/store"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (non-fatal if unavailable; caching degrades, and the
	// redis storage backend falls back to memory)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	}

	// Pick the favorites storage backend
	var kv store.KV
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		kv = store.NewPostgresKV(db)
	case config.StorageRedis:
		if rdb == nil {
			slog.Warn("redis storage backend requested but Redis is down, favorites will not persist")
			kv = store.NewMemoryKV()
		} else {
			kv = store.NewRedisKV(rdb)
		}
	default:
		kv = store.NewMemoryKV()
	}

	// Initialize layers
	favorites := store.NewFavorites(context.Background(), kv)
	omdbClient := omdb.NewClient(cfg.OMDB.APIKey, cfg.OMDB.BaseURL)
	chatClient := chatbot.NewClient(cfg.Chatbot.URL)
	svc := service.NewMovieService(omdbClient, chatClient, favorites, rdb)
	h := handler.NewMovieHandler(svc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Companion Service",
		ServerHeader: "Movie-Companion-Service",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", h.Health)

	// Routes below can trigger outbound metadata calls, so they sit behind
	// the upstream guard when Redis is around to back it.
	if rdb != nil && cfg.RateLimitMax > 0 {
		guard := middleware.NewUpstreamGuard(rdb, cfg.RateLimitMax,
			time.Duration(cfg.RateLimitWindowSec)*time.Second)
		api.Use(guard.Handler())
	}
	api.Get("/search", h.Search)
	api.Get("/movies/:imdbID", h.GetDetail)
	api.Get("/favorites", h.ListFavorites)
	api.Post("/favorites", h.AddFavorite)
	api.Delete("/favorites/:imdbID", h.RemoveFavorite)
	api.Get("/recommendations", h.ListRecommendations)
	api.Post("/chat", h.Chat)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie companion service...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movie companion service", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
