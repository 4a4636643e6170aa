package main

import (
	"context"
	"log"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/batch"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/cache"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/config"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/database"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/flow"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/handler"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/limiter"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/llm"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/scheduler"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/session"
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/store"
	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, logger.Info)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis backs rate limiting and, optionally, favorites. Without it the
	// limiter is off and favorites fall back to postgres.
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
	}

	text, images, closeLLM, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	flows := flow.New(text, images)

	expansions := store.NewExpansions(db)

	var favorites store.FavoriteStore = store.NewGormFavorites(db)
	if cfg.FavoritesBackend == "redis" {
		if redisCache != nil {
			favorites = store.NewRedisFavorites(redisCache)
			log.Println("Favorites stored in Redis")
		} else {
			log.Println("Warning: FAVORITES_BACKEND=redis but Redis is unavailable, using postgres")
		}
	}

	var rateLimiter *limiter.Limiter
	if cfg.RateLimitEnabled && redisCache != nil {
		rateLimiter = limiter.NewLimiter(redisCache)
	}

	var prefetch *scheduler.PrefetchScheduler
	if cfg.SchedulerEnabled {
		prefetch, err = scheduler.NewPrefetchScheduler(expansions, flows, scheduler.Config{
			WordListPath: cfg.PriorityWordsPath,
			Interval:     cfg.SchedulerInterval,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize scheduler: %v", err)
		} else {
			go prefetch.Start(ctx)
			log.Println("Background prefetch scheduler started")
		}
	}

	r := handler.NewRouter(handler.Dependencies{
		Flows:      flows,
		Expansions: expansions,
		Favorites:  favorites,
		Sessions:   session.NewRegistry(session.DefaultLifetime),
		Runner:     batch.NewRunner(flows, expansions),
		Limiter:    rateLimiter,
		Scheduler:  prefetch,
	})

	log.Printf("API server starting on port %s", cfg.Port)
	err = r.Run(":" + cfg.Port)
	if cerr := closeLLM(); cerr != nil {
		log.Printf("Warning: failed to close LLM client: %v", cerr)
	}
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
