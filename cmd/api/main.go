package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/chefbot-v2/backend/config"
	"github.com/pageza/chefbot-v2/backend/internal/database"
	"github.com/pageza/chefbot-v2/backend/internal/dataset"
	"github.com/pageza/chefbot-v2/backend/internal/middleware"
	"github.com/pageza/chefbot-v2/backend/internal/ml"
	"github.com/pageza/chefbot-v2/backend/internal/server"
	"github.com/pageza/chefbot-v2/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	recipes, err := dataset.Load(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to load recipe dataset: %v", err)
	}
	log.Printf("Loaded %d recipes", len(recipes))

	// Fit runs in the background; requests are rejected as not-ready until
	// it finishes.
	simModel := ml.NewTFIDFModel()
	nutritionModel := ml.NewNeighborNutritionModel()
	recommender := service.NewRecommender(recipes, simModel, nutritionModel, cfg.ResultCap)
	recommender.StartFit(func() error {
		if err := simModel.Fit(recipes); err != nil {
			return err
		}
		return nutritionModel.Fit(recipes)
	})

	var limiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, rate limiting disabled: %v", err)
	} else if redisClient != nil {
		limiter = middleware.NewRecommendRateLimiter(redisClient)
	}

	srv := server.New(cfg, server.Deps{
		Auth:        service.NewAuthService(db, cfg.JWTSecret),
		Recommender: recommender,
		Searches:    service.NewSearchLogService(db),
		RateLimiter: limiter,
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
