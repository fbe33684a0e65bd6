package main

import (
	"fmt"

	"github.com/recipebook/backend/config"
	httpDelivery "github.com/recipebook/backend/internal/delivery/http"
	"github.com/recipebook/backend/internal/domain"
	"github.com/recipebook/backend/internal/infrastructure/logging"
	"github.com/recipebook/backend/internal/infrastructure/openai"
	"github.com/recipebook/backend/internal/infrastructure/store"
	"github.com/recipebook/backend/internal/usecase"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(cfg.Server.LogLevel, cfg.Server.Environment)

	log.Info().Msg("Starting Recipebook Backend v1.0.0")
	log.Info().Msgf("Environment: %s", cfg.Server.Environment)
	log.Info().Msgf("Port: %s", cfg.Server.Port)
	log.Info().Msgf("Store Type: %s", cfg.Store.Type)

	// Initialize infrastructure dependencies
	var recipes domain.RecipeRepository
	switch cfg.Store.Type {
	case "badger":
		db, err := store.OpenBadger(cfg.Store.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open recipe store")
		}
		defer db.Close()

		badgerStore, err := store.NewBadgerRecipeStore(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize recipe store")
		}
		defer badgerStore.Close()

		recipes = badgerStore
		log.Info().Msgf("Badger store: %s", cfg.Store.Path)
	default:
		recipes = store.NewMemoryRecipeStore()
	}

	// Keep the interface nil when no key is configured
	var enhancer domain.TextEnhancer
	if cfg.OpenAI.APIKey != "" {
		enhancer = openai.NewEnhancer(openai.Config{
			APIKey:            cfg.OpenAI.APIKey,
			BaseURL:           cfg.OpenAI.BaseURL,
			Model:             cfg.OpenAI.Model,
			Timeout:           cfg.OpenAI.Timeout,
			RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
		})
		log.Info().Msgf("Text enhancement enabled (model: %s)", cfg.OpenAI.Model)
	} else {
		log.Warn().Msg("Text enhancement disabled: RECIPEBOOK_OPENAI_API_KEY not set")
	}

	// Initialize usecase layer
	matcher := usecase.NewPantryMatcher(usecase.MatcherConfig{
		SimilarityThreshold: cfg.Matching.SimilarityThreshold,
	})

	scalingService := usecase.NewScalingService(recipes, enhancer)
	suggestionService := usecase.NewSuggestionService(recipes, matcher, usecase.SuggestionConfig{
		DefaultLimit: cfg.Matching.DefaultSuggestLimit,
		MaxLimit:     cfg.Matching.MaxSuggestLimit,
	})
	mealPlanService := usecase.NewMealPlanService(recipes, matcher, enhancer)

	log.Info().Msgf("Matching: similarity=%.2f, suggest limit=%d/%d, per-IP rate=%d/min",
		cfg.Matching.SimilarityThreshold,
		cfg.Matching.DefaultSuggestLimit,
		cfg.Matching.MaxSuggestLimit,
		cfg.RateLimit.PerIP)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recipes, scalingService, suggestionService, mealPlanService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Msgf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("Failed to start server")
	}
}
