package scheduler

import (
	"context"
	"time"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const popularRecipesLimit = 10

// PopularRecipesScheduler refreshes the cached most-favorited recipes so list
// reads never pay for the aggregation query.
type PopularRecipesScheduler struct {
	cron          *cron.Cron
	recipeService service.RecipeService
}

func NewPopularRecipesScheduler(recipeService service.RecipeService) *PopularRecipesScheduler {
	return &PopularRecipesScheduler{
		cron:          cron.New(),
		recipeService: recipeService,
	}
}

func (s *PopularRecipesScheduler) Start() error {
	// Hourly, on the hour. The cache TTL is slightly longer so a slow run
	// never leaves a gap.
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting scheduled popular recipes refresh", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.recipeService.RefreshPopularRecipes(ctx, popularRecipesLimit); err != nil {
			logger.Error("Failed to refresh popular recipes from scheduler", err, nil)
			return
		}

		logger.Info("Successfully refreshed popular recipes from scheduler", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for popular recipes refresh", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Popular recipes scheduler started successfully (hourly)", nil)

	return nil
}

func (s *PopularRecipesScheduler) Stop() {
	logger.Info("Stopping popular recipes scheduler...", nil)
	s.cron.Stop()
	logger.Info("Popular recipes scheduler stopped", nil)
}
