package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAuthorNotFound       = errors.New("author not found")
	ErrAlreadySubscribed    = errors.New("already subscribed to this author")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type SubscriptionService interface {
	Subscribe(userID, authorID uint) (*SubscriptionView, error)
	Unsubscribe(userID, authorID uint) error
	ListSubscriptions(userID uint, recipesLimit int) ([]SubscriptionView, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	recipeRepo       repository.RecipeRepository
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
	}
}

func (s *subscriptionService) Subscribe(userID, authorID uint) (*SubscriptionView, error) {
	logger.Info("Subscribing to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	if userID == authorID {
		return nil, newValidationError("author", "cannot subscribe to yourself")
	}

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot subscribe: author not found", map[string]interface{}{
				"author_id": authorID,
			})
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	taken, err := s.subscriptionRepo.Exists(userID, authorID)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Warn("Subscription already exists", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return nil, ErrAlreadySubscribed
	}

	if err := s.subscriptionRepo.Create(&model.Subscription{UserID: userID, AuthorID: authorID}); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadySubscribed
		}
		logger.Error("Failed to create subscription", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return nil, err
	}

	logger.Info("Subscribed to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return s.buildSubscriptionView(author, 0)
}

func (s *subscriptionService) Unsubscribe(userID, authorID uint) error {
	logger.Info("Unsubscribing from author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	taken, err := s.subscriptionRepo.Exists(userID, authorID)
	if err != nil {
		return err
	}
	if !taken {
		logger.Warn("Subscription not found for removal", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return ErrSubscriptionNotFound
	}

	if err := s.subscriptionRepo.Delete(userID, authorID); err != nil {
		logger.Error("Failed to delete subscription", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return err
	}

	logger.Info("Unsubscribed from author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return nil
}

// ListSubscriptions returns the user's subscribed-to authors in subscription
// order. Each entry carries the author's total recipe count and a recipe
// sample capped at recipesLimit (0 means no cap).
func (s *subscriptionService) ListSubscriptions(userID uint, recipesLimit int) ([]SubscriptionView, error) {
	subscriptions, err := s.subscriptionRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, 0, len(subscriptions))
	for i := range subscriptions {
		view, err := s.buildSubscriptionView(&subscriptions[i].Author, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *subscriptionService) buildSubscriptionView(author *model.User, recipesLimit int) (*SubscriptionView, error) {
	recipes, err := s.recipeRepo.FindByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipeRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, newRecipeSummary(&recipes[i]))
	}

	return &SubscriptionView{
		UserView:     newUserView(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}
