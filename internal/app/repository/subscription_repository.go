package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	FindByUserAndAuthor(userID, authorID uint) (*model.Subscription, error)
	FindByUserID(userID uint) ([]model.Subscription, error)
	FindSubscriberIDs(authorID uint) ([]uint, error)
	Exists(userID, authorID uint) (bool, error)
	Delete(userID, authorID uint) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *model.Subscription) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"user_id":   subscription.UserID,
		"author_id": subscription.AuthorID,
	})

	if err := r.db.Create(subscription).Error; err != nil {
		logger.Error("Failed to create subscription in database", err, map[string]interface{}{
			"user_id":   subscription.UserID,
			"author_id": subscription.AuthorID,
		})
		return err
	}
	return nil
}

func (r *subscriptionRepository) FindByUserAndAuthor(userID, authorID uint) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// FindByUserID returns the user's subscriptions in creation order, with the
// subscribed-to author preloaded.
func (r *subscriptionRepository) FindByUserID(userID uint) ([]model.Subscription, error) {
	var subscriptions []model.Subscription
	err := r.db.Where("user_id = ?", userID).
		Preload("Author").
		Order("id ASC").
		Find(&subscriptions).Error
	if err != nil {
		logger.Error("Failed to find subscriptions by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return subscriptions, nil
}

// FindSubscriberIDs returns the ids of everyone following the given author,
// used to fan out feed notifications.
func (r *subscriptionRepository) FindSubscriberIDs(authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Subscription{}).
		Where("author_id = ?", authorID).
		Pluck("user_id", &ids).Error
	if err != nil {
		logger.Error("Failed to find subscriber ids", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return ids, nil
}

func (r *subscriptionRepository) Exists(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subscriptionRepository) Delete(userID, authorID uint) error {
	logger.Debug("Deleting subscription from database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	if err := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Subscription{}).Error; err != nil {
		logger.Error("Failed to delete subscription from database", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return err
	}
	return nil
}
