package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserService interface {
	ListUsers(viewerID *uint, limit, offset int) ([]UserView, error)
	GetUser(userID uint, viewerID *uint) (*UserView, error)
}

type userService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *userService) ListUsers(viewerID *uint, limit, offset int) ([]UserView, error) {
	users, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		isSubscribed, err := s.isSubscribed(viewerID, users[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, newUserView(&users[i], isSubscribed))
	}
	return views, nil
}

func (s *userService) GetUser(userID uint, viewerID *uint) (*UserView, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	isSubscribed, err := s.isSubscribed(viewerID, user.ID)
	if err != nil {
		return nil, err
	}

	view := newUserView(user, isSubscribed)
	return &view, nil
}

func (s *userService) isSubscribed(viewerID *uint, authorID uint) (bool, error) {
	if viewerID == nil || *viewerID == authorID {
		return false, nil
	}
	return s.subscriptionRepo.Exists(*viewerID, authorID)
}
