package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionController(subscriptionService service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// Subscribe follows an author
// POST /api/v1/users/:id/subscribe
func (ctrl *SubscriptionController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	view, err := ctrl.subscriptionService.Subscribe(userID, uint(authorID))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			apperrors.RespondWithValidationError(c, verr.Fields)
			return
		}
		if errors.Is(err, service.ErrAuthorNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		if errors.Is(err, service.ErrAlreadySubscribed) {
			apperrors.Conflict(c, apperrors.SubscriptionExists, "Already subscribed to this author")
			return
		}
		log.Error("Failed to subscribe", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "subscribe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Subscribed successfully",
		"author":  view,
	})
}

// Unsubscribe stops following an author
// DELETE /api/v1/users/:id/subscribe
func (ctrl *SubscriptionController) Unsubscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(userID, uint(authorID)); err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			apperrors.NotFound(c, apperrors.SubscriptionNotFound, "Not subscribed to this author")
			return
		}
		log.Error("Failed to unsubscribe", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unsubscribed successfully",
	})
}

// ListSubscriptions returns the authenticated user's subscribed authors, each
// with a recipe sample bounded by recipes_limit
// GET /api/v1/users/subscriptions?recipes_limit=3
func (ctrl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipes_limit")
			return
		}
		recipesLimit = parsed
	}

	subscriptions, err := ctrl.subscriptionService.ListSubscriptions(userID, recipesLimit)
	if err != nil {
		log.Error("Failed to list subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": subscriptions,
		"count":         len(subscriptions),
	})
}
