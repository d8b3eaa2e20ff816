package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres error classes we care about
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// ErrorInfo is a parsed store error
type ErrorInfo struct {
	Code    string
	Message string
}

// IsUniqueViolation reports whether err is a unique-index violation, either as
// translated by gorm or as a raw pq error. The unique index is the authority
// for duplicate memberships, so this check backs every Conflict translation.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign-key violation
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	return false
}

// ParseError maps a raw store error to a code and a safe client message.
// Controllers use this as the fallback when no service sentinel matched.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsUniqueViolation(err) {
		return parseUniqueViolation(err)
	}

	if IsForeignKeyViolation(err) {
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced entity does not exist"}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgNotNullViolation {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Storage is temporarily unavailable, please retry",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Internal server error, please try again later"}
}

func parseUniqueViolation(err error) ErrorInfo {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "idx_favorites_user_recipe"):
		return ErrorInfo{Code: FavoriteExists, Message: "Recipe is already in favorites"}
	case strings.Contains(errStr, "idx_shopping_cart_user_recipe"):
		return ErrorInfo{Code: ShoppingCartExists, Message: "Recipe is already in the shopping cart"}
	case strings.Contains(errStr, "idx_subscriptions_user_author"):
		return ErrorInfo{Code: SubscriptionExists, Message: "Already subscribed to this author"}
	case strings.Contains(errStr, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errStr, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username is already taken"}
	case strings.Contains(errStr, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Slug is already in use"}
	}

	return ErrorInfo{Code: ResourceConflict, Message: "The entity already exists"}
}

// ParseAndRespond parses err and writes the standard error body
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found"
	case strings.Contains(contextLower, "ingredient"):
		return "Ingredient not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "author"):
		return "User not found"
	case strings.Contains(contextLower, "subscription"):
		return "Subscription not found"
	}
	return "Requested entity not found"
}
