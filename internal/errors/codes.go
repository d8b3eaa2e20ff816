package errors

// Error code constants returned in JSON error bodies.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps them to messages.

const (
	// Authentication (AUTH_)
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthUsernameReserved   = "AUTH_USERNAME_RESERVED"

	// Authorization (AUTHZ_)
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Resources (RESOURCE_)
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Recipes (RECIPE_)
	RecipeNotFound       = "RECIPE_NOT_FOUND"
	RecipeIngredientDup  = "RECIPE_INGREDIENT_DUPLICATE"
	RecipeTagNotFound    = "RECIPE_TAG_NOT_FOUND"
	IngredientNotFound   = "INGREDIENT_NOT_FOUND"
	TagNotFound          = "TAG_NOT_FOUND"
	UserNotFound         = "USER_NOT_FOUND"

	// Memberships (MEMBERSHIP_)
	FavoriteExists       = "FAVORITE_EXISTS"
	FavoriteNotFound     = "FAVORITE_NOT_FOUND"
	ShoppingCartExists   = "SHOPPING_CART_EXISTS"
	ShoppingCartNotFound = "SHOPPING_CART_NOT_FOUND"
	SubscriptionExists   = "SUBSCRIPTION_EXISTS"
	SubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"
	SelfSubscription     = "SELF_SUBSCRIPTION"

	// Infrastructure (INTERNAL_) — the only retryable class
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalImageStore    = "INTERNAL_IMAGE_STORE"
)
