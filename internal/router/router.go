package router

import (
	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/controller"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	userController         *controller.UserController
	tagController          *controller.TagController
	ingredientController   *controller.IngredientController
	recipeController       *controller.RecipeController
	favoriteController     *controller.FavoriteController
	shoppingCartController *controller.ShoppingCartController
	subscriptionController *controller.SubscriptionController
	feedController         *controller.FeedController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	tagController *controller.TagController,
	ingredientController *controller.IngredientController,
	recipeController *controller.RecipeController,
	favoriteController *controller.FavoriteController,
	shoppingCartController *controller.ShoppingCartController,
	subscriptionController *controller.SubscriptionController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		userController:         userController,
		tagController:          tagController,
		ingredientController:   ingredientController,
		recipeController:       recipeController,
		favoriteController:     favoriteController,
		shoppingCartController: shoppingCartController,
		subscriptionController: subscriptionController,
		feedController:         feedController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.POST("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		users := v1.Group("/users")
		{
			// Fixed segments before the :id wildcard
			users.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			users.GET("/subscriptions",
				r.authMiddleware.Authenticate(),
				r.subscriptionController.ListSubscriptions,
			)

			users.GET("", r.authMiddleware.OptionalAuthenticate(), r.userController.ListUsers)
			users.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.userController.GetUser)

			users.POST("/:id/subscribe",
				r.authMiddleware.Authenticate(),
				r.subscriptionController.Subscribe,
			)
			users.DELETE("/:id/subscribe",
				r.authMiddleware.Authenticate(),
				r.subscriptionController.Unsubscribe,
			)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.GET("/:id", r.tagController.GetTag)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.GET("", r.ingredientController.ListIngredients)
			ingredients.GET("/:id", r.ingredientController.GetIngredient)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.GET("", r.authMiddleware.OptionalAuthenticate(), r.recipeController.ListRecipes)
			recipes.GET("/popular", r.recipeController.GetPopularRecipes)
			recipes.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.recipeController.GetRecipe)

			recipes.POST("", r.authMiddleware.Authenticate(), r.recipeController.CreateRecipe)
			recipes.PUT("/:id", r.authMiddleware.Authenticate(), r.recipeController.UpdateRecipe)
			recipes.DELETE("/:id", r.authMiddleware.Authenticate(), r.recipeController.DeleteRecipe)

			recipes.POST("/:id/favorite", r.authMiddleware.Authenticate(), r.favoriteController.AddFavorite)
			recipes.DELETE("/:id/favorite", r.authMiddleware.Authenticate(), r.favoriteController.RemoveFavorite)

			recipes.POST("/:id/shopping_cart", r.authMiddleware.Authenticate(), r.shoppingCartController.AddToCart)
			recipes.DELETE("/:id/shopping_cart", r.authMiddleware.Authenticate(), r.shoppingCartController.RemoveFromCart)
		}

		shoppingCart := v1.Group("/shopping_cart")
		shoppingCart.Use(r.authMiddleware.Authenticate())
		{
			shoppingCart.GET("/ingredients", r.shoppingCartController.GetIngredientTotals)
			shoppingCart.GET("/download", r.shoppingCartController.DownloadShoppingList)
		}

		feed := v1.Group("/feed")
		{
			feed.GET("/ws", r.authMiddleware.Authenticate(), r.feedController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
