package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink/internal/middleware"
	"shortlink/internal/service"
)

func NewRouter(
	users service.UserService,
	links service.LinkService,
	analytics service.AnalyticsService,
	clicks service.ClickProcessor,
	tokens service.TokenService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
	})

	// Every request gets a chance to carry an identity; only the
	// protected groups below enforce one.
	router.Use(middleware.Authenticate(tokens, users, logger))

	authHandler := NewAuthHandler(users, logger)
	linkHandler := NewLinkHandler(links, analytics, clicks, logger)

	public := router.Group("/api/auth/public")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	urls := router.Group("/api/urls")
	urls.Use(middleware.RequireUser())
	{
		urls.POST("/shorten", linkHandler.Shorten)
		urls.GET("/myurls", linkHandler.MyURLs)
		urls.GET("/analytics/:code", linkHandler.Analytics)
		urls.GET("/totalClicks", linkHandler.TotalClicks)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "shortlink"})
	})

	// Public redirect at the root path.
	router.GET("/:code", linkHandler.Redirect)

	return router
}
