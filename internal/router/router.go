package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/memovault/memovault/internal/handlers"
	"github.com/memovault/memovault/internal/middleware"
	"github.com/memovault/memovault/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(conn *gorm.DB, logger *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(conn, logger)
	contentHandler := handlers.NewContentHandler(conn, logger)
	shareHandler := handlers.NewShareHandler(conn, logger)

	r.GET("/healthz", handlers.HealthCheck)

	api := r.Group("/api/v1")
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/signin", authHandler.Signin)
		api.GET("/me", middleware.AuthMiddleware(conn), authHandler.Me)

		// Share-token reads are unauthenticated: the token itself is the
		// capability.
		api.GET("/share/:token", shareHandler.GetShared)

		content := api.Group("/content", middleware.AuthMiddleware(conn))
		{
			content.POST("", contentHandler.Create)
			content.GET("", contentHandler.List)
			content.GET("/:id", contentHandler.Get)
			content.PUT("/:id", contentHandler.Update)
			content.DELETE("", contentHandler.Delete)
		}

		share := api.Group("/share", middleware.AuthMiddleware(conn))
		{
			share.POST("", shareHandler.Create)
			share.DELETE("", shareHandler.Revoke)
		}
	}

	return r
}
