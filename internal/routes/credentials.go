package routes

import (
	"github.com/esteban572/first-responder-connect-sub000/internal/handlers"
	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterCredentialRoutes(r gin.IRouter) {
	credentials := r.Group("/credentials")
	credentials.Use(middleware.AuthMiddleware())
	{
		credentials.GET("", handlers.GetMyCredentials)
		credentials.GET("/expiring-count", handlers.GetExpiringCredentialCount)
		credentials.GET("/user/:userId", handlers.GetUserCredentials)
		credentials.POST("", handlers.CreateCredential)
		credentials.PUT("/:id", handlers.UpdateCredential)
		credentials.DELETE("/:id", handlers.DeleteCredential)
	}
}
