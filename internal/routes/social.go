package routes

import (
	"github.com/esteban572/first-responder-connect-sub000/internal/handlers"
	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterSocialRoutes(r gin.IRouter) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/online", handlers.GetOnlineUsers)
		users.GET("/connections", handlers.ListConnections)
		users.GET("/connection-requests", handlers.ListConnectionRequests)
		users.POST("/connection-requests/:id/accept", handlers.AcceptConnection)
		users.POST("/connection-requests/:id/reject", handlers.RejectConnection)

		users.POST("/:id/connect", handlers.RequestConnection)
		users.DELETE("/:id/connect", handlers.RemoveConnection)
		users.GET("/:id/connect/status", handlers.CheckConnection)

		users.POST("/:id/block", handlers.BlockUser)
		users.DELETE("/:id/block", handlers.UnblockUser)
		users.GET("/blocks", handlers.GetBlockedUsers)
		users.POST("/report", handlers.SubmitReport)
	}

	posts := r.Group("/posts")
	{
		protected := posts.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", handlers.CreatePost)
			protected.DELETE("/:id", handlers.DeletePost)
			protected.POST("/:id/like", handlers.ToggleLike)
			protected.POST("/:id/comments", handlers.AddComment)
		}

		posts.GET("", handlers.GetPosts)
		posts.GET("/:id/comments", handlers.GetComments)
	}

	comments := r.Group("/comments")
	comments.Use(middleware.AuthMiddleware())
	{
		comments.DELETE("/:id", handlers.DeleteComment)
	}
}

func RegisterAdminRoutes(r gin.IRouter) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/reports", handlers.ListReports)
		admin.PUT("/reports/:id", handlers.UpdateReportStatus)
	}
}
