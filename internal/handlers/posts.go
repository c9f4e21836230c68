package handlers

import (
	"net/http"

	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CreatePost POST /posts
func CreatePost(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	post, err := services.CreatePost(userID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetPosts GET /posts
func GetPosts(c *gin.Context) {
	posts, err := services.ListPosts(50)
	if err != nil {
		logger.Warn().Err(err).Msg("posts unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// DeletePost DELETE /posts/:id
func DeletePost(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("id")

	if err := services.DeletePost(userID, postID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ToggleLike POST /posts/:id/like
func ToggleLike(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("id")

	liked, err := services.ToggleLike(userID, postID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// AddComment POST /posts/:id/comments
func AddComment(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	postID := c.Param("id")

	var req struct {
		Content  string  `json:"content" binding:"required"`
		ParentID *string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := services.AddComment(userID, postID, req.ParentID, req.Content)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// GetComments GET /posts/:id/comments
func GetComments(c *gin.Context) {
	postID := c.Param("id")

	comments, err := services.ListComments(postID)
	if err != nil {
		logger.Warn().Err(err).Msg("comments unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment DELETE /comments/:id
func DeleteComment(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	commentID := c.Param("id")

	if err := services.DeleteComment(userID, commentID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
