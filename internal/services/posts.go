package services

import (
	"strings"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/realtime"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"gorm.io/gorm"
)

func CreatePost(authorID, title, content, imageURL string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" && strings.TrimSpace(title) == "" {
		return nil, apperrors.Validation("Post cannot be empty")
	}

	post := models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		return nil, apperrors.Transient("Failed to create post")
	}
	database.DB.Preload("Author").First(&post, "id = ?", post.ID)
	return &post, nil
}

func ListPosts(limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	var posts []models.Post
	err := database.DB.Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return []models.Post{}, apperrors.Transient("post store unreachable")
	}
	return posts, nil
}

// DeletePost removes the post row, then attempts image cleanup. The row
// delete succeeds even if blob deletion fails.
func DeletePost(authorID, postID string) error {
	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Post not found")
		}
		return apperrors.Transient("post store unreachable")
	}
	if post.AuthorID != authorID {
		return apperrors.Forbidden("You can only delete your own posts")
	}
	if err := database.DB.Delete(&post).Error; err != nil {
		return apperrors.Transient("Failed to delete post")
	}
	if post.ImageURL != "" {
		if err := DeleteBlob(post.ImageURL); err != nil {
			logger.Warn().Err(err).Str("post", post.ID).Msg("post image cleanup failed")
		}
	}
	return nil
}

// ToggleLike likes the post if the user has not liked it, or removes the
// existing like. The like path fans out at most one unread notification
// per (author, post, actor) triple regardless of how fast the toggle is
// hammered.
func ToggleLike(userID, postID string) (bool, error) {
	var post models.Post
	if err := database.DB.Select("id", "author_id", "title").First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperrors.NotFound("Post not found")
		}
		return false, apperrors.Transient("post store unreachable")
	}

	var actor models.User
	if err := database.DB.Select("id", "name", "username").First(&actor, "id = ?", userID).Error; err != nil {
		return false, apperrors.NotAuthenticated("Unknown user")
	}

	var existing models.PostLike
	lookupErr := database.DB.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

	liked := false
	var created *models.Notification
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if lookupErr == nil {
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return adjustPostCounter(tx, postID, "likes_count", -1)
		}

		like := models.PostLike{PostID: postID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		liked = true
		if err := adjustPostCounter(tx, postID, "likes_count", +1); err != nil {
			return err
		}

		n, err := Emit(tx, PostLiked{
			PostID:      postID,
			PostOwnerID: post.AuthorID,
			PostTitle:   post.Title,
			ActorID:     userID,
			ActorName:   displayName(actor),
		})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return false, apperrors.Transient("Failed to toggle like")
	}

	if created != nil {
		realtime.PublishNotification(created.UserID, created)
	}
	return liked, nil
}

func adjustPostCounter(tx *gorm.DB, postID, column string, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// AddComment posts a comment or a reply. Threads are exactly two levels
// deep; replying to a reply is rejected.
func AddComment(userID, postID string, parentID *string, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("Comment cannot be empty")
	}

	var post models.Post
	if err := database.DB.Select("id", "author_id", "title").First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Post not found")
		}
		return nil, apperrors.Transient("post store unreachable")
	}

	if parentID != nil {
		var parent models.Comment
		if err := database.DB.First(&parent, "id = ?", *parentID).Error; err != nil {
			return nil, apperrors.NotFound("Parent comment not found")
		}
		if parent.PostID != postID {
			return nil, apperrors.Validation("Parent comment belongs to a different post")
		}
		if parent.ParentID != nil {
			return nil, apperrors.Validation("Replies cannot be nested")
		}
	}

	var actor models.User
	if err := database.DB.Select("id", "name", "username").First(&actor, "id = ?", userID).Error; err != nil {
		return nil, apperrors.NotAuthenticated("Unknown user")
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Content:  content,
	}

	var created *models.Notification
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := adjustPostCounter(tx, postID, "comments_count", +1); err != nil {
			return err
		}
		n, err := Emit(tx, PostCommented{
			PostID:      postID,
			PostOwnerID: post.AuthorID,
			PostTitle:   post.Title,
			CommentID:   comment.ID,
			ActorID:     userID,
			ActorName:   displayName(actor),
		})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, apperrors.Transient("Failed to post comment")
	}

	database.DB.Preload("User").First(&comment, "id = ?", comment.ID)

	if created != nil {
		realtime.PublishNotification(created.UserID, created)
	}
	return &comment, nil
}

// ListComments returns the post's top-level comments with their replies,
// oldest first. The two-level nesting is a join at read time, never a
// recursive walk.
func ListComments(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := database.DB.Preload("User").Preload("Replies.User").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return []models.Comment{}, apperrors.Transient("comment store unreachable")
	}
	return comments, nil
}

// DeleteComment removes an owned comment and its direct replies.
func DeleteComment(userID, commentID string) error {
	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Comment not found")
		}
		return apperrors.Transient("comment store unreachable")
	}
	if comment.UserID != userID {
		return apperrors.Forbidden("You can only delete your own comments")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var removed int64 = 1
		if comment.ParentID == nil {
			result := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{})
			if result.Error != nil {
				return result.Error
			}
			removed += result.RowsAffected
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return adjustPostCounter(tx, comment.PostID, "comments_count", -int(removed))
	})
	if err != nil {
		return apperrors.Transient("Failed to delete comment")
	}
	return nil
}
