package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a feed entry authored by a user.
type Post struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	AuthorID  string         `gorm:"index;not null" json:"authorId"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	Title     string         `json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	ImageURL  string         `json:"imageUrl,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LikesCount    int64 `gorm:"default:0" json:"likesCount"`
	CommentsCount int64 `gorm:"default:0" json:"commentsCount"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// PostLike is one user's like on one post. The unique pair index makes
// the toggle idempotent at the storage layer.
type PostLike struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	PostID    string    `gorm:"uniqueIndex:idx_post_user_like" json:"postId"`
	UserID    string    `gorm:"uniqueIndex:idx_post_user_like" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (pl *PostLike) BeforeCreate(tx *gorm.DB) (err error) {
	if pl.ID == "" {
		pl.ID = uuid.New().String()
	}
	return
}

// Comment is a comment on a post. Threads are exactly two levels deep:
// a top-level comment has a nil ParentID, a reply points at the
// top-level comment it answers.
type Comment struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	PostID    string         `gorm:"index;not null" json:"postId"`
	UserID    string         `gorm:"index;not null" json:"userId"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	ParentID  *string        `gorm:"index" json:"parentId,omitempty"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
