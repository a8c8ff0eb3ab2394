package models

import (
	"time"
)

// Comment 评论模型；parent_comment_id 构成任意深度的自引用树
type Comment struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	AuthorID        *int64 `gorm:"index" json:"author_id,omitempty"`
	ParentPostID    int64  `gorm:"not null;index" json:"parent_post_id"`
	ParentCommentID *int64 `gorm:"index" json:"parent_comment_id,omitempty"`

	TextContent string `gorm:"size:16384;not null" json:"text_content"`
	IsLocked    bool   `gorm:"not null;default:false" json:"is_locked"`

	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	CreatedIP string     `gorm:"size:64" json:"-"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	RemovedAt     *time.Time `json:"-"`
	RemovedByID   *int64     `json:"-"`
	RemovedReason *int16     `json:"-"`

	Author     *User `gorm:"foreignKey:AuthorID" json:"-"`
	ParentPost *Post `gorm:"foreignKey:ParentPostID" json:"-"`
}

func (Comment) TableName() string {
	return "freak_comment"
}

func (c *Comment) IsRemoved() bool {
	return c.RemovedAt != nil
}
