package models

import (
	"time"
)

// Post 隐私级别
const (
	PrivacyPublic   int16 = 0 // 公开
	PrivacyUnlisted int16 = 1 // 不进入 feed，作者可直达
)

// Post 帖子模型；归属于一个社区或作者个人页（guild_id 为空）
type Post struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	Slug     string `gorm:"size:64" json:"slug"`
	Title    string `gorm:"size:256;not null" json:"title"`
	AuthorID *int64 `gorm:"index" json:"author_id,omitempty"`
	GuildID  *int64 `gorm:"index" json:"guild_id,omitempty"`

	Privacy  int16 `gorm:"not null;default:0" json:"privacy"`
	IsLocked bool  `gorm:"not null;default:false" json:"is_locked"`

	SourceURL   string `gorm:"size:1024" json:"source_url,omitempty"`
	TextContent string `gorm:"size:65536" json:"text_content"`

	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	CreatedIP string     `gorm:"size:64" json:"-"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// 软删除三元组；removed_at 非空即视为已移除
	RemovedAt     *time.Time `json:"-"`
	RemovedByID   *int64     `json:"-"`
	RemovedReason *int16     `json:"-"`

	Author *User  `gorm:"foreignKey:AuthorID" json:"-"`
	Guild  *Guild `gorm:"foreignKey:GuildID" json:"-"`
}

func (Post) TableName() string {
	return "freak_post"
}

func (p *Post) IsRemoved() bool {
	return p.RemovedAt != nil
}
