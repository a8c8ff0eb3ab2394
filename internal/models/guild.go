package models

import (
	"time"
)

// Guild 社区模型（旧称 topic）
type Guild struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"size:64;not null" json:"display_name"`
	Description string `gorm:"size:4096" json:"description"`

	// OwnerID 为空表示无主社区，冻结发帖
	OwnerID      *int64 `json:"owner_id,omitempty"`
	Owner        *User  `gorm:"foreignKey:OwnerID" json:"-"`
	IsRestricted bool   `gorm:"not null;default:false" json:"is_restricted"`
	IsPublic     bool   `gorm:"not null;default:true" json:"is_public"`
	Language     string `gorm:"size:16;default:en-US" json:"language"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Members []Member `gorm:"foreignKey:GuildID" json:"-"`
	Posts   []Post   `gorm:"foreignKey:GuildID" json:"-"`
}

func (Guild) TableName() string {
	return "freak_guild"
}

// IsFrozen 无主社区不接受任何新内容
func (g *Guild) IsFrozen() bool {
	return g.OwnerID == nil
}

func (g *Guild) Handle() string {
	return "+" + g.Name
}
