package models

import (
	"time"
)

// Member 用户—社区关系行，按 (guild_id, user_id) 唯一
// 订阅、审批、版主、社区内封禁都在这一行上；首次交互时惰性创建
type Member struct {
	GuildID int64 `gorm:"primaryKey;autoIncrement:false" json:"guild_id"`
	UserID  int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`

	IsSubscribed bool `gorm:"not null;default:false" json:"is_subscribed"`
	IsApproved   bool `gorm:"not null;default:false" json:"is_approved"`
	IsModerator  bool `gorm:"not null;default:false" json:"is_moderator"`

	// 社区内封禁字段，与站级封禁同构
	BannedAt     *time.Time `json:"-"`
	BannedByID   *int64     `json:"-"`
	BannedUntil  *time.Time `json:"-"`
	BannedReason int16      `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	Guild *Guild `gorm:"foreignKey:GuildID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (Member) TableName() string {
	return "freak_member"
}

// IsBanned 社区内封禁是否生效；banned_until 过期即自动失效
func (m *Member) IsBanned(now time.Time) bool {
	if m.BannedAt == nil {
		return false
	}
	return m.BannedUntil == nil || m.BannedUntil.After(now)
}
