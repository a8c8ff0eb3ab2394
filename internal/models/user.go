package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	Username    string  `gorm:"column:username;size:32;uniqueIndex;not null" json:"username"`
	DisplayName string  `gorm:"size:64;not null" json:"display_name"`
	Passhash    string  `gorm:"size:256;not null" json:"-"`
	Email       *string `gorm:"size:256" json:"email,omitempty"`

	Karma            int64 `gorm:"not null;default:0" json:"karma"`
	IsAdministrator  bool  `gorm:"not null;default:false" json:"is_administrator"`
	IsDisabledByUser bool  `gorm:"not null;default:false" json:"-"`

	// 站级封禁字段；banned_until 为空表示无限期
	BannedAt     *time.Time `json:"-"`
	BannedByID   *int64     `json:"-"`
	BannedUntil  *time.Time `json:"-"`
	BannedReason int16      `gorm:"not null;default:0" json:"-"`

	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
	JoinedIP string    `gorm:"size:64" json:"-"`
}

func (User) TableName() string {
	return "freak_user"
}

// IsSuspended 封禁是否仍然生效（banned_until 过期后自动失效，无需解封写入）
func (u *User) IsSuspended(now time.Time) bool {
	if u.BannedAt == nil {
		return false
	}
	return u.BannedUntil == nil || u.BannedUntil.After(now)
}

// IsDisabled 账号是否不可用（被封禁或用户自行停用）
func (u *User) IsDisabled(now time.Time) bool {
	return u.IsSuspended(now) || u.IsDisabledByUser
}

// CanCreateGuild 创建社区需要达到 karma 阈值
func (u *User) CanCreateGuild() bool {
	return u.Karma > 15 || u.IsAdministrator
}

func (u *User) Handle() string {
	return "@" + u.Username
}
