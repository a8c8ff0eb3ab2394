package models

import (
	"time"
)

// UserStrike 对用户的永久处分记录，只增不改
// target_content 保存内容快照，供删除后的审计
type UserStrike struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	UserID        int64  `gorm:"not null;index" json:"user_id"`
	TargetType    int16  `gorm:"not null" json:"target_type"`
	TargetID      int64  `gorm:"not null" json:"target_id"`
	TargetContent string `gorm:"size:65536" json:"target_content"`
	ReasonCode    int16  `gorm:"not null" json:"reason_code"`
	IssuedByID    int64  `gorm:"not null" json:"issued_by_id"`

	CreatedAt time.Time `json:"created_at"`

	User     *User `gorm:"foreignKey:UserID" json:"-"`
	IssuedBy *User `gorm:"foreignKey:IssuedByID" json:"-"`
}

func (UserStrike) TableName() string {
	return "freak_userstrike"
}
